package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "fuko"

// Config is the process configuration read from the environment
type Config struct {
	AppEnv   string `envconfig:"app_env" default:"development"`
	HTTPAddr string `envconfig:"http_addr" default:":8000"`

	DBDriver string `envconfig:"db_driver" default:"pgx"`
	DBDSN    string `envconfig:"db_dsn" required:"true"`

	MongoURI      string `envconfig:"mongo_uri" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"mongo_database" default:"fuko"`

	SettingsBackend string `envconfig:"settings_backend" default:"mongo"`
	PebbleDir       string `envconfig:"pebble_dir" default:"data/settings"`

	JWTSecret    string        `envconfig:"jwt_secret" required:"true"`
	SessionTTL   time.Duration `envconfig:"session_ttl" default:"720h"`
	AdminTTL     time.Duration `envconfig:"admin_ttl" default:"12h"`
	AdminPINHash string        `envconfig:"admin_pin_hash"`

	TwilioAccountSID       string `envconfig:"twilio_account_sid"`
	TwilioAuthToken        string `envconfig:"twilio_auth_token"`
	TwilioVerifyServiceSID string `envconfig:"twilio_verify_service_sid"`
	OTPChannel             string `envconfig:"otp_channel" default:"whatsapp"`
	PhoneCountryPrefix     string `envconfig:"phone_country_prefix" default:"+91"`

	OTPDevBypass      bool   `envconfig:"otp_dev_bypass" default:"false"`
	OTPDevBypassPhone string `envconfig:"otp_dev_bypass_phone"`
	OTPDevBypassCode  string `envconfig:"otp_dev_bypass_code"`

	StrictOrderTransitions bool `envconfig:"strict_order_transitions" default:"false"`

	KafkaBrokers []string `envconfig:"kafka_brokers"`
	KafkaTopic   string   `envconfig:"kafka_topic" default:"fuko.orders"`

	PostmarkToken string `envconfig:"postmark_token"`
	EmailSender   string `envconfig:"email_sender"`
	AdminEmail    string `envconfig:"admin_email"`

	UploadDir    string `envconfig:"upload_dir" default:"uploads"`
	UPIPayeeID   string `envconfig:"upi_payee_id" default:"fuko@upi"`
	UPIPayeeName string `envconfig:"upi_payee_name" default:"Fuko"`

	RequestTimeout time.Duration `envconfig:"request_timeout" default:"10s"`
}

// Load reads an optional .env file and then the FUKO_* environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Production reports whether the service runs in production
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// Validate rejects unsafe or incomplete combinations
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "pgx", "mysql":
	default:
		return errors.Errorf("unsupported db driver %q", c.DBDriver)
	}
	switch c.SettingsBackend {
	case "mongo", "pebble":
	default:
		return errors.Errorf("unsupported settings backend %q", c.SettingsBackend)
	}
	if c.OTPDevBypass {
		if c.Production() {
			return errors.New("otp dev bypass cannot be enabled in production")
		}
		if c.OTPDevBypassPhone == "" || c.OTPDevBypassCode == "" {
			return errors.New("otp dev bypass requires both a phone and a code")
		}
	}
	return nil
}

// TwilioConfigured reports whether all Twilio Verify credentials are present
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioVerifyServiceSID != ""
}
