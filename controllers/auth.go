package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fuko-store/checkout"
	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// OTPObserver records OTP outcomes
type OTPObserver interface {
	ObserveOTP(action, outcome string)
}

// AuthController handles phone login and the admin PIN
type AuthController struct {
	Verifier     services.OTPVerifier
	Profiles     services.ProfileService
	Observer     OTPObserver
	SessionTTL   time.Duration
	AdminTTL     time.Duration
	AdminPINHash string
}

// NewAuthController creates a new AuthController
func NewAuthController(verifier services.OTPVerifier, profiles services.ProfileService, observer OTPObserver, sessionTTL, adminTTL time.Duration, adminPINHash string) *AuthController {
	return &AuthController{
		Verifier:     verifier,
		Profiles:     profiles,
		Observer:     observer,
		SessionTTL:   sessionTTL,
		AdminTTL:     adminTTL,
		AdminPINHash: adminPINHash,
	}
}

type otpRequest struct {
	Phone string `json:"phone_number"`
	Code  string `json:"code"`
}

// SendOTP starts a verification for the phone
func (ac *AuthController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := models.ValidatePhone(req.Phone); err != nil {
		utils.Error(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := ac.Verifier.SendCode(ctx, req.Phone); err != nil {
		ac.observe("send", "error")
		ac.otpError(w, err)
		return
	}
	ac.observe("send", "ok")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"step":    checkout.StepOTP,
	})
}

// VerifyOTP checks the code and issues a session token with the next checkout step
func (ac *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	flow := checkout.New()
	if err := flow.SubmitPhone(req.Phone); err != nil {
		utils.Error(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	approved, err := ac.Verifier.CheckCode(ctx, req.Phone, req.Code)
	if err != nil {
		ac.observe("verify", "error")
		ac.otpError(w, err)
		return
	}
	if !approved {
		ac.observe("verify", "rejected")
		http.Error(w, "Invalid OTP", http.StatusUnauthorized)
		return
	}
	ac.observe("verify", "approved")

	profile, err := ac.Profiles.GetProfile(ctx, req.Phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := flow.VerifyOTP(true, profile); err != nil {
		utils.Error(w, err)
		return
	}

	token, err := utils.GenerateSessionToken(req.Phone, ac.SessionTTL)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"profile": profile,
		"flow":    flow,
	})
}

// AdminLogin exchanges the dashboard PIN for an admin token
func (ac *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if ac.AdminPINHash == "" {
		http.Error(w, "Admin login is not configured", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ac.AdminPINHash), []byte(req.PIN)); err != nil {
		log.WithField("remoteAddr", r.RemoteAddr).Warn("Rejected admin PIN")
		http.Error(w, "Invalid PIN", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateAdminToken(ac.AdminTTL)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (ac *AuthController) otpError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		utils.Error(w, err)
	case errors.Is(err, services.ErrOTPNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func (ac *AuthController) observe(action, outcome string) {
	if ac.Observer != nil {
		ac.Observer.ObserveOTP(action, outcome)
	}
}
