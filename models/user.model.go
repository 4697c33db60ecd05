package models

import (
	"context"
	"strings"
	"time"
)

// UserProfile is a customer identified by phone number
type UserProfile struct {
	Phone     string            `json:"phone_number"`
	Name      string            `json:"name,omitempty"`
	Addresses []DeliveryAddress `json:"addresses"`
	CreatedAt time.Time         `json:"created_at"`
}

// Onboarded reports whether the profile has a name
func (p *UserProfile) Onboarded() bool {
	return p != nil && strings.TrimSpace(p.Name) != ""
}

// HasAddress reports whether at least one address is stored
func (p *UserProfile) HasAddress() bool {
	return p != nil && len(p.Addresses) > 0
}

// ValidatePhone checks for a 10 digit number
func ValidatePhone(phone string) error {
	if len(phone) != 10 {
		return NewValidationError("phone_number", "must be a 10-digit phone number")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return NewValidationError("phone_number", "must contain digits only")
		}
	}
	return nil
}

// Validate checks the fields required before an address is persisted
func (a DeliveryAddress) Validate() error {
	if strings.TrimSpace(a.Line1) == "" {
		return NewValidationError("line1", "is required")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		return NewValidationError("pincode", "is required")
	}
	return nil
}

// ValidateComplete additionally requires city and state, as asked at onboarding
func (a DeliveryAddress) ValidateComplete() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.City) == "" {
		return NewValidationError("city", "is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return NewValidationError("state", "is required")
	}
	return nil
}

// ProfileRepository persists customer profiles keyed by phone
type ProfileRepository interface {
	Find(ctx context.Context, phone string) (*UserProfile, error)
	Upsert(ctx context.Context, profile *UserProfile) error
}
