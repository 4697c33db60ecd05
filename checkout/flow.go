// Package checkout holds the customer checkout state machine.
//
// The flow moves login → otp → onboarding → address → payment → confirmation.
// A customer with a remembered phone skips login and otp; a named customer
// skips onboarding and picks one of the saved addresses. Confirmation is only
// reached after the order has been stored.
package checkout

import (
	"errors"
	"fmt"

	"fuko-store/models"
)

type Step string

const (
	StepLogin        Step = "login"
	StepOTP          Step = "otp"
	StepOnboarding   Step = "onboarding"
	StepAddress      Step = "address"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var (
	ErrInvalidStep      = errors.New("action is not allowed at the current checkout step")
	ErrOTPRejected      = errors.New("verification code was not approved")
	ErrNoAddress        = errors.New("no delivery address selected")
	ErrNotOnboarded     = errors.New("profile needs a name and an address")
	ErrAddressOutOfList = errors.New("address index out of range")
)

// Flow is the checkout state of one customer
type Flow struct {
	Step            Step                     `json:"step"`
	Phone           string                   `json:"phone_number,omitempty"`
	Name            string                   `json:"name,omitempty"`
	Addresses       []models.DeliveryAddress `json:"addresses,omitempty"`
	SelectedAddress *models.DeliveryAddress  `json:"selected_address,omitempty"`
	OrderID         string                   `json:"order_id,omitempty"`
	LastError       string                   `json:"error,omitempty"`
}

// New returns a flow at the login step
func New() *Flow {
	return &Flow{Step: StepLogin}
}

// Start resumes a customer whose phone was remembered from an earlier session
func (f *Flow) Start(rememberedPhone string, profile *models.UserProfile) {
	if rememberedPhone == "" {
		f.Step = StepLogin
		return
	}
	f.Phone = rememberedPhone
	f.resume(profile)
}

func (f *Flow) SubmitPhone(phone string) error {
	if f.Step != StepLogin {
		return f.fail(ErrInvalidStep)
	}
	if err := models.ValidatePhone(phone); err != nil {
		return f.fail(err)
	}
	f.Phone = phone
	f.Step = StepOTP
	f.LastError = ""
	return nil
}

// VerifyOTP advances past otp when the code was approved; profile may be nil for a new customer
func (f *Flow) VerifyOTP(approved bool, profile *models.UserProfile) error {
	if f.Step != StepOTP {
		return f.fail(ErrInvalidStep)
	}
	if !approved {
		return f.fail(ErrOTPRejected)
	}
	f.resume(profile)
	return nil
}

// CompleteOnboarding takes the saved profile and moves straight to payment with its newest address
func (f *Flow) CompleteOnboarding(profile *models.UserProfile) error {
	if f.Step != StepOnboarding {
		return f.fail(ErrInvalidStep)
	}
	if !profile.Onboarded() || !profile.HasAddress() {
		return f.fail(ErrNotOnboarded)
	}
	f.load(profile)
	addr := f.Addresses[len(f.Addresses)-1]
	f.SelectedAddress = &addr
	f.Step = StepPayment
	f.LastError = ""
	return nil
}

func (f *Flow) SelectAddress(index int) error {
	if f.Step != StepAddress {
		return f.fail(ErrInvalidStep)
	}
	if index < 0 || index >= len(f.Addresses) {
		return f.fail(ErrAddressOutOfList)
	}
	addr := f.Addresses[index]
	f.SelectedAddress = &addr
	f.Step = StepPayment
	f.LastError = ""
	return nil
}

// ConfirmPayment calls place to store the order. On failure the flow stays at
// payment with the error recorded so the customer can retry.
func (f *Flow) ConfirmPayment(place func() (string, error)) error {
	if f.Step != StepPayment {
		return f.fail(ErrInvalidStep)
	}
	if f.SelectedAddress == nil {
		return f.fail(ErrNoAddress)
	}
	orderID, err := place()
	if err != nil {
		return f.fail(fmt.Errorf("failed to place order: %w", err))
	}
	f.OrderID = orderID
	f.Step = StepConfirmation
	f.LastError = ""
	return nil
}

// resume sends a named customer to address selection, even with no saved
// address yet; only a missing or nameless profile is onboarded
func (f *Flow) resume(profile *models.UserProfile) {
	f.LastError = ""
	if profile != nil {
		f.load(profile)
	}
	if profile.Onboarded() {
		f.Step = StepAddress
		return
	}
	f.Step = StepOnboarding
}

func (f *Flow) load(profile *models.UserProfile) {
	f.Name = profile.Name
	f.Addresses = append([]models.DeliveryAddress(nil), profile.Addresses...)
}

func (f *Flow) fail(err error) error {
	f.LastError = err.Error()
	return err
}
