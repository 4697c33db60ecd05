package models

import (
	"fmt"
	"net/url"
)

// MaxPaymentScreenshotBytes caps the uploaded proof of payment
const MaxPaymentScreenshotBytes = 5 << 20

// UPIPayment describes a manual UPI transfer the customer makes before uploading proof
type UPIPayment struct {
	PayeeID   string `json:"payee_id"`
	PayeeName string `json:"payee_name"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
}

// IntentURL builds the upi:// deep link opened by payment apps
func (p UPIPayment) IntentURL() string {
	q := url.Values{}
	q.Set("pa", p.PayeeID)
	q.Set("pn", p.PayeeName)
	q.Set("am", fmt.Sprintf("%d", p.Amount))
	q.Set("cu", "INR")
	q.Set("tn", p.Note)
	return "upi://pay?" + q.Encode()
}
