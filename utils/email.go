// utils/email.go
package utils

import (
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService returns nil when no Postmark token is configured
func NewEmailService(apiToken, sender string) *EmailService {
	if apiToken == "" {
		log.Info("POSTMARK token not set. Order emails are disabled.")
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
		Tag:      "orders",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.WithField("to", toEmail).Info("Email sent successfully")
	return nil
}

// SendNewOrderEmail tells the shop owner that an order is waiting for payment review
func (es *EmailService) SendNewOrderEmail(toEmail string, order models.Order) error {
	subject, htmlContent, textContent := NewOrderEmail(order)
	return es.SendEmail(toEmail, subject, htmlContent, textContent)
}

// NewOrderEmail renders the subject and bodies of the new order email
func NewOrderEmail(order models.Order) (subject, htmlContent, textContent string) {
	subject = fmt.Sprintf("New order %s - ₹%d", order.ID, order.Total)

	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%s (x%d)", item.Name, item.Quantity))
	}
	customer := order.CustomerName
	if customer == "" {
		customer = "Unknown"
	}
	city := order.City()
	if city == "" {
		city = "-"
	}
	proof := "not uploaded"
	if order.PaymentScreenshot != "" {
		proof = "uploaded, awaiting verification"
	}

	textContent = fmt.Sprintf(
		"Order %s placed on %s\nCustomer: %s (%s)\nCity: %s\nItems: %s\nTotal: ₹%d\nPayment proof: %s\n",
		order.ID, order.Date, customer, order.CustomerPhone, city, strings.Join(lines, "; "), order.Total, proof,
	)
	htmlContent = fmt.Sprintf(
		"<strong>Order %s</strong> placed on %s<br><br>Customer: %s (%s)<br>City: %s<br>Items: %s<br>Total: <strong>₹%d</strong><br>Payment proof: %s",
		html.EscapeString(order.ID),
		html.EscapeString(order.Date),
		html.EscapeString(customer),
		html.EscapeString(order.CustomerPhone),
		html.EscapeString(city),
		html.EscapeString(strings.Join(lines, "; ")),
		order.Total,
		proof,
	)
	return subject, htmlContent, textContent
}
