package events

import (
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// OrderMailer sends the new order notification
type OrderMailer interface {
	SendNewOrderEmail(toEmail string, order models.Order) error
}

// EmailNotifier emails the shop owner about every placed order
type EmailNotifier struct {
	mailer OrderMailer
	to     string
	sent   func(error)
}

func NewEmailNotifier(mailer OrderMailer, to string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, to: to}
}

// Dispatch sends the email in the background
func (n *EmailNotifier) Dispatch(event models.Event) error {
	placed, ok := event.(models.OrderPlaced)
	if !ok {
		return nil
	}
	go func(order models.Order) {
		err := n.mailer.SendNewOrderEmail(n.to, order)
		if err != nil {
			log.WithError(err).WithField("order_id", order.ID).Error("Failed to send new order email")
		}
		if n.sent != nil {
			n.sent(err)
		}
	}(placed.Order)
	return nil
}
