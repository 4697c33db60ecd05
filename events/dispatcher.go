package events

import (
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// Multi fans an event out to every dispatcher and returns the first error
type Multi []models.EventDispatcher

func (m Multi) Dispatch(event models.Event) error {
	var first error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Dispatch(event); err != nil {
			log.WithError(err).WithField("event", event.Type()).Warn("Event dispatcher failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// LogDispatcher writes each event as a structured log line
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(event models.Event) error {
	log.WithFields(log.Fields{
		"event":    event.Type(),
		"order_id": models.EventOrderID(event),
	}).Info("Order event")
	return nil
}
