package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

type SettingsService interface {
	// Get never fails; stored fields are merged over the defaults
	Get(ctx context.Context) models.SiteSettings
	Save(ctx context.Context, settings models.SiteSettings) error
}

func NewSettingsService(repo models.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

type settingsService struct {
	repo models.SettingsRepository
}

func (s *settingsService) Get(ctx context.Context) models.SiteSettings {
	defaults := models.DefaultSettings()
	doc, err := s.repo.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("Error fetching settings, using defaults")
		return defaults
	}
	if doc == nil {
		return defaults
	}
	return doc.Merge(defaults)
}

func (s *settingsService) Save(ctx context.Context, settings models.SiteSettings) error {
	if err := s.repo.Put(ctx, settings.Document()); err != nil {
		log.WithError(err).Error("Error saving settings")
		return err
	}
	return nil
}
