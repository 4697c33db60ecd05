package services

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

type ProfileService interface {
	// GetProfile returns nil without error for a phone that never onboarded
	GetProfile(ctx context.Context, phone string) (*models.UserProfile, error)
	CompleteOnboarding(ctx context.Context, phone, name string, address models.DeliveryAddress) (*models.UserProfile, error)
	UpdateName(ctx context.Context, phone, name string) (*models.UserProfile, error)
	AddAddress(ctx context.Context, phone string, address models.DeliveryAddress) (*models.UserProfile, error)
	UpdateAddress(ctx context.Context, phone string, index int, address models.DeliveryAddress) (*models.UserProfile, error)
	RemoveAddress(ctx context.Context, phone string, index int) (*models.UserProfile, error)
}

func NewProfileService(repo models.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

type profileService struct {
	repo models.ProfileRepository
}

func (s *profileService) GetProfile(ctx context.Context, phone string) (*models.UserProfile, error) {
	profile, err := s.repo.Find(ctx, phone)
	if errors.Is(err, models.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithField("phone", phone).Error("Error fetching profile")
		return nil, err
	}
	return profile, nil
}

func (s *profileService) CompleteOnboarding(ctx context.Context, phone, name string, address models.DeliveryAddress) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if err := address.ValidateComplete(); err != nil {
		return nil, err
	}
	if address.Type == "" {
		address.Type = "Home"
	}

	profile, err := s.loadOrNew(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile.Name = name
	profile.Addresses = append(profile.Addresses, address)
	return s.save(ctx, profile)
}

func (s *profileService) UpdateName(ctx context.Context, phone, name string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	profile, err := s.loadOrNew(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile.Name = name
	return s.save(ctx, profile)
}

func (s *profileService) AddAddress(ctx context.Context, phone string, address models.DeliveryAddress) (*models.UserProfile, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.loadOrNew(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile.Addresses = append(profile.Addresses, address)
	return s.save(ctx, profile)
}

func (s *profileService) UpdateAddress(ctx context.Context, phone string, index int, address models.DeliveryAddress) (*models.UserProfile, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.repo.Find(ctx, phone)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(profile.Addresses) {
		return nil, models.ErrAddressNotFound
	}
	profile.Addresses[index] = address
	return s.save(ctx, profile)
}

func (s *profileService) RemoveAddress(ctx context.Context, phone string, index int) (*models.UserProfile, error) {
	profile, err := s.repo.Find(ctx, phone)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(profile.Addresses) {
		return nil, models.ErrAddressNotFound
	}
	profile.Addresses = append(profile.Addresses[:index], profile.Addresses[index+1:]...)
	return s.save(ctx, profile)
}

func (s *profileService) loadOrNew(ctx context.Context, phone string) (*models.UserProfile, error) {
	if err := models.ValidatePhone(phone); err != nil {
		return nil, err
	}
	profile, err := s.repo.Find(ctx, phone)
	if errors.Is(err, models.ErrProfileNotFound) {
		return &models.UserProfile{Phone: phone, Addresses: []models.DeliveryAddress{}}, nil
	}
	return profile, err
}

func (s *profileService) save(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if err := s.repo.Upsert(ctx, profile); err != nil {
		log.WithError(err).WithField("phone", profile.Phone).Error("Error saving profile")
		return nil, err
	}
	return profile, nil
}
