package models

import "context"

// SettingsKey is the fixed storage key of the site settings record
const SettingsKey = "site_settings"

// AnnouncementBanner is the strip shown above the storefront header
type AnnouncementBanner struct {
	Text      string `json:"text" bson:"text"`
	IsVisible bool   `json:"is_visible" bson:"is_visible"`
	Link      string `json:"link,omitempty" bson:"link,omitempty"`
}

// HeroText is the headline block on the home page
type HeroText struct {
	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
}

// SiteSettings holds the editable storefront content
type SiteSettings struct {
	AnnouncementBanner AnnouncementBanner `json:"announcement_banner"`
	HeroText           HeroText           `json:"hero_text"`
	HeroImage          string             `json:"hero_image,omitempty"`
	TickerText         string             `json:"ticker_text,omitempty"`
}

// SettingsDocument is the stored form of SiteSettings; absent fields fall back to defaults
type SettingsDocument struct {
	ID                 string              `json:"-" bson:"_id"`
	AnnouncementBanner *AnnouncementBanner `json:"announcement_banner,omitempty" bson:"announcement_banner,omitempty"`
	HeroText           *HeroText           `json:"hero_text,omitempty" bson:"hero_text,omitempty"`
	HeroImage          *string             `json:"hero_image,omitempty" bson:"hero_image,omitempty"`
	TickerText         *string             `json:"ticker_text,omitempty" bson:"ticker_text,omitempty"`
}

// DefaultSettings returns the launch content of the storefront
func DefaultSettings() SiteSettings {
	return SiteSettings{
		AnnouncementBanner: AnnouncementBanner{
			Text:      "Experience the Archives: Free shipping on orders over ₹1500",
			IsVisible: true,
			Link:      "/shop",
		},
		HeroText: HeroText{
			Title:    "know Smoking",
			Subtitle: "100% Additive-free. No expanded filler. Just the raw, undulterated leaf.",
		},
		HeroImage:  "/hero-bg-v2.jpg",
		TickerText: "ZERO ADDITIVES • NO EXPANDED VOLUME • 100% WHOLE LEAF • NATIVE CURING PROCESS • HAND SELECTED",
	}
}

// Document converts settings to their stored form
func (s SiteSettings) Document() SettingsDocument {
	banner := s.AnnouncementBanner
	hero := s.HeroText
	image := s.HeroImage
	ticker := s.TickerText
	return SettingsDocument{
		ID:                 SettingsKey,
		AnnouncementBanner: &banner,
		HeroText:           &hero,
		HeroImage:          &image,
		TickerText:         &ticker,
	}
}

// Merge overlays the present top-level fields of d on defaults
func (d SettingsDocument) Merge(defaults SiteSettings) SiteSettings {
	merged := defaults
	if d.AnnouncementBanner != nil {
		merged.AnnouncementBanner = *d.AnnouncementBanner
	}
	if d.HeroText != nil {
		merged.HeroText = *d.HeroText
	}
	if d.HeroImage != nil {
		merged.HeroImage = *d.HeroImage
	}
	if d.TickerText != nil {
		merged.TickerText = *d.TickerText
	}
	return merged
}

// SettingsRepository reads and writes the settings singleton
type SettingsRepository interface {
	// Get returns nil without error when nothing is stored yet
	Get(ctx context.Context) (*SettingsDocument, error)
	Put(ctx context.Context, doc SettingsDocument) error
}
