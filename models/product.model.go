package models

import (
	"context"
	"regexp"
	"strings"
)

// MaxProductImages caps the image list of a product
const MaxProductImages = 5

// DefaultWeight is applied to products saved without a weight label
const DefaultWeight = "40g"

// TagColor is the palette of a marketing tag
type TagColor string

const (
	TagAccent TagColor = "accent"
	TagNature TagColor = "nature"
)

// Tag is an optional marketing label shown on a product card
type Tag struct {
	Label string   `json:"label"`
	Color TagColor `json:"color"`
}

// Product represents a sellable catalog entry
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Weight      string   `json:"weight,omitempty"`
	Tag         *Tag     `json:"tag,omitempty"`
	IsAvailable bool     `json:"is_available"`
	IsHidden    bool     `json:"is_hidden"`
}

// ProductInput is a save request; nil flags take their defaults
type ProductInput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Weight      string   `json:"weight"`
	Tag         *Tag     `json:"tag"`
	IsAvailable *bool    `json:"is_available"`
	IsHidden    *bool    `json:"is_hidden"`
}

// OnStorefront reports whether customers can see and buy the product
func (p Product) OnStorefront() bool {
	return !p.IsHidden && p.IsAvailable
}

// CoverImage returns the first image or an empty string
func (p Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify derives a product id from its name
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Normalize validates the input and fills defaults
func (in ProductInput) Normalize() (Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, NewValidationError("name", "is required")
	}
	if in.Price <= 0 {
		return Product{}, NewValidationError("price", "must be positive")
	}
	if len(in.Images) > MaxProductImages {
		return Product{}, ErrTooManyImages
	}
	if in.Tag != nil && in.Tag.Color != TagAccent && in.Tag.Color != TagNature {
		return Product{}, NewValidationError("tag.color", "must be accent or nature")
	}

	id := in.ID
	if id == "" {
		id = Slugify(name)
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	weight := in.Weight
	if weight == "" {
		weight = DefaultWeight
	}

	p := Product{
		ID:          id,
		Name:        name,
		Price:       in.Price,
		Description: in.Description,
		Images:      images,
		Weight:      weight,
		Tag:         in.Tag,
		IsAvailable: true,
		IsHidden:    false,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.IsHidden != nil {
		p.IsHidden = *in.IsHidden
	}
	return p, nil
}

// ImageDirection is the way an image moves within the list
type ImageDirection string

const (
	MoveLeft  ImageDirection = "left"
	MoveRight ImageDirection = "right"
)

// MoveImage swaps the image at index with its neighbour
func (p *Product) MoveImage(index int, dir ImageDirection) error {
	if index < 0 || index >= len(p.Images) {
		return NewValidationError("index", "out of range")
	}
	var target int
	switch dir {
	case MoveLeft:
		target = index - 1
	case MoveRight:
		target = index + 1
	default:
		return NewValidationError("direction", "must be left or right")
	}
	if target < 0 || target >= len(p.Images) {
		return NewValidationError("index", "image is already at the edge")
	}
	p.Images[index], p.Images[target] = p.Images[target], p.Images[index]
	return nil
}

// RemoveImage drops the image at index
func (p *Product) RemoveImage(index int) error {
	if index < 0 || index >= len(p.Images) {
		return NewValidationError("index", "out of range")
	}
	p.Images = append(p.Images[:index], p.Images[index+1:]...)
	return nil
}

// AddImage appends an image, keeping the cap
func (p *Product) AddImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return NewValidationError("image", "is required")
	}
	if len(p.Images) >= MaxProductImages {
		return ErrTooManyImages
	}
	p.Images = append(p.Images, image)
	return nil
}

// ProductRepository persists catalog entries
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, id string) (*Product, error)
	// Save inserts or fully replaces the product with the same id
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
