package model

import (
	"math"
	"strings"
	"time"
)

// Video is a single record in a category's video library.
type Video struct {
	ID           string    `json:"id"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"` // empty = render placeholder
	Length       string    `json:"length"`       // free text, "MM:SS" or "HH:MM:SS"
	Price        float64   `json:"price"`
	Featured     bool      `json:"featured"`
	Visible      bool      `json:"visible"` // false = soft-hidden, still listed
	CreatedAt    time.Time `json:"createdAt"`
}

// VideoInput holds the fields supplied when adding a video.
type VideoInput struct {
	Title        string
	ThumbnailURL string
	Length       string
	Price        float64
	Featured     bool
	Visible      bool
}

// VideoPatch holds optional field updates for an existing video.
// Nil fields are left unchanged.
type VideoPatch struct {
	Title        *string
	ThumbnailURL *string
	Length       *string
	Price        *float64
	Featured     *bool
	Visible      *bool
}

// NewVideo builds a Video in the given category from input. The caller assigns the ID.
func NewVideo(category string, in VideoInput) Video {
	return Video{
		Category:     category,
		Title:        in.Title,
		ThumbnailURL: in.ThumbnailURL,
		Length:       in.Length,
		Price:        in.Price,
		Featured:     in.Featured,
		Visible:      in.Visible,
		CreatedAt:    time.Now(),
	}
}

// Validate checks the record constraints: non-empty title and a finite, non-negative price.
func (v Video) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if math.IsNaN(v.Price) || math.IsInf(v.Price, 0) {
		return &ValidationError{Field: "price", Reason: "must be a finite number"}
	}
	if v.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// Apply returns a copy of v with the patch fields merged in. ID and Category never change.
func (v Video) Apply(p VideoPatch) Video {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Length != nil {
		v.Length = *p.Length
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.Featured != nil {
		v.Featured = *p.Featured
	}
	if p.Visible != nil {
		v.Visible = *p.Visible
	}
	return v
}

// IsEmpty reports whether the patch changes nothing.
func (p VideoPatch) IsEmpty() bool {
	return p.Title == nil && p.ThumbnailURL == nil && p.Length == nil &&
		p.Price == nil && p.Featured == nil && p.Visible == nil
}
