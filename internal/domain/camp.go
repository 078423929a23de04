// Package domain contains the core data types for the bootcamp directory.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler, geo).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCampImage is the image stored for a camp until a photo is uploaded.
const DefaultCampImage = "no-photo.jpg"

// Camp is a directory listing for a coding bootcamp.
// A camp is the aggregate root; courses belong to a camp.
//
// Slug, Location and AverageCost are derived. Slug and Location are set by
// the camp save hook; AverageCost is written only by the course recompute hook.
type Camp struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user" validate:"required"`
	Name          string     `json:"name" validate:"required"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description" validate:"required,max=1000"`
	Website       string     `json:"website,omitempty" validate:"omitempty,http_url"`
	Phone         string     `json:"phone,omitempty" validate:"max=20"`
	Email         string     `json:"email" validate:"required,email"`
	Location      *Location  `json:"location,omitempty"`
	Careers       []Career   `json:"careers" validate:"required,min=1,unique,dive,career"`
	AverageRating *float64   `json:"averageRating,omitempty" validate:"omitempty,min=1,max=5"`
	AverageCost   *int       `json:"averageCost,omitempty"`
	Image         string     `json:"image"`
	JobAssistance bool       `json:"jobAssistance"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	Courses       []Course   `json:"courses,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CampPatch carries the client-writable fields of a camp update.
// Nil fields are left unchanged. Address is write-only: when set it is
// resolved into Location and then discarded.
type CampPatch struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *string
	Careers       []Career
	AverageRating *float64
	JobAssistance *bool
	StartDate     *time.Time
}

// Apply copies every non-nil patch field onto c.
func (p CampPatch) Apply(c *Camp) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Website != nil {
		c.Website = *p.Website
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Careers != nil {
		c.Careers = p.Careers
	}
	if p.AverageRating != nil {
		c.AverageRating = p.AverageRating
	}
	if p.JobAssistance != nil {
		c.JobAssistance = *p.JobAssistance
	}
	if p.StartDate != nil {
		c.StartDate = p.StartDate
	}
}

// CampFilter narrows a camp listing. Zero values mean "no filter".
type CampFilter struct {
	// Career keeps only camps offering this career track.
	Career *Career
	// Near and RadiusKm keep only camps within RadiusKm of Near.
	// Remote camps never match a radius filter.
	Near     *GeoPoint
	RadiusKm float64
}
