package domain

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is the skill level a course targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Course is an offering belonging to exactly one camp.
// Its tuition contributes to the owning camp's AverageCost.
type Course struct {
	ID           uuid.UUID  `json:"id"`
	CampID       uuid.UUID  `json:"camp" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required"`
	Duration     string     `json:"duration" validate:"required"`
	Tuition      *float64   `json:"tuition" validate:"required,gte=0"`
	Difficulty   Difficulty `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	AvailableJob bool       `json:"availableJob"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
