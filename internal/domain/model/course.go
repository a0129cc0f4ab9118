package model

import (
	"time"
)

type CourseDifficulty string

const (
	DifficultyBeginner     CourseDifficulty = "beginner"
	DifficultyIntermediate CourseDifficulty = "intermediate"
	DifficultyAdvanced     CourseDifficulty = "advanced"
)

func (d CourseDifficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Course struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Description       string           `json:"description"`
	Difficulty        CourseDifficulty `json:"difficulty"`
	DurationHours     int              `json:"duration_hours"`
	CreatedByID       *string          `json:"created_by_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	LessonCount       int              `json:"lesson_count,omitempty"`
	CreatedByUsername *string          `json:"created_by_username,omitempty"` // For display
}
