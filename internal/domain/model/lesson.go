package model

import (
	"time"
)

type Lesson struct {
	ID          string           `json:"id"`
	CourseID    string           `json:"course_id"`
	OrderNumber int              `json:"order_number"`
	Title       string           `json:"title"`
	Content     string           `json:"content,omitempty"`
	VideoURL    *string          `json:"video_url,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Resources   []LessonResource `json:"resources,omitempty"`
}

// LessonSummary is the public listing shape: metadata only, no content.
type LessonSummary struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	OrderNumber int    `json:"order_number"`
	Title       string `json:"title"`
}

type LessonResource struct {
	ID        string    `json:"id"`
	LessonID  string    `json:"lesson_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// LessonVersion is a snapshot of lesson content taken before each update.
type LessonVersion struct {
	ID            string    `json:"id"`
	LessonID      string    `json:"lesson_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	VideoURL      *string   `json:"video_url,omitempty"`
	EditedByID    *string   `json:"edited_by_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
