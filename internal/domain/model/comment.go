package model

import (
	"time"
)

type Comment struct {
	ID             string    `json:"id"`
	LessonID       string    `json:"lesson_id"`
	UserID         string    `json:"user_id"`
	ParentID       *string   `json:"parent_id,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	AuthorUsername *string   `json:"author_username,omitempty"` // For display
	Replies        []Comment `json:"replies,omitempty"`
}
