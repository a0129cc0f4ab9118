package model

import (
	"time"
)

// Enrollment links one user to one course. At most one row exists per
// (user, course) pair; repeat enrolls are no-ops against the same row.
type Enrollment struct {
	UserID      string     `json:"user_id"`
	CourseID    string     `json:"course_id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// LessonProgress records one user's completion state for one lesson. At most
// one row exists per (user, lesson) pair; completed_at keeps the first
// completion timestamp and is never overwritten.
type LessonProgress struct {
	UserID      string     `json:"user_id"`
	LessonID    string     `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CourseProgress is the derived aggregate for a (user, course) pair. It is
// computed at read time, never stored.
type CourseProgress struct {
	CourseID         string `json:"course_id"`
	TotalLessons     int    `json:"total_lessons"`
	CompletedLessons int    `json:"completed_lessons"`
	Percentage       int    `json:"percentage"`
	Completed        bool   `json:"completed"`
}

type EnrollmentStatus struct {
	IsEnrolled bool `json:"is_enrolled"`
	Completed  bool `json:"completed"`
}

// CompleteLessonResult carries the updated progress row and, when the write
// flipped the owning enrollment to completed, the updated enrollment.
type CompleteLessonResult struct {
	LessonProgress *LessonProgress `json:"lesson_progress"`
	Enrollment     *Enrollment     `json:"enrollment,omitempty"`
}
