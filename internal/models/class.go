package models

import "time"

// Class is an enrolled cohort of students.
type Class struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Grade        int       `db:"grade" json:"grade"`
	Stream       string    `db:"stream" json:"stream"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Group is a named subdivision of a class used for lab rotations.
type Group struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Name      string    `db:"name" json:"name"`
	MaxSize   int       `db:"max_size" json:"max_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter describes query params for listing classes.
type ClassFilter struct {
	Grade        *int
	AcademicYear string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
