package models

import "time"

// GradeScale maps a score range onto a letter grade and grade point.
type GradeScale struct {
	ID         string    `db:"id" json:"id"`
	GradeLabel string    `db:"grade_label" json:"grade_label"`
	MinScore   float64   `db:"min_score" json:"min_score"`
	MaxScore   float64   `db:"max_score" json:"max_score"`
	GradePoint float64   `db:"grade_point" json:"grade_point"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
