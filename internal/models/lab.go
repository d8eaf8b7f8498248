package models

import "time"

// Lab represents a physical laboratory or room.
type Lab struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Description string    `db:"description" json:"description"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ComputerStatus enumerates working states for lab computers.
type ComputerStatus string

const (
	ComputerStatusFunctional  ComputerStatus = "FUNCTIONAL"
	ComputerStatusMaintenance ComputerStatus = "MAINTENANCE"
	ComputerStatusRetired     ComputerStatus = "RETIRED"
)

// Computer is one inventoried workstation inside a lab.
type Computer struct {
	ID             string         `db:"id" json:"id"`
	LabID          string         `db:"lab_id" json:"lab_id"`
	ComputerName   string         `db:"computer_name" json:"computer_name"`
	ComputerNumber int            `db:"computer_number" json:"computer_number"`
	Status         ComputerStatus `db:"status" json:"status"`
	Specifications string         `db:"specifications" json:"specifications"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// LabFilter describes query params for listing labs.
type LabFilter struct {
	Available *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
