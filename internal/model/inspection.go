package model

import "time"

// Inspection schedule statuses.
const (
	ScheduleScheduled = "scheduled"
	ScheduleCompleted = "completed"
	ScheduleCancelled = "cancelled"
)

// InspectionType is reference data naming a category of site inspection.
type InspectionType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Inspector is a user qualified to conduct inspections of one type within an
// assigned district.
type Inspector struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	WorkID           string `json:"work_id"`
	InspectionType   string `json:"inspection_type"`
	AssignedDistrict string `json:"assigned_district"`
	Available        bool   `json:"available"`
}

// InspectorLoad pairs an inspector with the number of non-cancelled
// inspections already scheduled for a given date.
type InspectorLoad struct {
	Inspector
	ScheduledCount int `json:"scheduled_count"`
}

// InspectionSchedule is one planned or completed site visit.
type InspectionSchedule struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	InspectorID   string    `json:"inspector_id"`
	StageID       string    `json:"stage_id"`
	ScheduledDate string    `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined context for listings.
	InspectorName string `json:"inspector_name,omitempty"`
	StageName     string `json:"stage_name,omitempty"`
	StandNumber   string `json:"stand_number,omitempty"`
}
