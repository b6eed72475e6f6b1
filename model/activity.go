package model

import "gorm.io/gorm"

// Activity represents a recurring weekly therapy session owned by one
// therapist, on one weekday, with a fixed start and end time.
// Activities are never hard-deleted; they are retired via the Active flag.
// @Description Recurring weekly activity slot
type Activity struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;not null" example:"Hidroterapia"`
	TherapistID uint   `json:"therapist_id" gorm:"column:therapist_id;not null" example:"1"`
	DayOfWeek   string `json:"day_of_week" gorm:"column:day_of_week;not null" example:"Mon"`
	StartTime   string `json:"start_time" gorm:"column:start_time;not null" example:"09:30"`
	EndTime     string `json:"end_time" gorm:"column:end_time;not null" example:"10:30"`
	Notes       string `json:"notes" gorm:"column:notes" example:"Sala 2"`
	Active      bool   `json:"active" gorm:"column:active" example:"true"`
}

// ActivityWithTherapist is the list shape for GET /activity: the activity row
// joined with the owning therapist's name and specialty.
type ActivityWithTherapist struct {
	Activity
	TherapistName      string `json:"therapist_name" gorm:"column:therapist_name" example:"Dr. Carlos Oliveira"`
	TherapistSpecialty string `json:"therapist_specialty" gorm:"column:therapist_specialty" example:"Fisioterapia"`
}

// UpdateActivityRequest carries the optional fields accepted by PATCH /activity/:id.
type UpdateActivityRequest struct {
	Name        string `json:"name,omitempty" example:"Hidroterapia"`
	TherapistID uint   `json:"therapist_id,omitempty" example:"1"`
	DayOfWeek   string `json:"day_of_week,omitempty" example:"Mon"`
	StartTime   string `json:"start_time,omitempty" example:"09:30"`
	EndTime     string `json:"end_time,omitempty" example:"10:30"`
	Notes       string `json:"notes,omitempty" example:"Sala 2"`
	Active      *bool  `json:"active,omitempty" example:"true"`
}
