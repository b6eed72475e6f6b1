package model

import "gorm.io/gorm"

// PatientActivity enrolls a patient into a recurring weekly activity.
// Enrollments are soft-deleted via the Active flag so past transport lists
// stay reconstructible.
// @Description Patient enrollment in a recurring activity
type PatientActivity struct {
	gorm.Model
	PatientID  uint `json:"patient_id" gorm:"column:patient_id;not null" example:"1"`
	ActivityID uint `json:"activity_id" gorm:"column:activity_id;not null" example:"1"`
	// No column defaults on the flags: gorm would treat false as unset and
	// write the default instead, so the create handlers set them explicitly.
	TransportNeeded bool `json:"transport_needed" gorm:"column:transport_needed" example:"true"`
	Active          bool `json:"active" gorm:"column:active" example:"true"`
}

// PatientActivityDetail is the list shape for GET /patient-activity: the
// enrollment joined with patient, activity, and therapist display fields.
type PatientActivityDetail struct {
	PatientActivity
	PatientName   string `json:"patient_name" gorm:"column:patient_name" example:"Maria Silva"`
	ActivityName  string `json:"activity_name" gorm:"column:activity_name" example:"Hidroterapia"`
	DayOfWeek     string `json:"day_of_week" gorm:"column:day_of_week" example:"Mon"`
	StartTime     string `json:"start_time" gorm:"column:start_time" example:"09:30"`
	EndTime       string `json:"end_time" gorm:"column:end_time" example:"10:30"`
	TherapistName string `json:"therapist_name" gorm:"column:therapist_name" example:"Dr. Carlos Oliveira"`
}

// UpdatePatientActivityRequest carries the optional fields accepted by
// PATCH /patient-activity/:id.
type UpdatePatientActivityRequest struct {
	PatientID       uint  `json:"patient_id,omitempty" example:"1"`
	ActivityID      uint  `json:"activity_id,omitempty" example:"1"`
	TransportNeeded *bool `json:"transport_needed,omitempty" example:"true"`
	Active          *bool `json:"active,omitempty" example:"true"`
}
