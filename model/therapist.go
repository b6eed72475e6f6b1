package model

import "gorm.io/gorm"

// Therapist represents a therapist entity
// @Description Therapist information
type Therapist struct {
	gorm.Model
	Name      string `json:"name" gorm:"column:name;not null" example:"Dr. Carlos Oliveira"`
	Specialty string `json:"specialty" gorm:"column:specialty;not null" example:"Fisioterapia"`
	Email     string `json:"email" gorm:"column:email" example:"carlos.oliveira@example.com"`
	Phone     string `json:"phone" gorm:"column:phone" example:"(11) 97777-8888"`
	// WorkDays is a comma-separated list of weekday codes, e.g. "Mon,Wed,Fri".
	WorkDays string `json:"work_days" gorm:"column:work_days" example:"Mon,Wed,Fri"`
	Active   bool   `json:"active" gorm:"column:active" example:"true"`
}

// UpdateTherapistRequest carries the optional fields accepted by PATCH /therapist/:id.
type UpdateTherapistRequest struct {
	Name      string `json:"name,omitempty" example:"Dr. Carlos Oliveira"`
	Specialty string `json:"specialty,omitempty" example:"Fisioterapia"`
	Email     string `json:"email,omitempty" example:"carlos.oliveira@example.com"`
	Phone     string `json:"phone,omitempty" example:"(11) 97777-8888"`
	WorkDays  string `json:"work_days,omitempty" example:"Mon,Wed,Fri"`
	Active    *bool  `json:"active,omitempty" example:"true"`
}
