package model

import "gorm.io/gorm"

// PatientAbsence records that a patient will not attend on one specific
// calendar date. It is not recurring: exactly one date per row, and the row is
// deleted outright to undo the absence.
// @Description Dated patient absence record
type PatientAbsence struct {
	gorm.Model
	PatientID uint   `json:"patient_id" gorm:"column:patient_id;not null;index" example:"1"`
	Date      string `json:"date" gorm:"column:date;not null;index" example:"2025-03-10"`
	Reason    string `json:"reason" gorm:"column:reason" example:"Consulta médica"`
}

// TherapistAbsence is the therapist-side counterpart of PatientAbsence.
// @Description Dated therapist absence record
type TherapistAbsence struct {
	gorm.Model
	TherapistID uint   `json:"therapist_id" gorm:"column:therapist_id;not null;index" example:"1"`
	Date        string `json:"date" gorm:"column:date;not null;index" example:"2025-03-10"`
	Reason      string `json:"reason" gorm:"column:reason" example:"Congresso"`
}
