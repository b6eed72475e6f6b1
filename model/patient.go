package model

import "gorm.io/gorm"

// Patient represents a patient transported to and from the clinic
// @Description Patient information
type Patient struct {
	gorm.Model
	Name    string `json:"name" gorm:"column:name;not null" example:"Maria Silva"`
	Phone   string `json:"phone" gorm:"column:phone" example:"(11) 98765-4321"`
	Address string `json:"address" gorm:"column:address" example:"Rua das Flores, 123"`
	Active  bool   `json:"active" gorm:"column:active" example:"true"`
}

// UpdatePatientRequest carries the optional fields accepted by PATCH /patient/:id.
type UpdatePatientRequest struct {
	Name    string `json:"name,omitempty" example:"Maria Silva"`
	Phone   string `json:"phone,omitempty" example:"(11) 98765-4321"`
	Address string `json:"address,omitempty" example:"Rua das Flores, 123"`
	Active  *bool  `json:"active,omitempty" example:"true"`
}
