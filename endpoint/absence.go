package endpoint

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
	"github.com/andresilva/clinic-transport/util"
)

// ListPatientAbsences godoc
// @Summary      List patient absences
// @Description  Get patient absence records, optionally filtered by exact date or patient
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        date query string false "Exact date filter (YYYY-MM-DD)"
// @Param        patient_id query int false "Patient ID filter"
// @Success      200 {object} util.APIResponse{data=[]model.PatientAbsence} "Absences retrieved"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-absence [get]
func ListPatientAbsences(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if err := validateDate(date); err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid date filter",
				Err: err,
			})
			return
		}
	}
	patientID, _ := strconv.Atoi(c.Query("patient_id"))

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	query := db.Model(&model.PatientAbsence{}).Order("date DESC")
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if patientID > 0 {
		query = query.Where("patient_id = ?", patientID)
	}

	var absences []model.PatientAbsence
	if err := query.Find(&absences).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve patient absences",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient absences retrieved",
		Data: absences,
	})
}

type createPatientAbsenceRequest struct {
	PatientID uint   `json:"patient_id" example:"1"`
	Date      string `json:"date" example:"2025-03-10"`
	Reason    string `json:"reason" example:"Consulta médica"`
}

// CreatePatientAbsence godoc
// @Summary      Record a patient absence
// @Description  Assert that a patient will not attend on one specific date
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        request body createPatientAbsenceRequest true "Absence information"
// @Success      201 {object} util.APIResponse{data=model.PatientAbsence} "Absence recorded"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-absence [post]
func CreatePatientAbsence(c *gin.Context) {
	absenceRequest := createPatientAbsenceRequest{}

	if err := c.ShouldBindJSON(&absenceRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if absenceRequest.PatientID == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient ID is required",
			Err: fmt.Errorf("invalid payload"),
		})
		return
	}
	if err := validateDate(absenceRequest.Date); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid absence date",
			Err: err,
		})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	var patient model.Patient
	if err := db.First(&patient, absenceRequest.PatientID).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: err,
		})
		return
	}

	absence := model.PatientAbsence{
		PatientID: absenceRequest.PatientID,
		Date:      absenceRequest.Date,
		Reason:    absenceRequest.Reason,
	}
	if err := db.Create(&absence).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to record patient absence",
			Err: err,
		})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Patient absence recorded",
		Data: absence,
	})
}

// DeletePatientAbsence godoc
// @Summary      Remove a patient absence
// @Description  Hard-delete an absence record to undo it
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        id path string true "Absence ID"
// @Success      200 {object} util.APIResponse "Absence removed"
// @Failure      404 {object} util.APIResponse "Absence not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-absence/{id} [delete]
func DeletePatientAbsence(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	id := c.Param("id")
	var absence model.PatientAbsence
	if err := db.First(&absence, id).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Patient absence not found",
			Err: err,
		})
		return
	}

	// Unscoped: absences are undone by removing the row, not by soft delete.
	if err := db.Unscoped().Delete(&absence).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to remove patient absence",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patient absence removed",
	})
}

// ListTherapistAbsences godoc
// @Summary      List therapist absences
// @Description  Get therapist absence records, optionally filtered by exact date or therapist
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        date query string false "Exact date filter (YYYY-MM-DD)"
// @Param        therapist_id query int false "Therapist ID filter"
// @Success      200 {object} util.APIResponse{data=[]model.TherapistAbsence} "Absences retrieved"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist-absence [get]
func ListTherapistAbsences(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if err := validateDate(date); err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid date filter",
				Err: err,
			})
			return
		}
	}
	therapistID, _ := strconv.Atoi(c.Query("therapist_id"))

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	query := db.Model(&model.TherapistAbsence{}).Order("date DESC")
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if therapistID > 0 {
		query = query.Where("therapist_id = ?", therapistID)
	}

	var absences []model.TherapistAbsence
	if err := query.Find(&absences).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve therapist absences",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Therapist absences retrieved",
		Data: absences,
	})
}

type createTherapistAbsenceRequest struct {
	TherapistID uint   `json:"therapist_id" example:"1"`
	Date        string `json:"date" example:"2025-03-10"`
	Reason      string `json:"reason" example:"Congresso"`
}

// CreateTherapistAbsence godoc
// @Summary      Record a therapist absence
// @Description  Assert that a therapist will not attend on one specific date
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        request body createTherapistAbsenceRequest true "Absence information"
// @Success      201 {object} util.APIResponse{data=model.TherapistAbsence} "Absence recorded"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist-absence [post]
func CreateTherapistAbsence(c *gin.Context) {
	absenceRequest := createTherapistAbsenceRequest{}

	if err := c.ShouldBindJSON(&absenceRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if absenceRequest.TherapistID == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Therapist ID is required",
			Err: fmt.Errorf("invalid payload"),
		})
		return
	}
	if err := validateDate(absenceRequest.Date); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid absence date",
			Err: err,
		})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	var therapist model.Therapist
	if err := db.First(&therapist, absenceRequest.TherapistID).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Therapist not found",
			Err: err,
		})
		return
	}

	absence := model.TherapistAbsence{
		TherapistID: absenceRequest.TherapistID,
		Date:        absenceRequest.Date,
		Reason:      absenceRequest.Reason,
	}
	if err := db.Create(&absence).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to record therapist absence",
			Err: err,
		})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Therapist absence recorded",
		Data: absence,
	})
}

// DeleteTherapistAbsence godoc
// @Summary      Remove a therapist absence
// @Description  Hard-delete an absence record to undo it
// @Tags         Absence
// @Accept       json
// @Produce      json
// @Param        id path string true "Absence ID"
// @Success      200 {object} util.APIResponse "Absence removed"
// @Failure      404 {object} util.APIResponse "Absence not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist-absence/{id} [delete]
func DeleteTherapistAbsence(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	id := c.Param("id")
	var absence model.TherapistAbsence
	if err := db.First(&absence, id).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Therapist absence not found",
			Err: err,
		})
		return
	}

	if err := db.Unscoped().Delete(&absence).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to remove therapist absence",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Therapist absence removed",
	})
}
