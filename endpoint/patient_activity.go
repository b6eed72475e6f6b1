package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
	"github.com/andresilva/clinic-transport/util"
)

// patientActivityFilter narrows the enrollment detail listing; zero values
// mean no filter.
type patientActivityFilter struct {
	PatientID  uint
	ActivityID uint
}

func fetchPatientActivityDetails(db *gorm.DB, filter patientActivityFilter) ([]model.PatientActivityDetail, error) {
	var details []model.PatientActivityDetail

	query := db.Table("patient_activities").
		Select("patient_activities.*, patients.name AS patient_name, "+
			"activities.name AS activity_name, activities.day_of_week, "+
			"activities.start_time, activities.end_time, "+
			"therapists.name AS therapist_name").
		Joins("JOIN patients ON patients.id = patient_activities.patient_id").
		Joins("JOIN activities ON activities.id = patient_activities.activity_id").
		Joins("LEFT JOIN therapists ON therapists.id = activities.therapist_id").
		Where("patient_activities.deleted_at IS NULL").
		Where("patients.deleted_at IS NULL").
		Where("activities.deleted_at IS NULL").
		Order("patients.name, activities.day_of_week, activities.start_time")
	if filter.PatientID != 0 {
		query = query.Where("patient_activities.patient_id = ?", filter.PatientID)
	}
	if filter.ActivityID != 0 {
		query = query.Where("patient_activities.activity_id = ?", filter.ActivityID)
	}

	if err := query.Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// ListPatientActivities godoc
// @Summary      List all enrollments
// @Description  Get patient activity enrollments joined with patient, activity, and therapist details
// @Tags         PatientActivity
// @Accept       json
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.PatientActivityDetail} "Enrollments retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-activity [get]
func ListPatientActivities(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	details, err := fetchPatientActivityDetails(db, patientActivityFilter{})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve enrollments",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Enrollments retrieved",
		Data: details,
	})
}

type createPatientActivityRequest struct {
	PatientID       uint  `json:"patient_id" example:"1"`
	ActivityID      uint  `json:"activity_id" example:"1"`
	TransportNeeded *bool `json:"transport_needed" example:"true"`
}

// CreatePatientActivity godoc
// @Summary      Enroll a patient in an activity
// @Description  Create an enrollment linking a patient to a recurring activity; transport defaults to needed
// @Tags         PatientActivity
// @Accept       json
// @Produce      json
// @Param        request body createPatientActivityRequest true "Enrollment information"
// @Success      201 {object} util.APIResponse{data=model.PatientActivity} "Enrollment created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate enrollment"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-activity [post]
func CreatePatientActivity(c *gin.Context) {
	enrollmentRequest := createPatientActivityRequest{}

	if err := c.ShouldBindJSON(&enrollmentRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if enrollmentRequest.PatientID == 0 || enrollmentRequest.ActivityID == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient ID and activity ID are required",
			Err: fmt.Errorf("invalid payload"),
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
	if err := db.First(&patient, enrollmentRequest.PatientID).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: err,
		})
		return
	}
	var activity model.Activity
	if err := db.First(&activity, enrollmentRequest.ActivityID).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Activity not found",
			Err: err,
		})
		return
	}

	var existing model.PatientActivity
	err := db.Where("patient_id = ? AND activity_id = ? AND active = ?",
		enrollmentRequest.PatientID, enrollmentRequest.ActivityID, true).
		First(&existing).Error
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient is already enrolled in this activity",
			Err: fmt.Errorf("duplicate enrollment"),
		})
		return
	} else if err != gorm.ErrRecordNotFound {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to check existing enrollment",
			Err: err,
		})
		return
	}

	transportNeeded := true
	if enrollmentRequest.TransportNeeded != nil {
		transportNeeded = *enrollmentRequest.TransportNeeded
	}

	enrollment := model.PatientActivity{
		PatientID:       enrollmentRequest.PatientID,
		ActivityID:      enrollmentRequest.ActivityID,
		TransportNeeded: transportNeeded,
		Active:          true,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create enrollment",
			Err: err,
		})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Enrollment created",
		Data: enrollment,
	})
}

func getPatientActivityByID(c *gin.Context, db *gorm.DB) (model.PatientActivity, error) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing enrollment ID",
			Err: fmt.Errorf("enrollment ID is required"),
		})
		return model.PatientActivity{}, fmt.Errorf("enrollment ID is required")
	}

	var enrollment model.PatientActivity
	if err := db.First(&enrollment, id).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Enrollment not found",
			Err: err,
		})
		return model.PatientActivity{}, err
	}

	return enrollment, nil
}

// GetPatientActivityInfo godoc
// @Summary      Get enrollment information
// @Description  Get a single enrollment by its ID
// @Tags         PatientActivity
// @Accept       json
// @Produce      json
// @Param        id path string true "Enrollment ID"
// @Success      200 {object} util.APIResponse{data=model.PatientActivity} "Enrollment retrieved"
// @Failure      404 {object} util.APIResponse "Enrollment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-activity/{id} [get]
func GetPatientActivityInfo(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	enrollment, err := getPatientActivityByID(c, db)
	if err != nil {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Enrollment retrieved",
		Data: enrollment,
	})
}

// UpdatePatientActivity godoc
// @Summary      Update an enrollment
// @Description  Update an existing enrollment's transport flag or activity link
// @Tags         PatientActivity
// @Accept       json
// @Produce      json
// @Param        id path string true "Enrollment ID"
// @Param        request body model.UpdatePatientActivityRequest true "Updated enrollment information"
// @Success      200 {object} util.APIResponse{data=model.PatientActivity} "Enrollment updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Enrollment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-activity/{id} [patch]
func UpdatePatientActivity(c *gin.Context) {
	enrollmentUpdate := model.UpdatePatientActivityRequest{}
	if err := c.ShouldBindJSON(&enrollmentUpdate); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
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

	existingEnrollment, err := getPatientActivityByID(c, db)
	if err != nil {
		return
	}

	if enrollmentUpdate.PatientID != 0 {
		existingEnrollment.PatientID = enrollmentUpdate.PatientID
	}
	if enrollmentUpdate.ActivityID != 0 {
		existingEnrollment.ActivityID = enrollmentUpdate.ActivityID
	}
	if enrollmentUpdate.TransportNeeded != nil {
		existingEnrollment.TransportNeeded = *enrollmentUpdate.TransportNeeded
	}
	if enrollmentUpdate.Active != nil {
		existingEnrollment.Active = *enrollmentUpdate.Active
	}

	if err := db.Save(&existingEnrollment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update enrollment",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Enrollment updated",
		Data: existingEnrollment,
	})
}

// DeletePatientActivity godoc
// @Summary      Cancel an enrollment
// @Description  Soft-delete an enrollment by clearing its active flag
// @Tags         PatientActivity
// @Accept       json
// @Produce      json
// @Param        id path string true "Enrollment ID"
// @Success      200 {object} util.APIResponse "Enrollment cancelled"
// @Failure      404 {object} util.APIResponse "Enrollment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient-activity/{id} [delete]
func DeletePatientActivity(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	enrollment, err := getPatientActivityByID(c, db)
	if err != nil {
		return
	}

	if err := db.Model(&enrollment).Update("active", false).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to cancel enrollment",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Enrollment cancelled",
	})
}
