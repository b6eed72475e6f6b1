package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
	"github.com/andresilva/clinic-transport/transport"
	"github.com/andresilva/clinic-transport/util"
)

func fetchActivitiesWithTherapist(db *gorm.DB, dayOfWeek string) ([]model.ActivityWithTherapist, error) {
	var activities []model.ActivityWithTherapist

	query := db.Table("activities").
		Select("activities.*, therapists.name AS therapist_name, therapists.specialty AS therapist_specialty").
		Joins("LEFT JOIN therapists ON therapists.id = activities.therapist_id").
		Where("activities.deleted_at IS NULL").
		Order("activities.day_of_week, activities.start_time")
	if dayOfWeek != "" {
		query = query.Where("activities.day_of_week = ?", dayOfWeek)
	}

	if err := query.Scan(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ListActivities godoc
// @Summary      List all activities
// @Description  Get recurring activities joined with the owning therapist, optionally filtered by weekday
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        day_of_week query string false "Weekday code filter (Mon..Fri)"
// @Success      200 {object} util.APIResponse{data=[]model.ActivityWithTherapist} "Activities retrieved"
// @Failure      400 {object} util.APIResponse "Invalid weekday code"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity [get]
func ListActivities(c *gin.Context) {
	dayOfWeek := c.Query("day_of_week")
	if dayOfWeek != "" && !util.Contains(dayOfWeek, transport.WeekdayCodes[:]) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid day_of_week, expected one of Mon..Fri",
			Err: fmt.Errorf("unknown weekday code %q", dayOfWeek),
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

	activities, err := fetchActivitiesWithTherapist(db, dayOfWeek)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve activities",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Activities retrieved",
		Data: activities,
	})
}

type createActivityRequest struct {
	Name        string `json:"name" example:"Hidroterapia"`
	TherapistID uint   `json:"therapist_id" example:"1"`
	DayOfWeek   string `json:"day_of_week" example:"Mon"`
	StartTime   string `json:"start_time" example:"09:30"`
	EndTime     string `json:"end_time" example:"10:30"`
	Notes       string `json:"notes" example:"Sala 2"`
}

// CreateActivity godoc
// @Summary      Create a new activity
// @Description  Register a recurring weekly activity slot owned by a therapist
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        request body createActivityRequest true "Activity information"
// @Success      201 {object} util.APIResponse{data=model.Activity} "Activity created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity [post]
func CreateActivity(c *gin.Context) {
	activityRequest := createActivityRequest{}

	if err := c.ShouldBindJSON(&activityRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	activityRequest.Name = util.NormalizeName(activityRequest.Name)
	if activityRequest.Name == "" || activityRequest.TherapistID == 0 ||
		activityRequest.StartTime == "" || activityRequest.EndTime == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Activity name, therapist, start time, and end time are required",
			Err: fmt.Errorf("invalid payload"),
		})
		return
	}
	if !util.Contains(activityRequest.DayOfWeek, transport.WeekdayCodes[:]) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid day_of_week, expected one of Mon..Fri",
			Err: fmt.Errorf("unknown weekday code %q", activityRequest.DayOfWeek),
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
	if err := db.First(&therapist, activityRequest.TherapistID).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Therapist not found",
			Err: err,
		})
		return
	}

	activity := model.Activity{
		Name:        activityRequest.Name,
		TherapistID: activityRequest.TherapistID,
		DayOfWeek:   activityRequest.DayOfWeek,
		StartTime:   activityRequest.StartTime,
		EndTime:     activityRequest.EndTime,
		Notes:       activityRequest.Notes,
		Active:      true,
	}
	if err := db.Create(&activity).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create activity",
			Err: err,
		})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Activity created",
		Data: activity,
	})
}

func getActivityByID(c *gin.Context, db *gorm.DB) (model.Activity, error) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing activity ID",
			Err: fmt.Errorf("activity ID is required"),
		})
		return model.Activity{}, fmt.Errorf("activity ID is required")
	}

	var activity model.Activity
	if err := db.First(&activity, id).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Activity not found",
			Err: err,
		})
		return model.Activity{}, err
	}

	return activity, nil
}

// GetActivityInfo godoc
// @Summary      Get activity information
// @Description  Get detailed information about a specific activity
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} util.APIResponse{data=model.Activity} "Activity retrieved"
// @Failure      404 {object} util.APIResponse "Activity not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity/{id} [get]
func GetActivityInfo(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	activity, err := getActivityByID(c, db)
	if err != nil {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Activity retrieved",
		Data: activity,
	})
}

// UpdateActivity godoc
// @Summary      Update activity information
// @Description  Update an existing recurring activity slot
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Param        request body model.UpdateActivityRequest true "Updated activity information"
// @Success      200 {object} util.APIResponse{data=model.Activity} "Activity updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Activity not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity/{id} [patch]
func UpdateActivity(c *gin.Context) {
	activityUpdate := model.UpdateActivityRequest{}
	if err := c.ShouldBindJSON(&activityUpdate); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if activityUpdate.DayOfWeek != "" && !util.Contains(activityUpdate.DayOfWeek, transport.WeekdayCodes[:]) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid day_of_week, expected one of Mon..Fri",
			Err: fmt.Errorf("unknown weekday code %q", activityUpdate.DayOfWeek),
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

	existingActivity, err := getActivityByID(c, db)
	if err != nil {
		return
	}

	if activityUpdate.Name != "" {
		existingActivity.Name = util.NormalizeName(activityUpdate.Name)
	}
	if activityUpdate.TherapistID != 0 {
		var therapist model.Therapist
		if err := db.First(&therapist, activityUpdate.TherapistID).Error; err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Therapist not found",
				Err: err,
			})
			return
		}
		existingActivity.TherapistID = activityUpdate.TherapistID
	}
	if activityUpdate.DayOfWeek != "" {
		existingActivity.DayOfWeek = activityUpdate.DayOfWeek
	}
	if activityUpdate.StartTime != "" {
		existingActivity.StartTime = activityUpdate.StartTime
	}
	if activityUpdate.EndTime != "" {
		existingActivity.EndTime = activityUpdate.EndTime
	}
	if activityUpdate.Notes != "" {
		existingActivity.Notes = activityUpdate.Notes
	}
	if activityUpdate.Active != nil {
		existingActivity.Active = *activityUpdate.Active
	}

	if err := db.Save(&existingActivity).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update activity",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Activity updated",
		Data: existingActivity,
	})
}

// DeleteActivity godoc
// @Summary      Retire an activity
// @Description  Soft-delete an activity by clearing its active flag; the row is never removed
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} util.APIResponse "Activity retired"
// @Failure      404 {object} util.APIResponse "Activity not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity/{id} [delete]
func DeleteActivity(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	activity, err := getActivityByID(c, db)
	if err != nil {
		return
	}

	if err := db.Model(&activity).Update("active", false).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retire activity",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Activity retired",
	})
}

// ListActivityPatients godoc
// @Summary      List patients enrolled in an activity
// @Description  Get the patients with an active enrollment in the given activity
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients retrieved"
// @Failure      404 {object} util.APIResponse "Activity not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity/{id}/patients [get]
func ListActivityPatients(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	activity, err := getActivityByID(c, db)
	if err != nil {
		return
	}

	var patients []model.Patient
	err = db.Table("patients").
		Select("patients.*").
		Joins("JOIN patient_activities ON patient_activities.patient_id = patients.id").
		Where("patient_activities.activity_id = ? AND patient_activities.active = ?", activity.ID, true).
		Where("patient_activities.deleted_at IS NULL").
		Where("patients.deleted_at IS NULL").
		Order("patients.name ASC").
		Scan(&patients).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve activity patients",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Activity patients retrieved",
		Data: patients,
	})
}
