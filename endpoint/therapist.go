package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
	"github.com/andresilva/clinic-transport/transport"
	"github.com/andresilva/clinic-transport/util"
)

// validateWorkDays checks a comma-separated work-days string like
// "Mon,Wed,Fri" against the weekday code table. An empty string is allowed.
func validateWorkDays(workDays string) error {
	if workDays == "" {
		return nil
	}
	for _, day := range strings.Split(workDays, ",") {
		day = strings.TrimSpace(day)
		if !util.Contains(day, transport.WeekdayCodes[:]) {
			return fmt.Errorf("invalid work day %q", day)
		}
	}
	return nil
}

// ListTherapists godoc
// @Summary      List all therapists
// @Description  Get a paginated list of therapists
// @Tags         Therapist
// @Accept       json
// @Produce      json
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Param        keyword query string false "Search keyword for therapist name or specialty"
// @Success      200 {object} util.APIResponse{data=object} "Therapists retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist [get]
func ListTherapists(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	keyword := c.Query("keyword")

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	var therapists []model.Therapist
	var totalTherapists int64

	query := db.Model(&model.Therapist{}).Order("therapists.name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR specialty LIKE ?", kw, kw)
	}

	if err := query.Find(&therapists).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve therapists",
			Err: err,
		})
		return
	}

	db.Model(&model.Therapist{}).Count(&totalTherapists)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Therapists retrieved",
		Data: map[string]interface{}{"total": totalTherapists, "total_fetched": len(therapists), "therapists": therapists},
	})
}

type createTherapistRequest struct {
	Name      string `json:"name" example:"Dr. Carlos Oliveira"`
	Specialty string `json:"specialty" example:"Fisioterapia"`
	Email     string `json:"email" example:"carlos.oliveira@example.com"`
	Phone     string `json:"phone" example:"(11) 97777-8888"`
	WorkDays  string `json:"work_days" example:"Mon,Wed,Fri"`
}

// CreateTherapist godoc
// @Summary      Create a new therapist
// @Description  Register a new therapist
// @Tags         Therapist
// @Accept       json
// @Produce      json
// @Param        request body createTherapistRequest true "Therapist information"
// @Success      201 {object} util.APIResponse{data=model.Therapist} "Therapist created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist [post]
func CreateTherapist(c *gin.Context) {
	therapistRequest := createTherapistRequest{}

	if err := c.ShouldBindJSON(&therapistRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	therapistRequest.Name = util.NormalizeName(therapistRequest.Name)
	if therapistRequest.Name == "" || therapistRequest.Specialty == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Therapist name and specialty are required",
			Err: fmt.Errorf("invalid payload"),
		})
		return
	}
	if err := validateWorkDays(therapistRequest.WorkDays); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid work days",
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

	therapist := model.Therapist{
		Name:      therapistRequest.Name,
		Specialty: therapistRequest.Specialty,
		Email:     therapistRequest.Email,
		Phone:     therapistRequest.Phone,
		WorkDays:  therapistRequest.WorkDays,
		Active:    true,
	}
	if err := db.Create(&therapist).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create therapist",
			Err: err,
		})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Therapist created",
		Data: therapist,
	})
}

func getTherapistByID(c *gin.Context, db *gorm.DB) (model.Therapist, error) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing therapist ID",
			Err: fmt.Errorf("therapist ID is required"),
		})
		return model.Therapist{}, fmt.Errorf("therapist ID is required")
	}

	var therapist model.Therapist
	if err := db.First(&therapist, id).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Therapist not found",
			Err: err,
		})
		return model.Therapist{}, err
	}

	return therapist, nil
}

// GetTherapistInfo godoc
// @Summary      Get therapist information
// @Description  Get detailed information about a specific therapist
// @Tags         Therapist
// @Accept       json
// @Produce      json
// @Param        id path string true "Therapist ID"
// @Success      200 {object} util.APIResponse{data=model.Therapist} "Therapist retrieved"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist/{id} [get]
func GetTherapistInfo(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	therapist, err := getTherapistByID(c, db)
	if err != nil {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Therapist retrieved",
		Data: therapist,
	})
}

// UpdateTherapist godoc
// @Summary      Update therapist information
// @Description  Update an existing therapist's information
// @Tags         Therapist
// @Accept       json
// @Produce      json
// @Param        id path string true "Therapist ID"
// @Param        request body model.UpdateTherapistRequest true "Updated therapist information"
// @Success      200 {object} util.APIResponse{data=model.Therapist} "Therapist updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist/{id} [patch]
func UpdateTherapist(c *gin.Context) {
	therapistUpdate := model.UpdateTherapistRequest{}
	if err := c.ShouldBindJSON(&therapistUpdate); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if err := validateWorkDays(therapistUpdate.WorkDays); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid work days",
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

	existingTherapist, err := getTherapistByID(c, db)
	if err != nil {
		return
	}

	if therapistUpdate.Name != "" {
		existingTherapist.Name = util.NormalizeName(therapistUpdate.Name)
	}
	if therapistUpdate.Specialty != "" {
		existingTherapist.Specialty = therapistUpdate.Specialty
	}
	if therapistUpdate.Email != "" {
		existingTherapist.Email = therapistUpdate.Email
	}
	if therapistUpdate.Phone != "" {
		existingTherapist.Phone = therapistUpdate.Phone
	}
	if therapistUpdate.WorkDays != "" {
		existingTherapist.WorkDays = therapistUpdate.WorkDays
	}
	if therapistUpdate.Active != nil {
		existingTherapist.Active = *therapistUpdate.Active
	}

	if err := db.Save(&existingTherapist).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update therapist",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Therapist updated",
		Data: existingTherapist,
	})
}

// DeleteTherapist godoc
// @Summary      Deactivate a therapist
// @Description  Mark a therapist inactive
// @Tags         Therapist
// @Accept       json
// @Produce      json
// @Param        id path string true "Therapist ID"
// @Success      200 {object} util.APIResponse "Therapist deactivated"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapist/{id} [delete]
func DeleteTherapist(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	therapist, err := getTherapistByID(c, db)
	if err != nil {
		return
	}

	if err := db.Model(&therapist).Update("active", false).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to deactivate therapist",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Therapist deactivated",
	})
}
