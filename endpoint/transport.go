package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/transport"
	"github.com/andresilva/clinic-transport/util"
)

// GetTransportList godoc
// @Summary      Get the transport list for a date
// @Description  Resolve which patients need transport on the given date; weekends resolve to an empty list
// @Tags         Transport
// @Accept       json
// @Produce      json
// @Param        date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} util.APIResponse{data=[]transport.TransportListItem} "Transport list resolved"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /transport [get]
func GetTransportList(c *gin.Context) {
	date := c.DefaultQuery("date", today())

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	items, err := transport.New(db).ResolveTransportList(date)
	if err != nil {
		if errors.Is(err, transport.ErrInvalidDate) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid date parameter",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to resolve transport list",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Transport list resolved",
		Data: map[string]interface{}{"date": date, "items": items},
	})
}

// GetWeeklyTransportSchedule godoc
// @Summary      Get the weekly transport schedule
// @Description  Resolve the Monday-to-Friday transport plan for the week containing start_date
// @Tags         Transport
// @Accept       json
// @Produce      json
// @Param        start_date query string false "Any date inside the wanted week (YYYY-MM-DD), defaults to today"
// @Success      200 {object} util.APIResponse{data=transport.WeeklySchedule} "Weekly schedule resolved"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /transport/weekly [get]
func GetWeeklyTransportSchedule(c *gin.Context) {
	// The resolver normalizes any date to its week's Monday, so today works
	// as a default even on weekends.
	startDate := c.DefaultQuery("start_date", today())

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	schedule, err := transport.New(db).ResolveWeeklySchedule(startDate)
	if err != nil {
		if errors.Is(err, transport.ErrInvalidDate) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid start_date parameter",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to resolve weekly schedule",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Weekly schedule resolved",
		Data: schedule,
	})
}

// GetTransportStats godoc
// @Summary      Get transport stats for a date
// @Description  Count total, confirmed, and absent transport entries for the given date
// @Tags         Transport
// @Accept       json
// @Produce      json
// @Param        date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} util.APIResponse{data=transport.Stats} "Stats computed"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /stats/transport [get]
func GetTransportStats(c *gin.Context) {
	date := c.DefaultQuery("date", today())

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	stats, err := transport.New(db).ComputeStats(date)
	if err != nil {
		if errors.Is(err, transport.ErrInvalidDate) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Invalid date parameter",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to compute transport stats",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Transport stats computed",
		Data: stats,
	})
}
