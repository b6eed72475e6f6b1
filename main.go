// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/clinic-transport/config"
	"github.com/andresilva/clinic-transport/endpoint"
	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
	"github.com/andresilva/clinic-transport/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	db.AutoMigrate(
		&model.Patient{},
		&model.Therapist{},
		&model.Activity{},
		&model.PatientActivity{},
		&model.PatientAbsence{},
		&model.TherapistAbsence{},
		&model.AuditLog{},
	)

	// Audit events are persisted best-effort once the DB is up.
	util.SetAuditLoggerDB(db)

	// Redis is optional; without it the rate limiter uses its local window.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting falls back to local counters: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	// Create a Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())
	router.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	router.GET("/patient", endpoint.ListPatients)
	router.POST("/patient", endpoint.CreatePatient)
	router.GET("/patient/:id", endpoint.GetPatientInfo)
	router.PATCH("/patient/:id", endpoint.UpdatePatient)
	router.DELETE("/patient/:id", endpoint.DeletePatient)
	router.GET("/patient/:id/activities", endpoint.ListPatientEnrollments)

	router.GET("/therapist", endpoint.ListTherapists)
	router.POST("/therapist", endpoint.CreateTherapist)
	router.GET("/therapist/:id", endpoint.GetTherapistInfo)
	router.PATCH("/therapist/:id", endpoint.UpdateTherapist)
	router.DELETE("/therapist/:id", endpoint.DeleteTherapist)

	router.GET("/activity", endpoint.ListActivities)
	router.POST("/activity", endpoint.CreateActivity)
	router.GET("/activity/:id", endpoint.GetActivityInfo)
	router.PATCH("/activity/:id", endpoint.UpdateActivity)
	router.DELETE("/activity/:id", endpoint.DeleteActivity)
	router.GET("/activity/:id/patients", endpoint.ListActivityPatients)

	router.GET("/patient-activity", endpoint.ListPatientActivities)
	router.POST("/patient-activity", endpoint.CreatePatientActivity)
	router.GET("/patient-activity/:id", endpoint.GetPatientActivityInfo)
	router.PATCH("/patient-activity/:id", endpoint.UpdatePatientActivity)
	router.DELETE("/patient-activity/:id", endpoint.DeletePatientActivity)

	router.GET("/patient-absence", endpoint.ListPatientAbsences)
	router.POST("/patient-absence", endpoint.CreatePatientAbsence)
	router.DELETE("/patient-absence/:id", endpoint.DeletePatientAbsence)

	router.GET("/therapist-absence", endpoint.ListTherapistAbsences)
	router.POST("/therapist-absence", endpoint.CreateTherapistAbsence)
	router.DELETE("/therapist-absence/:id", endpoint.DeleteTherapistAbsence)

	router.GET("/transport", endpoint.GetTransportList)
	router.GET("/transport/weekly", endpoint.GetWeeklyTransportSchedule)
	router.GET("/stats/transport", endpoint.GetTransportStats)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
