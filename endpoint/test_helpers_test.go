package endpoint

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/config"
	"github.com/andresilva/clinic-transport/middleware"
	"github.com/andresilva/clinic-transport/model"
)

// setupTestDB connects to the shared in-memory test database, migrates the
// scheduling models, and wipes their tables so each test starts clean.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectMySQL()
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}

	testModels := []interface{}{
		&model.Patient{}, &model.Therapist{}, &model.Activity{},
		&model.PatientActivity{}, &model.PatientAbsence{}, &model.TherapistAbsence{},
	}
	if err := db.AutoMigrate(testModels...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	for _, m := range testModels {
		if err := db.Unscoped().Where("1 = 1").Delete(m).Error; err != nil {
			t.Fatalf("clean table: %v", err)
		}
	}

	return db
}

// newTestRouter builds a router the way main wires it, minus the rate limiter
// so tests never trip request quotas.
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/patient", ListPatients)
	r.POST("/patient", CreatePatient)
	r.GET("/patient/:id", GetPatientInfo)
	r.PATCH("/patient/:id", UpdatePatient)
	r.DELETE("/patient/:id", DeletePatient)
	r.GET("/patient/:id/activities", ListPatientEnrollments)

	r.GET("/therapist", ListTherapists)
	r.POST("/therapist", CreateTherapist)
	r.GET("/therapist/:id", GetTherapistInfo)
	r.PATCH("/therapist/:id", UpdateTherapist)
	r.DELETE("/therapist/:id", DeleteTherapist)

	r.GET("/activity", ListActivities)
	r.POST("/activity", CreateActivity)
	r.GET("/activity/:id", GetActivityInfo)
	r.PATCH("/activity/:id", UpdateActivity)
	r.DELETE("/activity/:id", DeleteActivity)
	r.GET("/activity/:id/patients", ListActivityPatients)

	r.GET("/patient-activity", ListPatientActivities)
	r.POST("/patient-activity", CreatePatientActivity)
	r.GET("/patient-activity/:id", GetPatientActivityInfo)
	r.PATCH("/patient-activity/:id", UpdatePatientActivity)
	r.DELETE("/patient-activity/:id", DeletePatientActivity)

	r.GET("/patient-absence", ListPatientAbsences)
	r.POST("/patient-absence", CreatePatientAbsence)
	r.DELETE("/patient-absence/:id", DeletePatientAbsence)

	r.GET("/therapist-absence", ListTherapistAbsences)
	r.POST("/therapist-absence", CreateTherapistAbsence)
	r.DELETE("/therapist-absence/:id", DeleteTherapistAbsence)

	r.GET("/transport", GetTransportList)
	r.GET("/transport/weekly", GetWeeklyTransportSchedule)
	r.GET("/stats/transport", GetTransportStats)

	return r
}

// setupServer returns a clean database and a router wired against it.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return newTestRouter(db), db
}

// doRequest performs an HTTP request against the router and decodes the JSON
// response envelope. A nil body sends an empty request; other values are
// marshalled as JSON.
func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == nil {
		reader = strings.NewReader("")
	} else {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = strings.NewReader(string(b))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("decode response: %v; body: %s", err, w.Body.String())
		}
	}
	return w, response
}

// assertStatus fails the test when the recorder's status differs from want.
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d; body: %s", want, w.Code, w.Body.String())
	}
}

// responseData extracts the data field of the standard response envelope as a map.
func responseData(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got %v", response["data"])
	}
	return data
}

func createPatientFixture(t *testing.T, db *gorm.DB, name string) model.Patient {
	t.Helper()
	patient := model.Patient{Name: name, Active: true}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create patient fixture: %v", err)
	}
	return patient
}

func createTherapistFixture(t *testing.T, db *gorm.DB, name string) model.Therapist {
	t.Helper()
	therapist := model.Therapist{Name: name, Specialty: "Fisioterapia", Active: true}
	if err := db.Create(&therapist).Error; err != nil {
		t.Fatalf("create therapist fixture: %v", err)
	}
	return therapist
}

func createActivityFixture(t *testing.T, db *gorm.DB, name string, therapistID uint, dayOfWeek string) model.Activity {
	t.Helper()
	activity := model.Activity{
		Name:        name,
		TherapistID: therapistID,
		DayOfWeek:   dayOfWeek,
		StartTime:   "09:00",
		EndTime:     "10:00",
		Active:      true,
	}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("create activity fixture: %v", err)
	}
	return activity
}

func enrollFixture(t *testing.T, db *gorm.DB, patientID, activityID uint, transportNeeded bool) model.PatientActivity {
	t.Helper()
	enrollment := model.PatientActivity{
		PatientID:       patientID,
		ActivityID:      activityID,
		TransportNeeded: transportNeeded,
		Active:          true,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment fixture: %v", err)
	}
	return enrollment
}
