package transport

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresilva/clinic-transport/model"
)

// Fixed calendar week used throughout: 2025-03-10 is a Monday.
const (
	testMonday    = "2025-03-10"
	testTuesday   = "2025-03-11"
	testWednesday = "2025-03-12"
	testSaturday  = "2025-03-15"
	testSunday    = "2025-03-16"
)

func setupTransportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:transport_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&model.Patient{},
		&model.Therapist{},
		&model.Activity{},
		&model.PatientActivity{},
		&model.PatientAbsence{},
		&model.TherapistAbsence{},
	)
	assert.NoError(t, err)

	return db
}

func createTestPatient(t *testing.T, db *gorm.DB, name string) model.Patient {
	t.Helper()
	patient := model.Patient{Name: name, Active: true}
	assert.NoError(t, db.Create(&patient).Error)
	return patient
}

func createTestTherapist(t *testing.T, db *gorm.DB, name string) model.Therapist {
	t.Helper()
	therapist := model.Therapist{Name: name, Specialty: "Fisioterapia", Active: true}
	assert.NoError(t, db.Create(&therapist).Error)
	return therapist
}

func createTestActivity(t *testing.T, db *gorm.DB, therapistID uint, day, start string) model.Activity {
	t.Helper()
	activity := model.Activity{
		Name:        fmt.Sprintf("Atividade %s %s", day, start),
		TherapistID: therapistID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     "23:00",
		Active:      true,
	}
	assert.NoError(t, db.Create(&activity).Error)
	return activity
}

func enrollTestPatient(t *testing.T, db *gorm.DB, patientID, activityID uint) model.PatientActivity {
	t.Helper()
	enrollment := model.PatientActivity{
		PatientID:       patientID,
		ActivityID:      activityID,
		TransportNeeded: true,
		Active:          true,
	}
	assert.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func TestResolveTransportList_WeekendReturnsEmpty(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	// Seed a Monday enrollment so the weekend result being empty is not just
	// an empty database.
	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, activity.ID)

	for _, date := range []string{testSaturday, testSunday} {
		items, err := svc.ResolveTransportList(date)
		assert.NoError(t, err)
		assert.Empty(t, items, "expected empty list for %s", date)
	}
}

func TestResolveTransportList_InvalidDate(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	for _, date := range []string{"", "10/03/2025", "2025-13-40", "yesterday"} {
		_, err := svc.ResolveTransportList(date)
		assert.True(t, errors.Is(err, ErrInvalidDate), "expected ErrInvalidDate for %q, got %v", date, err)
	}
}

func TestResolveTransportList_SingleEnrollment(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, activity.ID)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, patient.ID, items[0].PatientID)
	assert.Equal(t, "Maria Silva", items[0].PatientName)
	assert.False(t, items[0].IsAbsent)
	assert.Len(t, items[0].Activities, 1)
	assert.Equal(t, activity.ID, items[0].Activities[0].ActivityID)
	assert.Equal(t, therapist.ID, items[0].Activities[0].TherapistID)
	assert.Equal(t, "Dr. Carlos Oliveira", items[0].Activities[0].TherapistName)

	stats, err := svc.ComputeStats(testMonday)
	assert.NoError(t, err)
	assert.Equal(t, &Stats{Total: 1, Confirmed: 1, Absent: 0}, stats)
}

func TestResolveTransportList_PatientAbsenceAlwaysWins(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, activity.ID)

	absence := model.PatientAbsence{PatientID: patient.ID, Date: testMonday, Reason: "Consulta"}
	assert.NoError(t, db.Create(&absence).Error)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, items[0].IsAbsent)

	// The absence is for Monday only; Tuesday enrollments are unaffected.
	tueActivity := createTestActivity(t, db, therapist.ID, "Tue", "10:00")
	enrollTestPatient(t, db, patient.ID, tueActivity.ID)
	items, err = svc.ResolveTransportList(testTuesday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.False(t, items[0].IsAbsent)
}

func TestResolveTransportList_AllTherapistsAbsent(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, activity.ID)

	absence := model.TherapistAbsence{TherapistID: therapist.ID, Date: testMonday}
	assert.NoError(t, db.Create(&absence).Error)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, items[0].IsAbsent, "no therapist available means no transport needed")

	stats, err := svc.ComputeStats(testMonday)
	assert.NoError(t, err)
	assert.Equal(t, &Stats{Total: 1, Confirmed: 0, Absent: 1}, stats)
}

func TestResolveTransportList_OnePresentTherapistKeepsTransport(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	absentTherapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	presentTherapist := createTestTherapist(t, db, "Dra. Ana Pereira")
	first := createTestActivity(t, db, absentTherapist.ID, "Mon", "09:30")
	second := createTestActivity(t, db, presentTherapist.ID, "Mon", "11:00")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, first.ID)
	enrollTestPatient(t, db, patient.ID, second.ID)

	absence := model.TherapistAbsence{TherapistID: absentTherapist.ID, Date: testMonday}
	assert.NoError(t, db.Create(&absence).Error)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.False(t, items[0].IsAbsent)
	assert.Len(t, items[0].Activities, 2)
}

func TestResolveTransportList_GroupsActivitiesPerPatient(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	late := createTestActivity(t, db, therapist.ID, "Mon", "14:00")
	early := createTestActivity(t, db, therapist.ID, "Mon", "08:00")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, late.ID)
	enrollTestPatient(t, db, patient.ID, early.ID)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, items[0].Activities, 2)
	assert.Equal(t, "08:00", items[0].Activities[0].StartTime)
	assert.Equal(t, "14:00", items[0].Activities[1].StartTime)
}

func TestResolveTransportList_SortedByPatientName(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")

	// Created intentionally out of alphabetical order.
	for _, name := range []string{"Pedro Almeida", "Ana Souza", "João Santos", "Beatriz Lima"} {
		patient := createTestPatient(t, db, name)
		enrollTestPatient(t, db, patient.ID, activity.ID)
	}

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 4)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.PatientName)
	}
	assert.Equal(t, []string{"Ana Souza", "Beatriz Lima", "João Santos", "Pedro Almeida"}, names)
}

func TestResolveTransportList_TiedNamesKeepPatientOrder(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")

	// Two distinct patients sharing a name; the later Zé pins the tied pair
	// away from the list edge.
	first := createTestPatient(t, db, "Maria Silva")
	second := createTestPatient(t, db, "Maria Silva")
	last := createTestPatient(t, db, "Zé Pereira")
	for _, p := range []model.Patient{last, second, first} {
		enrollTestPatient(t, db, p.ID, activity.ID)
	}

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Len(t, items, 3)

	// Ties keep first-appearance order, which follows the query's ordering
	// by patient id.
	assert.Equal(t, first.ID, items[0].PatientID)
	assert.Equal(t, second.ID, items[1].PatientID)
	assert.Equal(t, last.ID, items[2].PatientID)
}

func TestResolveTransportList_OmitsNonQualifyingEnrollments(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	monday := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	tuesday := createTestActivity(t, db, therapist.ID, "Tue", "09:30")

	// Enrollment without transport.
	walker := createTestPatient(t, db, "Ana Souza")
	noTransport := model.PatientActivity{PatientID: walker.ID, ActivityID: monday.ID, TransportNeeded: false, Active: true}
	assert.NoError(t, db.Create(&noTransport).Error)

	// Deactivated enrollment.
	dropped := createTestPatient(t, db, "Bruno Dias")
	inactive := model.PatientActivity{PatientID: dropped.ID, ActivityID: monday.ID, TransportNeeded: true, Active: false}
	assert.NoError(t, db.Create(&inactive).Error)

	// Enrollment on another weekday.
	other := createTestPatient(t, db, "Carla Nunes")
	enrollTestPatient(t, db, other.ID, tuesday.ID)

	// Enrollment into a retired activity.
	retired := createTestActivity(t, db, therapist.ID, "Mon", "11:00")
	assert.NoError(t, db.Model(&retired).Update("active", false).Error)
	late := createTestPatient(t, db, "Diego Prado")
	enrollTestPatient(t, db, late.ID, retired.ID)

	// Inactive patient.
	gone := createTestPatient(t, db, "Elisa Matos")
	assert.NoError(t, db.Model(&gone).Update("active", false).Error)
	enrollTestPatient(t, db, gone.ID, monday.ID)

	items, err := svc.ResolveTransportList(testMonday)
	assert.NoError(t, err)
	assert.Empty(t, items, "non-qualifying enrollments must be omitted, not flagged absent")
}

func TestResolveWeeklySchedule_NormalizesToMonday(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	monActivity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")
	wedActivity := createTestActivity(t, db, therapist.ID, "Wed", "10:00")
	patient := createTestPatient(t, db, "Maria Silva")
	enrollTestPatient(t, db, patient.ID, monActivity.ID)
	enrollTestPatient(t, db, patient.ID, wedActivity.ID)

	reference, err := svc.ResolveWeeklySchedule(testMonday)
	assert.NoError(t, err)
	assert.Len(t, reference.Mon, 1)
	assert.Empty(t, reference.Tue)
	assert.Len(t, reference.Wed, 1)
	assert.Empty(t, reference.Thu)
	assert.Empty(t, reference.Fri)

	// Any date inside the same week, Sunday included, yields the same plan.
	for _, date := range []string{testTuesday, testWednesday, testSaturday, testSunday} {
		schedule, err := svc.ResolveWeeklySchedule(date)
		assert.NoError(t, err)
		assert.Equal(t, reference, schedule, "schedule for %s should match Monday's", date)
	}
}

func TestResolveWeeklySchedule_InvalidDate(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	_, err := svc.ResolveWeeklySchedule("03-10-2025")
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestComputeStats_TotalsAddUp(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	therapist := createTestTherapist(t, db, "Dr. Carlos Oliveira")
	activity := createTestActivity(t, db, therapist.ID, "Mon", "09:30")

	present := createTestPatient(t, db, "Ana Souza")
	enrollTestPatient(t, db, present.ID, activity.ID)

	away := createTestPatient(t, db, "Bruno Dias")
	enrollTestPatient(t, db, away.ID, activity.ID)
	absence := model.PatientAbsence{PatientID: away.ID, Date: testMonday}
	assert.NoError(t, db.Create(&absence).Error)

	stats, err := svc.ComputeStats(testMonday)
	assert.NoError(t, err)
	assert.Equal(t, stats.Total, stats.Confirmed+stats.Absent)
	assert.Equal(t, &Stats{Total: 2, Confirmed: 1, Absent: 1}, stats)
}

func TestComputeStats_EmptyDay(t *testing.T) {
	db := setupTransportTestDB(t)
	svc := New(db)

	stats, err := svc.ComputeStats(testMonday)
	assert.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestMondayOf(t *testing.T) {
	monday, err := time.Parse(dateLayout, testMonday)
	assert.NoError(t, err)

	for offset := 0; offset < 7; offset++ {
		day := monday.AddDate(0, 0, offset)
		assert.Equal(t, testMonday, mondayOf(day).Format(dateLayout), "offset %d", offset)
	}
}
