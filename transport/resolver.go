package transport

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/andresilva/clinic-transport/model"
)

// enrollmentRow is one pre-joined enrollment expanded with the patient,
// activity, and therapist display fields the transport list needs.
type enrollmentRow struct {
	PatientID     uint
	PatientName   string
	ActivityID    uint
	ActivityName  string
	TherapistID   uint
	TherapistName string
	StartTime     string
	EndTime       string
}

// ResolveTransportList computes which patients must be transported on the
// given date. Weekend dates resolve to an empty list. A patient appears only
// if at least one active, transport-needing enrollment lands on that weekday;
// the patient is flagged absent when an absence row exists for the date, or
// when every therapist leading the patient's activities that day is absent
// (nobody is there to treat them, so no pickup is needed).
func (s *service) ResolveTransportList(date string) ([]TransportListItem, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	// Monday-origin weekday index: Sunday maps to -1 and Saturday to 5, both
	// outside the code table, so weekends short-circuit to an empty list.
	idx := int(day.Weekday()) - 1
	if idx < 0 || idx >= len(WeekdayCodes) {
		return []TransportListItem{}, nil
	}

	rows, err := s.fetchEnrollments(WeekdayCodes[idx])
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}

	absentPatients, err := s.fetchAbsentPatientIDs(date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient absences: %w", err)
	}

	absentTherapists, err := s.fetchAbsentTherapistIDs(date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch therapist absences: %w", err)
	}

	// Group rows per patient, preserving first-appearance order so the later
	// stable sort keeps query order on equal names.
	items := make([]TransportListItem, 0, len(rows))
	position := make(map[uint]int, len(rows))
	for _, row := range rows {
		i, seen := position[row.PatientID]
		if !seen {
			i = len(items)
			position[row.PatientID] = i
			items = append(items, TransportListItem{
				PatientID:   row.PatientID,
				PatientName: row.PatientName,
			})
		}
		items[i].Activities = append(items[i].Activities, TransportActivity{
			ActivityID:    row.ActivityID,
			ActivityName:  row.ActivityName,
			TherapistID:   row.TherapistID,
			TherapistName: row.TherapistName,
			StartTime:     row.StartTime,
			EndTime:       row.EndTime,
		})
	}

	for i := range items {
		items[i].IsAbsent = absentPatients[items[i].PatientID] ||
			allTherapistsAbsent(items[i].Activities, absentTherapists)
	}

	// Collators are not safe for concurrent use, so each resolution builds
	// its own; the weekly schedule resolves five days in parallel.
	coll := collate.New(language.Und)
	sort.SliceStable(items, func(a, b int) bool {
		return coll.CompareString(items[a].PatientName, items[b].PatientName) < 0
	})

	return items, nil
}

// fetchEnrollments returns every active, transport-needing enrollment whose
// activity runs on the given weekday, pre-joined with patient and therapist
// names. The joins bypass gorm's soft-delete scoping, so the deleted_at
// guards are explicit.
func (s *service) fetchEnrollments(dayCode string) ([]enrollmentRow, error) {
	var rows []enrollmentRow
	err := s.db.Table("patient_activities").
		Select("patient_activities.patient_id, patients.name AS patient_name, " +
			"activities.id AS activity_id, activities.name AS activity_name, " +
			"activities.therapist_id, therapists.name AS therapist_name, " +
			"activities.start_time, activities.end_time").
		Joins("JOIN activities ON activities.id = patient_activities.activity_id").
		Joins("JOIN patients ON patients.id = patient_activities.patient_id").
		Joins("JOIN therapists ON therapists.id = activities.therapist_id").
		Where("patient_activities.active = ? AND patient_activities.transport_needed = ?", true, true).
		Where("patient_activities.deleted_at IS NULL").
		Where("activities.active = ? AND activities.day_of_week = ?", true, dayCode).
		Where("activities.deleted_at IS NULL").
		Where("patients.active = ?", true).
		Where("patients.deleted_at IS NULL").
		Order("patient_activities.patient_id, activities.start_time, activities.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) fetchAbsentPatientIDs(date string) (map[uint]bool, error) {
	var ids []uint
	err := s.db.Model(&model.PatientAbsence{}).
		Where("date = ?", date).
		Pluck("patient_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return idSet(ids), nil
}

func (s *service) fetchAbsentTherapistIDs(date string) (map[uint]bool, error) {
	var ids []uint
	err := s.db.Model(&model.TherapistAbsence{}).
		Where("date = ?", date).
		Pluck("therapist_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return idSet(ids), nil
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// allTherapistsAbsent reports whether every activity in the list is led by an
// absent therapist. Callers only pass non-empty lists; items with no
// activities are never emitted.
func allTherapistsAbsent(activities []TransportActivity, absent map[uint]bool) bool {
	if len(activities) == 0 {
		return false
	}
	for _, a := range activities {
		if !absent[a.TherapistID] {
			return false
		}
	}
	return true
}
