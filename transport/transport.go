package transport

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// dateLayout is the wire format for all dates handled by this package.
const dateLayout = "2006-01-02"

// WeekdayCodes maps Monday-origin indexes 0..4 to the codes stored on
// Activity.DayOfWeek and Therapist.WorkDays. The clinic only operates on
// weekdays; Saturday and Sunday have no code on purpose.
var WeekdayCodes = [5]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// ErrInvalidDate is returned when a caller-supplied date does not parse as
// YYYY-MM-DD. Endpoints map it to a 400 response.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// TransportActivity is one of a patient's scheduled activities for the
// resolved date.
type TransportActivity struct {
	ActivityID    uint   `json:"activity_id"`
	ActivityName  string `json:"activity_name"`
	TherapistID   uint   `json:"therapist_id"`
	TherapistName string `json:"therapist_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// TransportListItem is the per-patient transport requirement for one date:
// the activities the patient attends that day and whether pickup can be
// skipped because the patient is effectively absent.
type TransportListItem struct {
	PatientID   uint                `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	Activities  []TransportActivity `json:"activities"`
	IsAbsent    bool                `json:"is_absent"`
}

// WeeklySchedule is the fixed-shape Monday-to-Friday transport plan.
type WeeklySchedule struct {
	Mon []TransportListItem `json:"Mon"`
	Tue []TransportListItem `json:"Tue"`
	Wed []TransportListItem `json:"Wed"`
	Thu []TransportListItem `json:"Thu"`
	Fri []TransportListItem `json:"Fri"`
}

// Stats summarizes one day's transport list for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Absent    int `json:"absent"`
}

// Service derives transport lists, weekly schedules, and occupancy stats from
// the enrollment and absence tables. All methods are pure reads: repeated
// calls with unchanged data return identical output.
type Service interface {
	ResolveTransportList(date string) ([]TransportListItem, error)
	ResolveWeeklySchedule(startDate string) (*WeeklySchedule, error)
	ComputeStats(date string) (*Stats, error)
}

// New returns a Service backed by the given database handle.
func New(db *gorm.DB) Service {
	return &service{db: db}
}

type service struct {
	db *gorm.DB
}

// ResolveWeeklySchedule resolves the transport list for every weekday of the
// week containing startDate. The five per-day resolutions are independent
// reads and run concurrently; all must complete before the schedule is
// returned. Nothing is cached between calls.
func (s *service) ResolveWeeklySchedule(startDate string) (*WeeklySchedule, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
	}
	monday := mondayOf(start)

	var days [5][]TransportListItem
	var g errgroup.Group
	for i := range days {
		i := i
		date := monday.AddDate(0, 0, i).Format(dateLayout)
		g.Go(func() error {
			items, err := s.ResolveTransportList(date)
			if err != nil {
				return err
			}
			days[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &WeeklySchedule{
		Mon: days[0],
		Tue: days[1],
		Wed: days[2],
		Thu: days[3],
		Fri: days[4],
	}, nil
}

// ComputeStats counts the resolver output for one date.
func (s *service) ComputeStats(date string) (*Stats, error) {
	items, err := s.ResolveTransportList(date)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(items)}
	for _, item := range items {
		if item.IsAbsent {
			stats.Absent++
		}
	}
	stats.Confirmed = stats.Total - stats.Absent
	return stats, nil
}

// mondayOf returns the Monday of the week containing t: a Sunday steps back
// six days, any other day steps back to the Monday before it.
func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		return t.AddDate(0, 0, -6)
	}
	return t.AddDate(0, 0, -(wd - 1))
}
