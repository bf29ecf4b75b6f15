package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// Date-range presets for the report views.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetWeek      = "week"
	PresetMonth     = "month"
	PresetYear      = "year"
	PresetAll       = "all"
)

// ReportService assembles the report payloads. The derivations are pure
// functions over the preset-bounded event list; only the list load touches
// the store.
type ReportService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReportService creates a report service.
func NewReportService(db *gorm.DB, logger *zap.Logger) *ReportService {
	return &ReportService{db: db, logger: logger}
}

// DayCount is one calendar day of the dynamics chart.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// NameCount is one named bucket of a ranking.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayAverage is one day of the MTTR trend.
type DayAverage struct {
	Date    string `json:"date"`
	AvgTime int    `json:"avgTime"`
}

// Ratio holds the raw planned-vs-emergency counts.
type Ratio struct {
	Emergency int `json:"emergency"`
	Planned   int `json:"planned"`
}

// DeadlineEntry is one row of the deadline watch: an open event whose
// deadline is less than two hours away or already past.
type DeadlineEntry struct {
	Event   *EventResponse `json:"event"`
	Overdue bool           `json:"overdue"`
}

// ReportResponse bundles every report derivation for one preset.
type ReportResponse struct {
	Preset          string       `json:"preset"`
	Dynamics        []DayCount   `json:"dynamics"`
	TopSubstations  []NameCount  `json:"topSubstations"`
	Causes          []NameCount  `json:"causes"`
	MTTR            int          `json:"mttr"`
	MTTRTrend       []DayAverage `json:"mttrTrend"`
	Ratio           Ratio        `json:"ratio"`
	FeederFrequency []NameCount  `json:"feederFrequency"`
}

// PresetRange resolves a preset name to its inclusive time interval around
// the reference instant. Unknown presets fall back to the current month.
func PresetRange(preset string, ref time.Time) (time.Time, time.Time) {
	n := now.With(ref)
	switch preset {
	case PresetToday:
		return n.BeginningOfDay(), n.EndOfDay()
	case PresetYesterday:
		y := now.With(ref.AddDate(0, 0, -1))
		return y.BeginningOfDay(), y.EndOfDay()
	case PresetWeek:
		return ref.AddDate(0, 0, -7), n.EndOfDay()
	case PresetYear:
		return n.BeginningOfYear(), n.EndOfDay()
	case PresetAll:
		return time.Unix(0, 0), time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
	case PresetMonth:
		return n.BeginningOfMonth(), n.EndOfMonth()
	default:
		return n.BeginningOfMonth(), n.EndOfMonth()
	}
}

// Build loads the events whose timeStart falls inside the preset interval and
// derives every report from them.
func (s *ReportService) Build(preset string) (*ReportResponse, error) {
	start, end := PresetRange(preset, time.Now())

	var events []journal.OutageEvent
	err := s.db.
		Preload("Substation").
		Preload("EventLines.Line").
		Where("time_start >= ? AND time_start <= ?", start, end).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load report events: %w", err)
	}
	s.logger.Debug("report built", zap.String("preset", preset), zap.Int("events", len(events)))

	return &ReportResponse{
		Preset:          preset,
		Dynamics:        EmergencyDynamics(events),
		TopSubstations:  TopUnreliableSubstations(events),
		Causes:          CauseDistribution(events),
		MTTR:            MTTR(events),
		MTTRTrend:       MTTRTrend(events),
		Ratio:           PlannedEmergencyRatio(events),
		FeederFrequency: FeederFrequency(events),
	}, nil
}

// DeadlineWatch returns the open events due within the next two hours, the
// already overdue ones included, soonest deadline first.
func (s *ReportService) DeadlineWatch(nowAt time.Time) ([]DeadlineEntry, error) {
	var events []journal.OutageEvent
	err := s.db.
		Preload("Substation").
		Preload("Cell").
		Preload("Tp").
		Preload("EventLines.Line").
		Preload("EventTps.Tp").
		Where("is_completed = 0 AND deadline_date IS NOT NULL").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load deadline watch: %w", err)
	}

	entries := make([]DeadlineEntry, 0)
	for i := range events {
		deadline := time.Time(*events[i].DeadlineDate)
		if deadline.Sub(nowAt) >= 2*time.Hour {
			continue
		}
		entries = append(entries, DeadlineEntry{
			Event:   NewEventResponse(&events[i]),
			Overdue: nowAt.After(deadline),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return time.Time(*entries[i].Event.DeadlineDate).Before(time.Time(*entries[j].Event.DeadlineDate))
	})
	return entries, nil
}

// EmergencyDynamics counts emergency events per calendar day, chronologically
// ascending.
func EmergencyDynamics(events []journal.OutageEvent) []DayCount {
	counts := map[string]int{}
	for i := range events {
		if events[i].Type == journal.EventTypeEmergency {
			counts[events[i].TimeStart.Format("2006-01-02")]++
		}
	}
	out := make([]DayCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TopUnreliableSubstations ranks substations by emergency-event count,
// top five descending.
func TopUnreliableSubstations(events []journal.OutageEvent) []NameCount {
	counts := map[string]int{}
	order := []string{}
	for i := range events {
		e := &events[i]
		if e.Type != journal.EventTypeEmergency || e.Substation == nil || e.Substation.Name == "" {
			continue
		}
		if _, ok := counts[e.Substation.Name]; !ok {
			order = append(order, e.Substation.Name)
		}
		counts[e.Substation.Name]++
	}
	return topN(counts, order, ReportTopLimit)
}

// CauseDistribution counts emergency events per reason category; events
// without one fall into the "unspecified" bucket.
func CauseDistribution(events []journal.OutageEvent) []NameCount {
	counts := map[string]int{}
	order := []string{}
	for i := range events {
		if events[i].Type != journal.EventTypeEmergency {
			continue
		}
		cat := events[i].ReasonCategory
		if cat == "" {
			cat = "unspecified"
		}
		if _, ok := counts[cat]; !ok {
			order = append(order, cat)
		}
		counts[cat]++
	}
	out := make([]NameCount, 0, len(order))
	for _, name := range order {
		out = append(out, NameCount{Name: name, Count: counts[name]})
	}
	return out
}

// MTTR is the mean time to recovery in whole minutes over completed
// emergency events, 0 when none qualify.
func MTTR(events []journal.OutageEvent) int {
	total := 0
	count := 0
	for i := range events {
		e := &events[i]
		if e.Type != journal.EventTypeEmergency || !e.Completed() || e.TimeEnd == nil {
			continue
		}
		total += int(e.TimeEnd.Sub(e.TimeStart) / time.Minute)
		count++
	}
	if count == 0 {
		return 0
	}
	return roundDiv(total, count)
}

// MTTRTrend is the per-day average recovery time, chronologically ascending.
func MTTRTrend(events []journal.OutageEvent) []DayAverage {
	type acc struct {
		total int
		count int
	}
	daily := map[string]*acc{}
	for i := range events {
		e := &events[i]
		if e.Type != journal.EventTypeEmergency || !e.Completed() || e.TimeEnd == nil {
			continue
		}
		key := e.TimeStart.Format("2006-01-02")
		if daily[key] == nil {
			daily[key] = &acc{}
		}
		daily[key].total += int(e.TimeEnd.Sub(e.TimeStart) / time.Minute)
		daily[key].count++
	}
	out := make([]DayAverage, 0, len(daily))
	for date, a := range daily {
		out = append(out, DayAverage{Date: date, AvgTime: roundDiv(a.total, a.count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PlannedEmergencyRatio is the raw pair of counts, no normalization.
func PlannedEmergencyRatio(events []journal.OutageEvent) Ratio {
	r := Ratio{}
	for i := range events {
		switch events[i].Type {
		case journal.EventTypeEmergency:
			r.Emergency++
		case journal.EventTypePlanned:
			r.Planned++
		}
	}
	return r
}

// FeederFrequency counts emergency events per associated line name, once per
// line per event, top five descending.
func FeederFrequency(events []journal.OutageEvent) []NameCount {
	counts := map[string]int{}
	order := []string{}
	for i := range events {
		if events[i].Type != journal.EventTypeEmergency {
			continue
		}
		for _, el := range events[i].EventLines {
			if el.Line.Name == "" {
				continue
			}
			if _, ok := counts[el.Line.Name]; !ok {
				order = append(order, el.Line.Name)
			}
			counts[el.Line.Name]++
		}
	}
	return topN(counts, order, ReportTopLimit)
}

func topN(counts map[string]int, order []string, n int) []NameCount {
	out := make([]NameCount, 0, len(order))
	for _, name := range order {
		out = append(out, NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func roundDiv(total, count int) int {
	half := count / 2
	if total < 0 {
		return (total - half) / count
	}
	return (total + half) / count
}
