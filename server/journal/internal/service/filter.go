package service

import (
	"strings"
	"time"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// EventFilter is the per-request journal filter state, bound from query
// parameters. Zero values mean "not active"; the duration bounds are pointers
// so an explicit 0 is a valid bound.
type EventFilter struct {
	Query        string        `form:"q"`
	DateStart    *journal.Date `form:"dateStart"`
	DateEnd      *journal.Date `form:"dateEnd"`
	SubstationID *int64        `form:"substationId"`
	CellID       *int64        `form:"cellId"`
	LineID       *int64        `form:"lineId"`
	TpID         *int64        `form:"tpId"`
	VoltageClass string        `form:"voltageClass"`
	District     string        `form:"district"`
	LineType     string        `form:"lineType"`
	Type         string        `form:"type"`
	Category     string        `form:"category"`
	Subcategory  string        `form:"subcategory"`
	Status       string        `form:"status"`
	OverdueOnly  bool          `form:"overdueOnly"`
	DurationMin  *int          `form:"durationMin"`
	DurationMax  *int          `form:"durationMax"`
}

// Apply returns the events matching every active predicate. The input order
// is preserved.
func (f *EventFilter) Apply(events []journal.OutageEvent, now time.Time) []journal.OutageEvent {
	out := make([]journal.OutageEvent, 0, len(events))
	for i := range events {
		if f.Match(&events[i], now) {
			out = append(out, events[i])
		}
	}
	return out
}

// Match evaluates the predicates in a fixed order, cheapest first, and
// short-circuits on the first failure.
func (f *EventFilter) Match(e *journal.OutageEvent, now time.Time) bool {
	if f.Status == "active" && e.Completed() {
		return false
	}
	if f.Status == "completed" && !e.Completed() {
		return false
	}

	if f.OverdueOnly && !IsOverdue(e, now) {
		return false
	}

	if f.Query != "" && !f.matchText(e) {
		return false
	}

	if f.DateStart != nil {
		d := time.Time(*f.DateStart)
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
		if e.TimeStart.Before(start) {
			return false
		}
	}
	if f.DateEnd != nil {
		d := time.Time(*f.DateEnd)
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999000000, time.Local)
		if e.TimeStart.After(end) {
			return false
		}
	}

	// Object identity filters are independent of each other; picking a
	// substation does not constrain which line may also be picked.
	if f.SubstationID != nil && !int64PtrEquals(e.SubstationID, *f.SubstationID) {
		return false
	}
	if f.CellID != nil && !int64PtrEquals(e.CellID, *f.CellID) {
		return false
	}
	if f.LineID != nil && !f.matchLineID(e) {
		return false
	}
	if f.TpID != nil && !int64PtrEquals(e.TpID, *f.TpID) {
		return false
	}

	if f.VoltageClass != "" && !f.matchVoltage(e) {
		return false
	}
	if f.District != "" && (e.Substation == nil || e.Substation.District != f.District) {
		return false
	}
	if f.LineType != "" && !f.matchLineType(e) {
		return false
	}

	if f.Type != "" && e.Type != f.Type {
		return false
	}

	if f.Category != "" && e.ReasonCategory != f.Category {
		return false
	}
	if f.Subcategory != "" && e.ReasonSubcategory != f.Subcategory {
		return false
	}

	if f.DurationMin != nil || f.DurationMax != nil {
		minutes := EventDurationMinutes(e, now)
		if f.DurationMin != nil && minutes < *f.DurationMin {
			return false
		}
		if f.DurationMax != nil && minutes > *f.DurationMax {
			return false
		}
	}

	return true
}

// ActiveCount reports how many filters are set, grouping the date pair and
// the duration pair each as one.
func (f *EventFilter) ActiveCount() int {
	count := 0
	if f.Query != "" {
		count++
	}
	if f.DateStart != nil || f.DateEnd != nil {
		count++
	}
	if f.SubstationID != nil {
		count++
	}
	if f.CellID != nil {
		count++
	}
	if f.LineID != nil {
		count++
	}
	if f.TpID != nil {
		count++
	}
	if f.VoltageClass != "" {
		count++
	}
	if f.District != "" {
		count++
	}
	if f.LineType != "" {
		count++
	}
	if f.Type != "" {
		count++
	}
	if f.Category != "" {
		count++
	}
	if f.Status != "" {
		count++
	}
	if f.DurationMin != nil || f.DurationMax != nil {
		count++
	}
	return count
}

func (f *EventFilter) matchText(e *journal.OutageEvent) bool {
	q := strings.ToLower(f.Query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), q)
	}
	if e.Substation != nil && (contains(e.Substation.Name) || contains(e.Substation.District)) {
		return true
	}
	if e.Cell != nil && contains(e.Cell.Name) {
		return true
	}
	if e.Tp != nil && contains(e.Tp.Name) {
		return true
	}
	for i := range e.EventLines {
		if contains(e.EventLines[i].Line.Name) {
			return true
		}
	}
	return contains(e.ReasonCategory) ||
		contains(e.ReasonSubcategory) ||
		contains(e.MeasuresTaken) ||
		contains(e.MeasuresPlanned) ||
		contains(e.Comment)
}

func (f *EventFilter) matchLineID(e *journal.OutageEvent) bool {
	for i := range e.EventLines {
		if e.EventLines[i].LineID == *f.LineID {
			return true
		}
	}
	return false
}

func (f *EventFilter) matchVoltage(e *journal.OutageEvent) bool {
	if e.Substation != nil && e.Substation.VoltageClass == f.VoltageClass {
		return true
	}
	if e.Cell != nil && e.Cell.VoltageClass == f.VoltageClass {
		return true
	}
	if e.Tp != nil && e.Tp.VoltageClass == f.VoltageClass {
		return true
	}
	for i := range e.EventLines {
		if e.EventLines[i].Line.VoltageClass == f.VoltageClass {
			return true
		}
	}
	return false
}

func (f *EventFilter) matchLineType(e *journal.OutageEvent) bool {
	for i := range e.EventLines {
		if e.EventLines[i].Line.LineType == f.LineType {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the event blew its deadline. A completed event is
// overdue when it ended strictly after the deadline; an open one when "now"
// is strictly after it.
func IsOverdue(e *journal.OutageEvent, now time.Time) bool {
	if e.DeadlineDate == nil {
		return false
	}
	deadline := time.Time(*e.DeadlineDate)
	if e.Completed() {
		return e.TimeEnd != nil && e.TimeEnd.After(deadline)
	}
	return now.After(deadline)
}

// EventDurationMinutes is the whole-minute span from timeStart to timeEnd,
// or to now for open events.
func EventDurationMinutes(e *journal.OutageEvent, now time.Time) int {
	end := now
	if e.TimeEnd != nil {
		end = *e.TimeEnd
	}
	return int(end.Sub(e.TimeStart) / time.Minute)
}

func int64PtrEquals(p *int64, v int64) bool {
	return p != nil && *p == v
}
