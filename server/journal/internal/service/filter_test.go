package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }
func datep(t time.Time) *journal.Date {
	d := journal.Date(t)
	return &d
}

func sampleEvents() []journal.OutageEvent {
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	end1 := start.Add(210 * time.Minute)
	end2 := start.Add(30 * time.Minute)

	return []journal.OutageEvent{
		{
			BaseModel:      journal.BaseModel{ID: 1},
			SubstationID:   int64p(1),
			CellID:         int64p(10),
			Type:           journal.EventTypeEmergency,
			ReasonCategory: "Cable line 0.4/6/10 kV failures",
			TimeStart:      start,
			TimeEnd:        &end1,
			IsCompleted:    1,
			Substation:     &journal.Substation{BaseModel: journal.BaseModel{ID: 1}, Name: "North", District: "Northern district", VoltageClass: "110 kV"},
			Cell:           &journal.Cell{BaseModel: journal.BaseModel{ID: 10}, Name: "Bay 1", VoltageClass: "10 kV"},
			EventLines: []journal.EventLine{
				{LineID: 100, Line: journal.Line{BaseModel: journal.BaseModel{ID: 100}, Name: "OHL-101", LineType: journal.LineTypeOverhead, VoltageClass: "10 kV"}},
			},
		},
		{
			BaseModel:   journal.BaseModel{ID: 2},
			TpID:        int64p(20),
			Type:        journal.EventTypePlanned,
			TimeStart:   start.AddDate(0, 0, 1),
			TimeEnd:     &end2,
			IsCompleted: 1,
			Comment:     "maintenance window",
			Tp:          &journal.Tp{BaseModel: journal.BaseModel{ID: 20}, Name: "TP-101", VoltageClass: "10/0.4 kV"},
		},
		{
			BaseModel: journal.BaseModel{ID: 3},
			Type:      journal.EventTypeEmergency,
			TimeStart: start.AddDate(0, 0, 2),
		},
	}
}

func TestFilterDefaultIsIdentity(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	got := (&EventFilter{}).Apply(events, now)

	assert.Len(t, got, len(events))
	for i := range events {
		assert.Equal(t, events[i].ID, got[i].ID)
	}
}

func TestFilterSubsetAndIdempotence(t *testing.T) {
	events := sampleEvents()
	now := time.Now()
	filter := &EventFilter{Status: "completed"}

	once := filter.Apply(events, now)
	twice := filter.Apply(once, now)

	assert.True(t, len(once) <= len(events))
	assert.Equal(t, once, twice)
}

func TestFilterMonotonicity(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	loose := &EventFilter{Status: "completed"}
	tight := &EventFilter{Status: "completed", Type: journal.EventTypeEmergency}

	assert.True(t, len(tight.Apply(events, now)) <= len(loose.Apply(events, now)))
}

func TestFilterStatus(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	active := (&EventFilter{Status: "active"}).Apply(events, now)
	completed := (&EventFilter{Status: "completed"}).Apply(events, now)

	assert.Len(t, active, 1)
	assert.EqualValues(t, 3, active[0].ID)
	assert.Len(t, completed, 2)
}

func TestFilterFreeText(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	bySubstation := (&EventFilter{Query: "north"}).Apply(events, now)
	assert.Len(t, bySubstation, 1)
	assert.EqualValues(t, 1, bySubstation[0].ID)

	byLine := (&EventFilter{Query: "ohl-101"}).Apply(events, now)
	assert.Len(t, byLine, 1)

	byComment := (&EventFilter{Query: "MAINTENANCE"}).Apply(events, now)
	assert.Len(t, byComment, 1)
	assert.EqualValues(t, 2, byComment[0].ID)

	assert.Empty(t, (&EventFilter{Query: "no such text"}).Apply(events, now))
}

func TestFilterDateRangeInclusiveDayBounds(t *testing.T) {
	events := sampleEvents()
	now := time.Now()
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	sameDay := &EventFilter{DateStart: datep(day), DateEnd: datep(day)}
	got := sameDay.Apply(events, now)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].ID)

	edge := journal.OutageEvent{BaseModel: journal.BaseModel{ID: 9}, TimeStart: time.Date(2025, 6, 10, 23, 59, 59, 999000000, time.Local)}
	assert.True(t, sameDay.Match(&edge, now))

	past := journal.OutageEvent{BaseModel: journal.BaseModel{ID: 9}, TimeStart: time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local)}
	assert.False(t, sameDay.Match(&past, now))
}

func TestFilterObjectIdentity(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	assert.Len(t, (&EventFilter{SubstationID: int64p(1)}).Apply(events, now), 1)
	assert.Len(t, (&EventFilter{CellID: int64p(10)}).Apply(events, now), 1)
	assert.Len(t, (&EventFilter{LineID: int64p(100)}).Apply(events, now), 1)
	assert.Len(t, (&EventFilter{TpID: int64p(20)}).Apply(events, now), 1)
	assert.Empty(t, (&EventFilter{LineID: int64p(999)}).Apply(events, now))
}

func TestFilterVoltageClassMatchesAnyRelatedObject(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	// Event 1 carries 10 kV on its cell and line, 110 kV on its substation.
	assert.Len(t, (&EventFilter{VoltageClass: "110 kV"}).Apply(events, now), 1)
	assert.Len(t, (&EventFilter{VoltageClass: "10 kV"}).Apply(events, now), 1)
	assert.Len(t, (&EventFilter{VoltageClass: "10/0.4 kV"}).Apply(events, now), 1)
	assert.Empty(t, (&EventFilter{VoltageClass: "330 kV"}).Apply(events, now))
}

func TestFilterDuration(t *testing.T) {
	events := sampleEvents()
	now := time.Now()

	// Event 1 lasted exactly 210 minutes; bounds are inclusive.
	exact := &EventFilter{DurationMin: intp(210), DurationMax: intp(210)}
	got := exact.Apply(events, now)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].ID)

	assert.Empty(t, (&EventFilter{DurationMin: intp(211), DurationMax: intp(300)}).Apply(events[:2], now))
}

func TestEventDurationMinutesOpenEventUsesNow(t *testing.T) {
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	now := start.Add(90 * time.Minute)
	e := journal.OutageEvent{TimeStart: start}

	assert.Equal(t, 90, EventDurationMinutes(&e, now))
}

func TestIsOverdueBoundaries(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)

	atDeadline := deadline
	afterDeadline := deadline.Add(time.Minute)

	completedOnTime := journal.OutageEvent{DeadlineDate: datep(deadline), IsCompleted: 1, TimeEnd: &atDeadline}
	assert.False(t, IsOverdue(&completedOnTime, afterDeadline))

	completedLate := journal.OutageEvent{DeadlineDate: datep(deadline), IsCompleted: 1, TimeEnd: &afterDeadline}
	assert.True(t, IsOverdue(&completedLate, afterDeadline))

	completedNoEnd := journal.OutageEvent{DeadlineDate: datep(deadline), IsCompleted: 1}
	assert.False(t, IsOverdue(&completedNoEnd, afterDeadline))

	openNotYet := journal.OutageEvent{DeadlineDate: datep(deadline)}
	assert.False(t, IsOverdue(&openNotYet, atDeadline))
	assert.True(t, IsOverdue(&openNotYet, afterDeadline))

	noDeadline := journal.OutageEvent{}
	assert.False(t, IsOverdue(&noDeadline, afterDeadline))
}

func TestFilterOverdueOnly(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := deadline.Add(time.Hour)

	events := []journal.OutageEvent{
		{BaseModel: journal.BaseModel{ID: 1}, TimeStart: deadline.AddDate(0, 0, -1), DeadlineDate: datep(deadline)},
		{BaseModel: journal.BaseModel{ID: 2}, TimeStart: deadline.AddDate(0, 0, -1)},
	}

	got := (&EventFilter{OverdueOnly: true}).Apply(events, now)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].ID)
}

func TestActiveCountGroupsPairedFields(t *testing.T) {
	day := datep(time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local))

	assert.Equal(t, 0, (&EventFilter{}).ActiveCount())
	assert.Equal(t, 1, (&EventFilter{DateStart: day, DateEnd: day}).ActiveCount())
	assert.Equal(t, 1, (&EventFilter{DurationMin: intp(0), DurationMax: intp(60)}).ActiveCount())

	full := &EventFilter{
		Query:        "q",
		DateStart:    day,
		SubstationID: int64p(1),
		CellID:       int64p(1),
		LineID:       int64p(1),
		TpID:         int64p(1),
		VoltageClass: "10 kV",
		District:     "north",
		LineType:     journal.LineTypeCable,
		Type:         journal.EventTypeEmergency,
		Category:     "c",
		Status:       "active",
		DurationMin:  intp(1),
	}
	assert.Equal(t, 13, full.ActiveCount())
}
