package service

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// EventResponse is the journal row shape returned by every event read. The
// association rows are flattened into plain line and TP lists and the stored
// 0/1 completion flag is normalized to a bool.
type EventResponse struct {
	ID                int64               `json:"id"`
	SubstationID      *int64              `json:"substationId"`
	CellID            *int64              `json:"cellId"`
	TpID              *int64              `json:"tpId"`
	Type              string              `json:"type"`
	ReasonCategory    string              `json:"reasonCategory"`
	ReasonSubcategory string              `json:"reasonSubcategory"`
	TimeStart         time.Time           `json:"timeStart"`
	TimeEnd           *time.Time          `json:"timeEnd"`
	MeasuresPlanned   string              `json:"measuresPlanned"`
	MeasuresTaken     string              `json:"measuresTaken"`
	DeadlineDate      *journal.Date       `json:"deadlineDate"`
	Comment           string              `json:"comment"`
	IsCompleted       bool                `json:"isCompleted"`
	IsSwitching       bool                `json:"isSwitching"`
	SwitchingDetails  string              `json:"switchingDetails,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	Substation        *journal.Substation `json:"substation"`
	Cell              *journal.Cell       `json:"cell"`
	Tp                *journal.Tp         `json:"tp"`
	Lines             []journal.Line      `json:"lines"`
	Tps               []journal.Tp        `json:"tps"`
}

// NewEventResponse flattens a loaded event row into the response shape.
func NewEventResponse(e *journal.OutageEvent) *EventResponse {
	resp := &EventResponse{
		ID:                e.ID,
		SubstationID:      e.SubstationID,
		CellID:            e.CellID,
		TpID:              e.TpID,
		Type:              e.Type,
		ReasonCategory:    e.ReasonCategory,
		ReasonSubcategory: e.ReasonSubcategory,
		TimeStart:         e.TimeStart,
		TimeEnd:           e.TimeEnd,
		MeasuresPlanned:   e.MeasuresPlanned,
		MeasuresTaken:     e.MeasuresTaken,
		DeadlineDate:      e.DeadlineDate,
		Comment:           e.Comment,
		IsCompleted:       e.Completed(),
		IsSwitching:       e.IsSwitching != 0,
		SwitchingDetails:  e.SwitchingDetails,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		Substation:        e.Substation,
		Cell:              e.Cell,
		Tp:                e.Tp,
		Lines:             make([]journal.Line, 0, len(e.EventLines)),
		Tps:               make([]journal.Tp, 0, len(e.EventTps)),
	}
	for _, el := range e.EventLines {
		resp.Lines = append(resp.Lines, el.Line)
	}
	for _, et := range e.EventTps {
		resp.Tps = append(resp.Tps, et.Tp)
	}
	return resp
}

// NewEventResponses maps a slice of loaded events.
func NewEventResponses(events []journal.OutageEvent) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for i := range events {
		out = append(out, NewEventResponse(&events[i]))
	}
	return out
}

// EventWriteDTO is the payload for creating an event or fully replacing one.
type EventWriteDTO struct {
	SubstationID      *int64        `json:"substationId"`
	CellID            *int64        `json:"cellId"`
	TpID              *int64        `json:"tpId"`
	Type              string        `json:"type" binding:"required"`
	ReasonCategory    string        `json:"reasonCategory"`
	ReasonSubcategory string        `json:"reasonSubcategory"`
	TimeStart         time.Time     `json:"timeStart" binding:"required"`
	TimeEnd           *time.Time    `json:"timeEnd"`
	MeasuresPlanned   string        `json:"measuresPlanned"`
	MeasuresTaken     string        `json:"measuresTaken"`
	DeadlineDate      *journal.Date `json:"deadlineDate"`
	Comment           string        `json:"comment"`
	IsCompleted       bool          `json:"isCompleted"`
	LineIDs           []int64       `json:"lineIds"`
	TpIDs             []int64       `json:"tpIds"`
}

// OptionalTime distinguishes an absent field from an explicit null and from a
// concrete value, so a completion PATCH can choose between stamping the
// current time, clearing the field, and setting a given instant.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON records that the field was present; a JSON null leaves Value
// nil.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// EventPatchDTO is the partial completion update. Only these four fields may
// change through PATCH; nil pointers mean "leave as is".
type EventPatchDTO struct {
	IsCompleted   *bool        `json:"isCompleted"`
	MeasuresTaken *string      `json:"measuresTaken"`
	Comment       *string      `json:"comment"`
	TimeEnd       OptionalTime `json:"timeEnd"`
}
