package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Journal"

var exportHeaders = []string{
	"ID", "Start", "End", "Type", "Substation", "Cell", "TP", "Lines",
	"Reason category", "Reason subcategory", "Measures planned",
	"Measures taken", "Deadline", "Duration, min", "Status", "Comment",
}

// ExportService renders the filtered journal as an xlsx workbook.
type ExportService struct {
	events *EventService
}

// NewExportService creates an export service.
func NewExportService(events *EventService) *ExportService {
	return &ExportService{events: events}
}

// Export writes one row per matching event, newest first like the journal
// view.
func (s *ExportService) Export(filter *EventFilter) ([]byte, error) {
	events, err := s.events.List(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}
	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	for row, e := range events {
		values := exportRow(e, now)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(e *EventResponse, now time.Time) []interface{} {
	const stamp = "02.01.2006 15:04"

	end := ""
	duration := int(now.Sub(e.TimeStart) / time.Minute)
	if e.TimeEnd != nil {
		end = e.TimeEnd.Format(stamp)
		duration = int(e.TimeEnd.Sub(e.TimeStart) / time.Minute)
	}

	names := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		names = append(names, l.Name)
	}

	substation, cell, tp := "", "", ""
	if e.Substation != nil {
		substation = e.Substation.Name
	}
	if e.Cell != nil {
		cell = e.Cell.Name
	}
	if e.Tp != nil {
		tp = e.Tp.Name
	}

	deadline := ""
	if e.DeadlineDate != nil {
		deadline = e.DeadlineDate.String()
	}

	status := "Open"
	if e.IsCompleted {
		status = "Completed"
	}

	return []interface{}{
		e.ID, e.TimeStart.Format(stamp), end, e.Type, substation, cell, tp,
		strings.Join(names, ", "), e.ReasonCategory, e.ReasonSubcategory,
		e.MeasuresPlanned, e.MeasuresTaken, deadline, duration, status,
		e.Comment,
	}
}
