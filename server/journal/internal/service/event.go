package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// EventService manages the outage journal.
type EventService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEventService creates an event service.
func NewEventService(db *gorm.DB, logger *zap.Logger) *EventService {
	return &EventService{db: db, logger: logger}
}

func (s *EventService) preloaded() *gorm.DB {
	return s.db.
		Preload("Substation").
		Preload("Cell").
		Preload("Tp").
		Preload("EventLines.Line").
		Preload("EventTps.Tp")
}

// List returns the journal, newest first, narrowed by the filter. Filtering
// runs in memory over the loaded rows so every predicate sees the fully
// joined event.
func (s *EventService) List(filter *EventFilter) ([]*EventResponse, error) {
	var events []journal.OutageEvent
	if err := s.preloaded().Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if filter != nil {
		events = filter.Apply(events, time.Now())
	}
	return NewEventResponses(events), nil
}

// Get returns one event with its associations.
func (s *EventService) Get(id int64) (*EventResponse, error) {
	var event journal.OutageEvent
	if err := s.preloaded().First(&event, id).Error; err != nil {
		return nil, err
	}
	return NewEventResponse(&event), nil
}

// Create inserts a new event together with its line and TP associations in
// one transaction.
func (s *EventService) Create(dto *EventWriteDTO) (*EventResponse, error) {
	event := journal.OutageEvent{
		SubstationID:      dto.SubstationID,
		CellID:            dto.CellID,
		TpID:              dto.TpID,
		Type:              dto.Type,
		ReasonCategory:    dto.ReasonCategory,
		ReasonSubcategory: dto.ReasonSubcategory,
		TimeStart:         dto.TimeStart,
		TimeEnd:           dto.TimeEnd,
		MeasuresPlanned:   dto.MeasuresPlanned,
		MeasuresTaken:     dto.MeasuresTaken,
		DeadlineDate:      dto.DeadlineDate,
		Comment:           dto.Comment,
		IsCompleted:       boolToInt(dto.IsCompleted),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return createAssociations(tx, event.ID, dto.LineIDs, dto.TpIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Info("event created", zap.Int64("id", event.ID), zap.String("type", event.Type))
	return s.Get(event.ID)
}

// Update fully replaces an event. Associations are rewritten by deleting the
// existing rows and recreating them from the payload, all in one transaction.
func (s *EventService) Update(id int64, dto *EventWriteDTO) (*EventResponse, error) {
	var event journal.OutageEvent
	if err := s.db.First(&event, id).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"substation_id":      dto.SubstationID,
			"cell_id":            dto.CellID,
			"tp_id":              dto.TpID,
			"type":               dto.Type,
			"reason_category":    dto.ReasonCategory,
			"reason_subcategory": dto.ReasonSubcategory,
			"time_start":         dto.TimeStart,
			"time_end":           dto.TimeEnd,
			"measures_planned":   dto.MeasuresPlanned,
			"measures_taken":     dto.MeasuresTaken,
			"deadline_date":      dto.DeadlineDate,
			"comment":            dto.Comment,
			"is_completed":       boolToInt(dto.IsCompleted),
		}
		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&journal.EventLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&journal.EventTp{}).Error; err != nil {
			return err
		}
		return createAssociations(tx, id, dto.LineIDs, dto.TpIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.logger.Info("event updated", zap.Int64("id", id))
	return s.Get(id)
}

// Patch applies a partial completion update. Closing an event without an
// explicit end time stamps the current time; reopening clears it.
func (s *EventService) Patch(id int64, dto *EventPatchDTO) (*EventResponse, error) {
	var event journal.OutageEvent
	if err := s.db.First(&event, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.MeasuresTaken != nil {
		updates["measures_taken"] = *dto.MeasuresTaken
	}
	if dto.Comment != nil {
		updates["comment"] = *dto.Comment
	}
	if dto.TimeEnd.Set {
		updates["time_end"] = dto.TimeEnd.Value
	}
	if dto.IsCompleted != nil {
		updates["is_completed"] = boolToInt(*dto.IsCompleted)
		if *dto.IsCompleted {
			if !dto.TimeEnd.Set && event.TimeEnd == nil {
				updates["time_end"] = time.Now()
			}
		} else if !dto.TimeEnd.Set {
			updates["time_end"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&event).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to patch event: %w", err)
		}
		s.logger.Info("event patched", zap.Int64("id", id))
	}
	return s.Get(id)
}

// Delete removes an event and its association rows in one transaction.
func (s *EventService) Delete(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&journal.EventLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&journal.EventTp{}).Error; err != nil {
			return err
		}
		return tx.Delete(&journal.OutageEvent{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.Int64("id", id))
	return nil
}

func createAssociations(tx *gorm.DB, eventID int64, lineIDs, tpIDs []int64) error {
	for _, lineID := range lineIDs {
		if err := tx.Create(&journal.EventLine{EventID: eventID, LineID: lineID}).Error; err != nil {
			return err
		}
	}
	for _, tpID := range tpIDs {
		if err := tx.Create(&journal.EventTp{EventID: eventID, TpID: tpID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
