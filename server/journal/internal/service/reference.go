package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// ReferenceService manages the grid topology reference data and the reason
// taxonomy.
type ReferenceService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReferenceService creates a reference service.
func NewReferenceService(db *gorm.DB, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{db: db, logger: logger}
}

// ReferenceData is the denormalized payload the client loads once per
// session: the full topology plus the reason taxonomy folded into a
// category-to-subcategories mapping.
type ReferenceData struct {
	Substations []journal.Substation `json:"substations"`
	Tps         []journal.Tp         `json:"tps"`
	Reasons     map[string][]string  `json:"reasons"`
	Lines       []journal.Line       `json:"lines"`
}

// SubstationWriteDTO is the create/update payload for a substation.
type SubstationWriteDTO struct {
	Name         string `json:"name" binding:"required"`
	VoltageClass string `json:"voltageClass"`
	District     string `json:"district"`
}

// CellWriteDTO is the create/update payload for a cell. SubstationID only
// applies on create; a cell cannot move to another substation.
type CellWriteDTO struct {
	Name         string `json:"name" binding:"required"`
	SubstationID int64  `json:"substationId"`
	VoltageClass string `json:"voltageClass"`
}

// LineWriteDTO is the create/update payload for a line.
type LineWriteDTO struct {
	Name               string `json:"name" binding:"required"`
	VoltageClass       string `json:"voltageClass"`
	LineType           string `json:"lineType"`
	SourceCellID       *int64 `json:"sourceCellId"`
	SourceTpID         *int64 `json:"sourceTpId"`
	NormalSourceCellID *int64 `json:"normalSourceCellId"`
	NormalSourceTpID   *int64 `json:"normalSourceTpId"`
}

// TpWriteDTO is the create/update payload for a transformer point.
type TpWriteDTO struct {
	Name           string `json:"name" binding:"required"`
	VoltageClass   string `json:"voltageClass"`
	Capacity       string `json:"capacity"`
	FeederID       *int64 `json:"feederId"`
	NormalFeederID *int64 `json:"normalFeederId"`
}

// TopologySwitchDTO is the payload for re-sourcing a TP or a line.
type TopologySwitchDTO struct {
	ObjectID   int64  `json:"objectId" binding:"required"`
	ObjectType string `json:"objectType" binding:"required"`
	ToSourceID *int64 `json:"toSourceId"`
	Comment    string `json:"comment"`
}

// GetReferenceData assembles the session reference payload. Subcategory
// lists keep the first-seen order of the taxonomy rows.
func (s *ReferenceService) GetReferenceData() (*ReferenceData, error) {
	data := &ReferenceData{Reasons: map[string][]string{}}

	if err := s.db.Preload("Cells").Find(&data.Substations).Error; err != nil {
		return nil, fmt.Errorf("failed to load substations: %w", err)
	}
	if err := s.db.Find(&data.Lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}
	if err := s.db.Find(&data.Tps).Error; err != nil {
		return nil, fmt.Errorf("failed to load tps: %w", err)
	}

	var reasons []journal.OutageReason
	if err := s.db.Order("id").Find(&reasons).Error; err != nil {
		return nil, fmt.Errorf("failed to load reasons: %w", err)
	}
	for _, r := range reasons {
		subs := data.Reasons[r.Category]
		exists := false
		for _, sub := range subs {
			if sub == r.Subcategory {
				exists = true
				break
			}
		}
		if !exists {
			data.Reasons[r.Category] = append(subs, r.Subcategory)
		}
	}
	return data, nil
}

// CreateSubstation inserts a substation.
func (s *ReferenceService) CreateSubstation(dto *SubstationWriteDTO) (*journal.Substation, error) {
	sub := journal.Substation{Name: dto.Name, VoltageClass: dto.VoltageClass, District: dto.District}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create substation: %w", err)
	}
	return &sub, nil
}

// UpdateSubstation edits a substation's own fields.
func (s *ReferenceService) UpdateSubstation(id int64, dto *SubstationWriteDTO) error {
	return s.db.Model(&journal.Substation{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":          dto.Name,
			"voltage_class": dto.VoltageClass,
			"district":      dto.District,
		}).Error
}

// DeleteSubstation removes a substation together with its cells and every
// event recorded against the substation or one of its cells, associations
// first, all in one transaction.
func (s *ReferenceService) DeleteSubstation(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cells []journal.Cell
		if err := tx.Where("substation_id = ?", id).Find(&cells).Error; err != nil {
			return err
		}
		for _, cell := range cells {
			if err := deleteEventsWhere(tx, "cell_id = ?", cell.ID); err != nil {
				return err
			}
			if err := tx.Delete(&journal.Cell{}, cell.ID).Error; err != nil {
				return err
			}
		}
		if err := deleteEventsWhere(tx, "substation_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&journal.Substation{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("substation deleted", zap.Int64("id", id))
	return nil
}

// CreateCell inserts a cell under its substation.
func (s *ReferenceService) CreateCell(dto *CellWriteDTO) (*journal.Cell, error) {
	cell := journal.Cell{Name: dto.Name, SubstationID: dto.SubstationID, VoltageClass: dto.VoltageClass}
	if err := s.db.Create(&cell).Error; err != nil {
		return nil, fmt.Errorf("failed to create cell: %w", err)
	}
	return &cell, nil
}

// UpdateCell edits a cell's name and voltage class. The parent substation is
// immutable after create.
func (s *ReferenceService) UpdateCell(id int64, dto *CellWriteDTO) error {
	return s.db.Model(&journal.Cell{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":          dto.Name,
			"voltage_class": dto.VoltageClass,
		}).Error
}

// DeleteCell removes a cell and every event recorded against it.
func (s *ReferenceService) DeleteCell(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteEventsWhere(tx, "cell_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&journal.Cell{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("cell deleted", zap.Int64("id", id))
	return nil
}

// CreateLine inserts a line. The normal source defaults to the current
// source when not given explicitly.
func (s *ReferenceService) CreateLine(dto *LineWriteDTO) (*journal.Line, error) {
	line := journal.Line{
		Name:               dto.Name,
		VoltageClass:       dto.VoltageClass,
		LineType:           dto.LineType,
		SourceCellID:       dto.SourceCellID,
		SourceTpID:         dto.SourceTpID,
		NormalSourceCellID: dto.NormalSourceCellID,
		NormalSourceTpID:   dto.NormalSourceTpID,
	}
	if line.NormalSourceCellID == nil {
		line.NormalSourceCellID = dto.SourceCellID
	}
	if line.NormalSourceTpID == nil {
		line.NormalSourceTpID = dto.SourceTpID
	}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, fmt.Errorf("failed to create line: %w", err)
	}
	return &line, nil
}

// UpdateLine fully replaces a line's fields.
func (s *ReferenceService) UpdateLine(id int64, dto *LineWriteDTO) error {
	return s.db.Model(&journal.Line{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":                  dto.Name,
			"voltage_class":         dto.VoltageClass,
			"line_type":             dto.LineType,
			"source_cell_id":        dto.SourceCellID,
			"source_tp_id":          dto.SourceTpID,
			"normal_source_cell_id": dto.NormalSourceCellID,
			"normal_source_tp_id":   dto.NormalSourceTpID,
		}).Error
}

// DeleteLine removes a line after detaching it from every event.
func (s *ReferenceService) DeleteLine(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_id = ?", id).Delete(&journal.EventLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&journal.Line{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("line deleted", zap.Int64("id", id))
	return nil
}

// CreateTp inserts a transformer point. The normal feeder defaults to the
// current feeder when not given explicitly.
func (s *ReferenceService) CreateTp(dto *TpWriteDTO) (*journal.Tp, error) {
	tp := journal.Tp{
		Name:           dto.Name,
		VoltageClass:   dto.VoltageClass,
		Capacity:       dto.Capacity,
		FeederID:       dto.FeederID,
		NormalFeederID: dto.NormalFeederID,
	}
	if tp.NormalFeederID == nil {
		tp.NormalFeederID = dto.FeederID
	}
	if err := s.db.Create(&tp).Error; err != nil {
		return nil, fmt.Errorf("failed to create tp: %w", err)
	}
	return &tp, nil
}

// UpdateTp fully replaces a transformer point's fields.
func (s *ReferenceService) UpdateTp(id int64, dto *TpWriteDTO) error {
	return s.db.Model(&journal.Tp{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":             dto.Name,
			"voltage_class":    dto.VoltageClass,
			"capacity":         dto.Capacity,
			"feeder_id":        dto.FeederID,
			"normal_feeder_id": dto.NormalFeederID,
		}).Error
}

// DeleteTp removes a transformer point and every event recorded against it.
func (s *ReferenceService) DeleteTp(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteEventsWhere(tx, "tp_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&journal.Tp{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("tp deleted", zap.Int64("id", id))
	return nil
}

// SwitchTopology re-sources a TP or a line, auto-logs a completed switching
// event for the history and records the transition, all in one transaction.
func (s *ReferenceService) SwitchTopology(dto *TopologySwitchDTO) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var oldSourceID *int64

		switch dto.ObjectType {
		case journal.SwitchObjectTp:
			var tp journal.Tp
			if err := tx.First(&tp, dto.ObjectID).Error; err != nil {
				return err
			}
			oldSourceID = tp.FeederID
			if err := tx.Model(&tp).Update("feeder_id", dto.ToSourceID).Error; err != nil {
				return err
			}
		case journal.SwitchObjectLine:
			var line journal.Line
			if err := tx.First(&line, dto.ObjectID).Error; err != nil {
				return err
			}
			// The target id may name a cell or a TP; probing the cell table
			// decides which source column to rewrite.
			isCell := false
			if dto.ToSourceID != nil {
				var count int64
				if err := tx.Model(&journal.Cell{}).Where("id = ?", *dto.ToSourceID).Count(&count).Error; err != nil {
					return err
				}
				isCell = count > 0
			}
			if isCell {
				oldSourceID = line.SourceCellID
				err := tx.Model(&line).Updates(map[string]interface{}{
					"source_cell_id": dto.ToSourceID,
					"source_tp_id":   nil,
				}).Error
				if err != nil {
					return err
				}
			} else {
				oldSourceID = line.SourceTpID
				err := tx.Model(&line).Updates(map[string]interface{}{
					"source_tp_id":   dto.ToSourceID,
					"source_cell_id": nil,
				}).Error
				if err != nil {
					return err
				}
			}
		default:
			return errors.New("unknown switch object type")
		}

		details, err := json.Marshal(map[string]interface{}{
			"objectId":   dto.ObjectID,
			"objectType": dto.ObjectType,
			"fromId":     oldSourceID,
			"toId":       dto.ToSourceID,
		})
		if err != nil {
			return err
		}

		comment := dto.Comment
		if comment == "" {
			comment = fmt.Sprintf("Switching of %s #%d", dto.ObjectType, dto.ObjectID)
		}
		event := journal.OutageEvent{
			Type:              journal.EventTypeTopologySwitch,
			ReasonCategory:    "Operative switching",
			ReasonSubcategory: "Supply scheme change",
			TimeStart:         time.Now(),
			IsSwitching:       1,
			SwitchingDetails:  string(details),
			Comment:           comment,
			IsCompleted:       1,
		}
		if dto.ObjectType == journal.SwitchObjectTp {
			event.TpID = &dto.ObjectID
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		return tx.Create(&journal.TopologySwitch{
			ObjectID:     dto.ObjectID,
			ObjectType:   dto.ObjectType,
			FromSourceID: oldSourceID,
			ToSourceID:   dto.ToSourceID,
			EventID:      event.ID,
		}).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("topology switched",
		zap.String("objectType", dto.ObjectType),
		zap.Int64("objectId", dto.ObjectID),
		zap.Int64p("toSourceId", dto.ToSourceID))
	return nil
}

func deleteEventsWhere(tx *gorm.DB, cond string, arg interface{}) error {
	var events []journal.OutageEvent
	if err := tx.Where(cond, arg).Find(&events).Error; err != nil {
		return err
	}
	for _, e := range events {
		if err := tx.Where("event_id = ?", e.ID).Delete(&journal.EventLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", e.ID).Delete(&journal.EventTp{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&journal.OutageEvent{}, e.ID).Error; err != nil {
			return err
		}
	}
	return nil
}
