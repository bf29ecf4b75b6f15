package service

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// AnalyticsService computes the dashboard aggregates. Every call re-scans the
// journal; results are point-in-time snapshots with no caching.
type AnalyticsService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(db *gorm.DB, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// CategoryCount is one (category, subcategory) bucket.
type CategoryCount struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Value       int64  `json:"value"`
}

// ObjectCount is one named object bucket; Type distinguishes substations
// from transformer points.
type ObjectCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Type  string `json:"type"`
}

// TypeStat is the total/active pair for one event type bucket.
type TypeStat struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// TypeStats buckets the journal by event type.
type TypeStats struct {
	Emergency  TypeStat `json:"emergency"`
	Planned    TypeStat `json:"planned"`
	Preventive TypeStat `json:"preventive"`
	Operative  TypeStat `json:"operative"`
}

// Stats is the headline counters block.
type Stats struct {
	Total  int64     `json:"total"`
	Active int64     `json:"active"`
	ByType TypeStats `json:"byType"`
}

// TimelinePoint is one month of the emergency/planned dynamics chart.
type TimelinePoint struct {
	Date      string `json:"date"`
	Emergency int64  `json:"emergency"`
	Planned   int64  `json:"planned"`
}

// HazardousObject is one entry of the hazardous-object ranking: a cell under
// its substation or a feeder line under its transformer point.
type HazardousObject struct {
	Substation string `json:"substation"`
	Cell       string `json:"cell"`
	Count      int64  `json:"count"`
	Type       string `json:"type"`
}

// AnalyticsResponse is the full dashboard payload.
type AnalyticsResponse struct {
	ByCategory   []CategoryCount   `json:"byCategory"`
	BySubstation []ObjectCount     `json:"bySubstation"`
	Stats        Stats             `json:"stats"`
	Timeline     []TimelinePoint   `json:"timeline"`
	TopHazardous []HazardousObject `json:"topHazardous"`
}

// Compute runs every dashboard aggregation against the store.
func (s *AnalyticsService) Compute() (*AnalyticsResponse, error) {
	resp := &AnalyticsResponse{}

	err := s.db.Raw(`
		SELECT reason_category AS category, reason_subcategory AS subcategory, COUNT(*) AS value
		FROM outage_event GROUP BY reason_category, reason_subcategory`).
		Scan(&resp.ByCategory).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}

	bySubstation, err := s.objectCounts()
	if err != nil {
		return nil, err
	}
	resp.BySubstation = bySubstation

	stats, err := s.stats()
	if err != nil {
		return nil, err
	}
	resp.Stats = *stats

	timeline, err := s.timeline()
	if err != nil {
		return nil, err
	}
	resp.Timeline = timeline

	topHazardous, err := s.topHazardous()
	if err != nil {
		return nil, err
	}
	resp.TopHazardous = topHazardous

	s.logger.Debug("analytics computed", zap.Int64("total", resp.Stats.Total))
	return resp, nil
}

// objectCounts merges the per-substation and per-TP event counts into one
// descending ranking.
func (s *AnalyticsService) objectCounts() ([]ObjectCount, error) {
	var bySubstation []ObjectCount
	err := s.db.Raw(`
		SELECT s.name AS name, COUNT(*) AS count, 'PS' AS type
		FROM outage_event e JOIN substation s ON e.substation_id = s.id
		GROUP BY e.substation_id`).
		Scan(&bySubstation).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by substation: %w", err)
	}

	var byTp []ObjectCount
	err = s.db.Raw(`
		SELECT t.name AS name, COUNT(*) AS count, 'TP' AS type
		FROM outage_event e JOIN tp t ON e.tp_id = t.id
		GROUP BY e.tp_id`).
		Scan(&byTp).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by tp: %w", err)
	}

	merged := append(bySubstation, byTp...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Count > merged[j].Count })
	return merged, nil
}

func (s *AnalyticsService) stats() (*Stats, error) {
	stats := &Stats{}
	if err := s.db.Model(&journal.OutageEvent{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	if err := s.db.Model(&journal.OutageEvent{}).Where("is_completed = 0").Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active events: %w", err)
	}

	var rows []struct {
		Type   string
		Total  int64
		Active int64
	}
	err := s.db.Raw(`
		SELECT type, COUNT(*) AS total, SUM(CASE WHEN is_completed = 0 THEN 1 ELSE 0 END) AS active
		FROM outage_event GROUP BY type`).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by type: %w", err)
	}

	// Emergency and Planned match their labels exactly; the preventive and
	// operative buckets match by containment and accumulate across variant
	// labels.
	for _, row := range rows {
		t := strings.TrimSpace(row.Type)
		switch {
		case t == journal.EventTypeEmergency:
			stats.ByType.Emergency = TypeStat{Total: row.Total, Active: row.Active}
		case t == journal.EventTypePlanned:
			stats.ByType.Planned = TypeStat{Total: row.Total, Active: row.Active}
		}
		if strings.Contains(t, "Preventive") {
			stats.ByType.Preventive.Total += row.Total
			stats.ByType.Preventive.Active += row.Active
		}
		if strings.Contains(t, "Operative") {
			stats.ByType.Operative.Total += row.Total
			stats.ByType.Operative.Active += row.Active
		}
	}
	return stats, nil
}

// timeline folds per-month per-type counts into one point per month,
// chronologically ascending, starting at the fixed epoch.
func (s *AnalyticsService) timeline() ([]TimelinePoint, error) {
	var rows []struct {
		Month string
		Type  string
		Count int64
	}
	err := s.db.Raw(`
		SELECT strftime('%Y-%m', time_start) AS month, type, COUNT(*) AS count
		FROM outage_event WHERE time_start >= ? GROUP BY month, type ORDER BY month`, TimelineEpoch).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate timeline: %w", err)
	}

	points := make([]TimelinePoint, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Month]
		if !ok {
			i = len(points)
			index[row.Month] = i
			points = append(points, TimelinePoint{Date: row.Month})
		}
		t := strings.TrimSpace(row.Type)
		switch t {
		case journal.EventTypeEmergency:
			points[i].Emergency += row.Count
		case journal.EventTypePlanned:
			points[i].Planned += row.Count
		}
	}
	return points, nil
}

// topHazardous merges the cell-level and feeder-level emergency counts,
// sorted descending and truncated.
func (s *AnalyticsService) topHazardous() ([]HazardousObject, error) {
	var cells []HazardousObject
	err := s.db.Raw(`
		SELECT s.name AS substation, c.name AS cell, COUNT(*) AS count, 'PS' AS type
		FROM outage_event e
		JOIN cell c ON e.cell_id = c.id
		JOIN substation s ON e.substation_id = s.id
		WHERE e.type LIKE '%Emergency%' GROUP BY e.cell_id`).
		Scan(&cells).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank hazardous cells: %w", err)
	}

	var feeders []HazardousObject
	err = s.db.Raw(`
		SELECT t.name AS substation, l.name AS cell, COUNT(el.line_id) AS count, 'TP' AS type
		FROM outage_event e
		JOIN event_line el ON e.id = el.event_id
		JOIN line l ON el.line_id = l.id
		JOIN tp t ON e.tp_id = t.id
		WHERE e.type LIKE '%Emergency%'
		GROUP BY l.id, t.id`).
		Scan(&feeders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank hazardous feeders: %w", err)
	}

	merged := append(cells, feeders...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Count > merged[j].Count })
	if len(merged) > TopHazardousLimit {
		merged = merged[:TopHazardousLimit]
	}
	return merged, nil
}
