package service

// Shared query fragments and limits.
const (
	// TopHazardousLimit caps the hazardous-feeder ranking returned to the
	// dashboard.
	TopHazardousLimit = 50

	// ReportTopLimit caps the per-report rankings (unreliable substations,
	// feeder frequency).
	ReportTopLimit = 5

	// TimelineEpoch is the first month of the monthly timeline.
	TimelineEpoch = "2025-01-01"
)
