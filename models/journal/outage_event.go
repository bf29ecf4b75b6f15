package journal

import "time"

// Event types as stored in the journal. The per-type statistics match
// Emergency/Planned exactly but Preventive/Operative by containment, so the
// longer labels keep their distinguishing prefix words.
const (
	EventTypeEmergency  = "Emergency"
	EventTypePlanned    = "Planned"
	EventTypeSwitching  = "Operative switching"
	EventTypePreventive = "Preventive measures"

	// EventTypeTopologySwitch marks auto-logged topology switch records.
	EventTypeTopologySwitch = "SWITCHING"
)

// OutageEvent is a record of a de-energization or switching action against
// one or more network assets. An open event has IsCompleted=0 and a nil
// TimeEnd; closing stamps TimeEnd, reopening clears it.
type OutageEvent struct {
	BaseModel
	SubstationID      *int64     `gorm:"column:substation_id;type:bigint;index" json:"substationId"`
	CellID            *int64     `gorm:"column:cell_id;type:bigint;index" json:"cellId"`
	TpID              *int64     `gorm:"column:tp_id;type:bigint;index" json:"tpId"`
	Type              string     `gorm:"column:type;type:varchar(100);not null" json:"type"`
	ReasonCategory    string     `gorm:"column:reason_category;type:varchar(255)" json:"reasonCategory"`
	ReasonSubcategory string     `gorm:"column:reason_subcategory;type:varchar(255)" json:"reasonSubcategory"`
	TimeStart         time.Time  `gorm:"column:time_start;type:datetime;not null" json:"timeStart"`
	TimeEnd           *time.Time `gorm:"column:time_end;type:datetime" json:"timeEnd"`
	MeasuresPlanned   string     `gorm:"column:measures_planned;type:text" json:"measuresPlanned,omitempty"`
	MeasuresTaken     string     `gorm:"column:measures_taken;type:text" json:"measuresTaken,omitempty"`
	DeadlineDate      *Date      `gorm:"column:deadline_date;type:datetime" json:"deadlineDate"`
	Comment           string     `gorm:"column:comment;type:text" json:"comment,omitempty"`
	// IsCompleted is stored as 0/1; DTOs normalize it to bool.
	IsCompleted      int    `gorm:"column:is_completed;type:int;default:0" json:"isCompleted"`
	IsSwitching      int    `gorm:"column:is_switching;type:int;default:0" json:"isSwitching,omitempty"`
	SwitchingDetails string `gorm:"column:switching_details;type:text" json:"switchingDetails,omitempty"`

	Substation *Substation `gorm:"foreignKey:SubstationID" json:"substation,omitempty"`
	Cell       *Cell       `gorm:"foreignKey:CellID" json:"cell,omitempty"`
	Tp         *Tp         `gorm:"foreignKey:TpID" json:"tp,omitempty"`
	EventLines []EventLine `gorm:"foreignKey:EventID" json:"-"`
	EventTps   []EventTp   `gorm:"foreignKey:EventID" json:"-"`
}

// TableName sets the table name.
func (OutageEvent) TableName() string {
	return "outage_event"
}

// Completed reports the normalized completion flag.
func (e *OutageEvent) Completed() bool {
	return e.IsCompleted != 0
}

// EventLine associates an event with one affected feeder line.
type EventLine struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;type:bigint;not null;index" json:"eventId"`
	LineID  int64 `gorm:"column:line_id;type:bigint;not null;index" json:"lineId"`
	Line    Line  `gorm:"foreignKey:LineID" json:"line"`
}

// TableName sets the table name.
func (EventLine) TableName() string {
	return "event_line"
}

// EventTp associates an event with one affected transformer point.
type EventTp struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;type:bigint;not null;index" json:"eventId"`
	TpID    int64 `gorm:"column:tp_id;type:bigint;not null;index" json:"tpId"`
	Tp      Tp    `gorm:"foreignKey:TpID" json:"tp"`
}

// TableName sets the table name.
func (EventTp) TableName() string {
	return "event_tp"
}
