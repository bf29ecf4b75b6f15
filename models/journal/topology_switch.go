package journal

// Switchable object types.
const (
	SwitchObjectTp   = "TP"
	SwitchObjectLine = "LINE"
)

// TopologySwitch records a single re-parenting of a TP or a line to a new
// source, together with the journal event logged for it.
type TopologySwitch struct {
	BaseModel
	ObjectID     int64  `gorm:"column:object_id;type:bigint;not null" json:"objectId"`
	ObjectType   string `gorm:"column:object_type;type:varchar(20);not null" json:"objectType"`
	FromSourceID *int64 `gorm:"column:from_source_id;type:bigint" json:"fromSourceId"`
	ToSourceID   *int64 `gorm:"column:to_source_id;type:bigint" json:"toSourceId"`
	EventID      int64  `gorm:"column:event_id;type:bigint" json:"eventId"`
}

// TableName sets the table name.
func (TopologySwitch) TableName() string {
	return "topology_switch"
}
