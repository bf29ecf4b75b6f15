package journal

// Tp is a transformer point, a secondary distribution node optionally fed by
// a line. FeederID tracks the current feed, NormalFeederID the default one.
type Tp struct {
	BaseModel
	Name           string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	VoltageClass   string `gorm:"column:voltage_class;type:varchar(50)" json:"voltageClass,omitempty"`
	Capacity       string `gorm:"column:capacity;type:varchar(50)" json:"capacity,omitempty"`
	FeederID       *int64 `gorm:"column:feeder_id;type:bigint" json:"feederId"`
	NormalFeederID *int64 `gorm:"column:normal_feeder_id;type:bigint" json:"normalFeederId"`
}

// TableName sets the table name.
func (Tp) TableName() string {
	return "tp"
}
