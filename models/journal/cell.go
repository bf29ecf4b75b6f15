package journal

// Cell is a switchable bay within a substation. The substation reference is
// set at creation and never re-parented.
type Cell struct {
	BaseModel
	Name         string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	VoltageClass string `gorm:"column:voltage_class;type:varchar(50)" json:"voltageClass,omitempty"`
	SubstationID int64  `gorm:"column:substation_id;type:bigint;not null;index" json:"substationId"`
}

// TableName sets the table name.
func (Cell) TableName() string {
	return "cell"
}
