package journal

// Line types.
const (
	LineTypeOverhead = "Overhead"
	LineTypeCable    = "Cable"
)

// Line is a feeder: a cable or overhead conductor fed from a cell or a
// transformer point. Source pointers are mutually exclusive; the normal-source
// pair records the default topology independent of the current switching
// state.
type Line struct {
	BaseModel
	Name               string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	VoltageClass       string `gorm:"column:voltage_class;type:varchar(50)" json:"voltageClass,omitempty"`
	LineType           string `gorm:"column:line_type;type:varchar(50)" json:"lineType,omitempty"`
	SourceCellID       *int64 `gorm:"column:source_cell_id;type:bigint" json:"sourceCellId"`
	SourceTpID         *int64 `gorm:"column:source_tp_id;type:bigint" json:"sourceTpId"`
	NormalSourceCellID *int64 `gorm:"column:normal_source_cell_id;type:bigint" json:"normalSourceCellId"`
	NormalSourceTpID   *int64 `gorm:"column:normal_source_tp_id;type:bigint" json:"normalSourceTpId"`
}

// TableName sets the table name.
func (Line) TableName() string {
	return "line"
}
