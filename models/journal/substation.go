package journal

// Substation is a top-level network site owning a set of switchable cells.
type Substation struct {
	BaseModel
	Name         string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	VoltageClass string `gorm:"column:voltage_class;type:varchar(50)" json:"voltageClass,omitempty"`
	District     string `gorm:"column:district;type:varchar(255)" json:"district,omitempty"`
	Cells        []Cell `gorm:"foreignKey:SubstationID" json:"cells"`
}

// TableName sets the table name.
func (Substation) TableName() string {
	return "substation"
}
