package journal

// OutageReason is one (category, subcategory) pair of the flat two-level
// cause taxonomy. Rows have no identity beyond the pair.
type OutageReason struct {
	BaseModel
	Category    string `gorm:"column:category;type:varchar(255);not null" json:"category"`
	Subcategory string `gorm:"column:subcategory;type:varchar(255);not null" json:"subcategory"`
}

// TableName sets the table name.
func (OutageReason) TableName() string {
	return "outage_reason"
}
