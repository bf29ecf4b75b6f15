package journal

// Operator roles, least to most privileged.
const (
	RoleReader = "READER"
	RoleEditor = "EDITOR"
	RoleSenior = "SENIOR"
	RoleAdmin  = "ADMIN"
)

// User is an operator account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	BaseModel
	Username string `gorm:"column:username;type:varchar(100);not null;uniqueIndex" json:"username"`
	Password string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Name     string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Role     string `gorm:"column:role;type:varchar(20);not null" json:"role"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "user"
}
