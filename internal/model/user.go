package model

// User roles. A user is either a landlord (publishes listings) or a
// tenant (books them); the two are mutually exclusive.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// User represents an account stored in the database
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName     string `json:"last_name" gorm:"type:varchar(100)"`
	Role         string `json:"role" gorm:"type:varchar(20);not null;index"`
}

// ValidRole reports whether the given role is one the service knows
func ValidRole(role string) bool {
	return role == RoleLandlord || role == RoleTenant
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
