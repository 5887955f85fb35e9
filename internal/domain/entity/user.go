package entity

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleDelivery = "delivery"
)

// User representa un usuario del sistema. Username es único sin distinguir mayúsculas.
type User struct {
	ID              string `json:"id"`
	Role            string `json:"role"`
	Username        string `json:"username"`
	PassHash        string `json:"pass_hash"` // bcrypt
	Active          bool   `json:"active"`
	NeedsFirstLogin bool   `json:"needs_first_login"`
	CreatedAt       string `json:"created_at"`
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
