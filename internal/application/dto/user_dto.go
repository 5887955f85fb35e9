package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse usuario expuesto por la API (sin hash).
type UserResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	Active          bool   `json:"active"`
	NeedsFirstLogin bool   `json:"needs_first_login"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
