package models

type AuthLoginBody struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthLoginResponse is the backend answer to a credential exchange.
type AuthLoginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

const RoleAdmin = "admin"
