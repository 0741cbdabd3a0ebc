package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse is returned after a successful staff login.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// ErrorResponse carries a human readable failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
