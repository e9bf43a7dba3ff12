package types

// SendCodeRequest represents the verification code request payload
type SendCodeRequest struct {
	Phone string `json:"phone"`
}

// SendCodeData is returned by the send-code endpoint.
// Code is only echoed back by development servers.
type SendCodeData struct {
	Code string `json:"code,omitempty"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// User represents user information
type User struct {
	Phone string `json:"phone"`
}

// LoginData represents the data returned after successful login
type LoginData struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
