package models

// Credentials holds the material handed to a user exactly once, on registration.
type Credentials struct {
	Username  string `json:"username"`   // Registered username
	Email     string `json:"email"`      // Registered email
	SecretKey string `json:"secret_key"` // Per-user JWT signing secret
	ClientID  string `json:"client_id"`  // Public client identifier
}
