package api

import "github.com/sigil-dev/sigil/pkg/auth"

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthenticateRequest is the payload for POST /api/v1/auth/authenticate.
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token.
type AuthResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public projection of an identity. It never carries
// credential material.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// NewUserResponse projects an identity into its public representation.
func NewUserResponse(identity *auth.Identity) UserResponse {
	return UserResponse{
		ID:        identity.ID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      string(identity.Role),
	}
}

// MessageResponse wraps a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
