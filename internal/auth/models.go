package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kisaansetu/mandi-api/internal/types"
)

// SignupRequest carries the fields required to register an account
type SignupRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"` // farmer or buyer
	Location string `json:"location"`
}

// LoginRequest carries mobile/password credentials
type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful signup or login
type TokenResponse struct {
	Token      string         `json:"token"`
	Expiration time.Time      `json:"expiration"`
	Account    *types.Account `json:"account"`
}

// Claims represents the JWT claims structure
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
