package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds credentials for creating a portal account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// AuthClaims is the payload of the identity token carried by the
// http-only cookie. The registered subject is the numeric user id.
type AuthClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}
