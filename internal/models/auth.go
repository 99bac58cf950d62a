package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the platform roles honoured by this service.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleMentor  UserRole = "MENTOR"
	RoleStudent UserRole = "STUDENT"
)

// CanEditAvailability reports whether the role may change course availability.
func (r UserRole) CanEditAvailability() bool {
	return r == RoleAdmin || r == RoleMentor
}

// JWTClaims represents the access token payload issued by the platform.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor identifies who performed an action, as recorded in audit logs and
// forwarded to the backend.
type Actor struct {
	ID    string
	Role  UserRole
	Token string
	IP    string
}

// ActorFromClaims builds an Actor from validated claims and the raw bearer token.
func ActorFromClaims(claims *JWTClaims, token, ip string) Actor {
	if claims == nil {
		return Actor{Token: token, IP: ip}
	}
	return Actor{ID: claims.UserID, Role: claims.Role, Token: token, IP: ip}
}
