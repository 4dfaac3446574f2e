package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the pool role carried in a token.
type Role string

const (
	RoleParticipant Role = "participant"
	// RoleAdmin grants the admin capability: picking on behalf of others
	// and running destructive draft and catalog operations.
	RoleAdmin Role = "fpf_admin"
)

// Claims are the JWT claims issued to pool users. Subject is the
// participant id when the user drafts.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Principal is the verified caller attached to a request context.
type Principal struct {
	Subject       string
	ParticipantID *uuid.UUID
	Role          Role
}

// IsAdmin reports whether the principal holds the admin capability.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Anonymous is the principal of an unauthenticated caller.
var Anonymous = Principal{}

func principalFromClaims(c *Claims) Principal {
	p := Principal{Subject: c.Subject, Role: Role(c.Role)}
	if id, err := uuid.Parse(c.Subject); err == nil {
		p.ParticipantID = &id
	}
	return p
}
