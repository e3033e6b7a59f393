package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is an account record. PasswordHash is never rendered in JSON and is
// only populated by the credential-selecting lookup used during login.
type User struct {
	ID           string    `db:"id" json:"id"`
	UserName     string    `db:"user_name" json:"userName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// AccountUpdate is a partial update of an account: a nil field is left
// unchanged, a non-nil field replaces the stored value.
type AccountUpdate struct {
	UserName     *string
	PasswordHash *string
}
