package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the owning principal for sessions and artifacts. Credential
// issuance lives in the identity service; this backend only trusts the
// id delivered by the JWT middleware.
type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	CreatedAt time.Time
}
