package account

import (
	"time"

	"github.com/google/uuid"
)

// Account lifecycle: absent from the store -> pending activation -> activated.
// There is no transition out of the activated state and rows are never
// deleted. CredentialDigest is immutable after creation.
type Account struct {
	ID               int
	UUID             uuid.UUID
	Email            string `validate:"required,email,max=255"`
	CredentialDigest string `validate:"required"`
	ActivationToken  string
	Activated        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
