package repository

import (
	"context"
	"errors"

	"github.com/deliverymx/user-service/internal/domain/entity"
)

// ErrDuplicateEmail reports that storage refused a Save because another
// active account already holds the email. The use-case duplicate check
// is racy; this is the storage-level backstop surfacing through the port.
var ErrDuplicateEmail = errors.New("email is already held by an active account")

// UserRepository is the port the use cases save and load aggregates
// through. Save is an upsert by identity and must persist the full
// current state, address list and active flag included. Find methods
// return (nil, nil) when no record matches. Ordering of FindAll is not
// guaranteed; callers needing active-only lists filter themselves.
type UserRepository interface {
	Save(ctx context.Context, u entity.User) (entity.User, error)
	FindByID(ctx context.Context, id string) (entity.User, error)
	FindByEmail(ctx context.Context, email string) (entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)
}
