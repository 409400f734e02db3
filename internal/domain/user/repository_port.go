package user

import (
	"context"
	"errors"

	common "phonemall/internal/domain/common"
)

type Filter struct {
	Role  Role
	Email string
}

type Page = common.Page
type PageResult = common.PageResult[User]

// Repository is the persistence port for users (Firestore "users", docId=uid).
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, filter Filter, page Page) (PageResult, error)
	// Save creates or overwrites the document with u.ID.
	Save(ctx context.Context, u User) (User, error)
}

var ErrNotFound = errors.New("user: not found")
