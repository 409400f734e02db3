package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	userdom "phonemall/internal/domain/user"
)

// UserRepositoryFS stores users in "users", docId = Firebase uid.
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

var _ userdom.Repository = (*UserRepositoryFS)(nil)

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

type userDoc struct {
	Email        string    `firestore:"email"`
	DisplayName  string    `firestore:"displayName"`
	Role         string    `firestore:"role"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
	LastSignInAt time.Time `firestore:"lastSignInAt"`
}

func userFromSnapshot(snap *firestore.DocumentSnapshot) (userdom.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return userdom.User{}, fmt.Errorf("user %s: %w", snap.Ref.ID, err)
	}
	role := userdom.Role(d.Role)
	if !role.Valid() {
		role = userdom.RoleCustomer
	}
	return userdom.User{
		ID:           snap.Ref.ID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		Role:         role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		LastSignInAt: d.LastSignInAt,
	}, nil
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (userdom.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return userdom.User{}, userdom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return userdom.User{}, userdom.ErrNotFound
	}
	if err != nil {
		return userdom.User{}, err
	}
	return userFromSnapshot(snap)
}

func (r *UserRepositoryFS) List(ctx context.Context, f userdom.Filter, page userdom.Page) (userdom.PageResult, error) {
	q := r.col().Query
	if f.Role != "" {
		q = q.Where("role", "==", string(f.Role))
	}
	email := strings.ToLower(strings.TrimSpace(f.Email))

	it := q.Documents(ctx)
	defer it.Stop()

	var all []userdom.User
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return userdom.PageResult{}, fmt.Errorf("users: list: %w", err)
		}
		u, err := userFromSnapshot(snap)
		if err != nil {
			return userdom.PageResult{}, err
		}
		if email != "" && !strings.Contains(u.Email, email) {
			continue
		}
		all = append(all, u)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), nil
}

func (r *UserRepositoryFS) Save(ctx context.Context, u userdom.User) (userdom.User, error) {
	if strings.TrimSpace(u.ID) == "" {
		return userdom.User{}, userdom.ErrInvalidID
	}
	_, err := r.col().Doc(u.ID).Set(ctx, userDoc{
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
		LastSignInAt: u.LastSignInAt.UTC(),
	})
	if err != nil {
		return userdom.User{}, err
	}
	return u, nil
}
