// internal/application/usecase/user_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	userdom "phonemall/internal/domain/user"
)

type UserUsecase struct {
	repo   userdom.Repository
	now    nowFunc
	logger *log.Entry
}

func NewUserUsecase(repo userdom.Repository) *UserUsecase {
	return &UserUsecase{repo: repo, now: utcNow, logger: log.WithField("component", "user_usecase")}
}

// Bootstrap upserts the user document on sign-in. New users start as
// customers; existing users keep their role.
func (u *UserUsecase) Bootstrap(ctx context.Context, uid, email, displayName string) (userdom.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return userdom.User{}, userdom.ErrInvalidID
	}

	existing, err := u.repo.GetByID(ctx, uid)
	switch {
	case errors.Is(err, userdom.ErrNotFound):
		nu, err := userdom.New(uid, email, displayName, u.now())
		if err != nil {
			return userdom.User{}, err
		}
		u.logger.WithField("uid", uid).Info("new user")
		return u.repo.Save(ctx, nu)
	case err != nil:
		return userdom.User{}, err
	}

	if err := existing.SignedIn(email, displayName, u.now()); err != nil {
		return userdom.User{}, err
	}
	return u.repo.Save(ctx, existing)
}

func (u *UserUsecase) GetByID(ctx context.Context, id string) (userdom.User, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

// IsAdmin reports whether the stored user has the admin role. Lookup
// failures count as "not admin".
func (u *UserUsecase) IsAdmin(ctx context.Context, uid string) bool {
	usr, err := u.repo.GetByID(ctx, strings.TrimSpace(uid))
	if err != nil {
		if !errors.Is(err, userdom.ErrNotFound) {
			u.logger.WithError(err).WithField("uid", uid).Warn("admin lookup failed")
		}
		return false
	}
	return usr.IsAdmin()
}

func (u *UserUsecase) List(ctx context.Context, f userdom.Filter, page userdom.Page) (userdom.PageResult, error) {
	return u.repo.List(ctx, f, page)
}

func (u *UserUsecase) SetRole(ctx context.Context, id string, role userdom.Role) (userdom.User, error) {
	usr, err := u.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return userdom.User{}, err
	}
	if err := usr.SetRole(userdom.Role(strings.ToLower(strings.TrimSpace(string(role)))), u.now()); err != nil {
		return userdom.User{}, err
	}
	return u.repo.Save(ctx, usr)
}
