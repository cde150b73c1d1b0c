// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/internal/platform/sec"
	"github.com/phamduc/sachly/internal/users/account"
	"github.com/phamduc/sachly/internal/users/auth"
	"github.com/phamduc/sachly/pkg/pagination"
)

// # Test Doubles

// stubAccountRepo is an in-memory AccountRepository for service tests.
type stubAccountRepo struct {
	users map[string]*auth.User // keyed by ID

	createErr error
	avatarURL string // last avatar URL persisted
}

func newStubAccountRepo(users ...*auth.User) *stubAccountRepo {
	repo := &stubAccountRepo{users: make(map[string]*auth.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubAccountRepo) Create(_ context.Context, user *auth.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return dberr.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *stubAccountRepo) List(_ context.Context, filter account.ListFilter, limit, offset int) ([]*auth.User, int, error) {
	matched := []*auth.User{}
	for _, u := range r.users {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.Name != "" &&
			!strings.Contains(u.Username, filter.Name) &&
			!strings.Contains(u.FullName, filter.Name) {
			continue
		}
		matched = append(matched, u)
	}

	total := len(matched)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *stubAccountRepo) Update(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubAccountRepo) UpdateAvatar(_ context.Context, userID, avatarURL string) error {
	r.avatarURL = avatarURL
	if u, ok := r.users[userID]; ok {
		u.AvatarURL = avatarURL
	}
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

// stubFileStore records saves; it can be told to fail.
type stubFileStore struct {
	saveErr error
	saved   []string
}

func (s *stubFileStore) Save(subDir, filename string, _ io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/static/" + subDir + "/" + filename
	s.saved = append(s.saved, url)
	return url, nil
}

func newTestService(repo *stubAccountRepo, files *stubFileStore) *account.Service {
	return account.NewService(repo, files, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Registration

/*
TestService_Register verifies password hashing and role assignment.
*/
func TestService_Register(t *testing.T) {
	repo := newStubAccountRepo()
	service := newTestService(repo, &stubFileStore{})

	user, err := service.Register(context.Background(), account.RegisterInput{
		Username: "ducpham",
		Email:    "duc.pham@sachly.vn",
		Password: "super-secret-1",
		FullName: "Duc Pham",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)

	// The stored hash must verify but never equal the plain text
	assert.NotEqual(t, "super-secret-1", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("super-secret-1", user.PasswordHash))
}

/*
TestService_Register_DuplicateUsername verifies unique-violation mapping to 409.
*/
func TestService_Register_DuplicateUsername(t *testing.T) {
	existing := &auth.User{ID: "user-1", Username: "ducpham", Role: sec.RoleUser}
	repo := newStubAccountRepo(existing)
	service := newTestService(repo, &stubFileStore{})

	_, err := service.Register(context.Background(), account.RegisterInput{
		Username: "ducpham",
		Password: "super-secret-1",
		FullName: "Another Duc",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

// # Deletion

/*
TestService_Delete_Idempotent verifies repeated deletion reports already-removed.
*/
func TestService_Delete_Idempotent(t *testing.T) {
	existing := &auth.User{ID: "user-1", Username: "ducpham", Role: sec.RoleUser}
	repo := newStubAccountRepo(existing)
	service := newTestService(repo, &stubFileStore{})

	// First delete removes the row
	removed, err := service.Delete(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, removed)

	// Second delete succeeds and reports nothing removed
	removed, err = service.Delete(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, removed)

	// Deleting a never-existing account behaves the same way
	removed, err = service.Delete(context.Background(), "no-such-user")
	require.NoError(t, err)
	assert.False(t, removed)
}

// # Avatar Upload

/*
TestService_UpdateAvatar verifies the write-then-update ordering.
*/
func TestService_UpdateAvatar(t *testing.T) {
	existing := &auth.User{ID: "user-1", Username: "ducpham", Role: sec.RoleUser}
	repo := newStubAccountRepo(existing)
	files := &stubFileStore{}
	service := newTestService(repo, files)

	url, err := service.UpdateAvatar(context.Background(), "user-1", "photo.png", strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, "/static/avatar/photo.png", url)
	assert.Equal(t, url, repo.avatarURL)
	assert.Equal(t, url, repo.users["user-1"].AvatarURL)
}

/*
TestService_UpdateAvatar_WriteFailure verifies a failed write never touches
the account record.
*/
func TestService_UpdateAvatar_WriteFailure(t *testing.T) {
	existing := &auth.User{ID: "user-1", Username: "ducpham", AvatarURL: "/static/avatar/old.png", Role: sec.RoleUser}
	repo := newStubAccountRepo(existing)
	files := &stubFileStore{saveErr: errors.New("disk full")}
	service := newTestService(repo, files)

	_, err := service.UpdateAvatar(context.Background(), "user-1", "photo.png", strings.NewReader("img"))
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STORAGE_IO", ae.Code)

	// The previous avatar URL must be untouched
	assert.Equal(t, "/static/avatar/old.png", repo.users["user-1"].AvatarURL)
}

// # Listing

/*
TestService_List verifies filter plumbing and profile projection.
*/
func TestService_List(t *testing.T) {
	repo := newStubAccountRepo(
		&auth.User{ID: "user-1", Username: "ducpham", FullName: "Duc Pham", Role: sec.RoleUser, PasswordHash: "x"},
		&auth.User{ID: "user-2", Username: "admin", FullName: "Site Admin", Role: sec.RoleAdmin, PasswordHash: "y"},
	)
	service := newTestService(repo, &stubFileStore{})

	params := pagination.Params{Page: 1, Limit: 20}
	profiles, meta, err := service.List(context.Background(), account.ListFilter{Role: "admin"}, params)
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Equal(t, "admin", profiles[0].Username)
	assert.Equal(t, 1, meta.Total)
}
