package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type fakeUserRepo struct {
	users  map[int64]domain.User
	roles  map[int64]domain.Role
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[int64]domain.User),
		roles: map[int64]domain.Role{
			1: {ID: 1, Name: "Admin"},
			2: {ID: 2, Name: "Staff"},
		},
		nextID: 1,
	}
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID int64) (domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if role, ok := r.roles[u.RoleID]; ok {
		u.RoleName = role.Name
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, domain.ErrDuplicateEmail
		}
	}
	id := r.nextID
	r.nextID++
	user.ID = id
	r.users[id] = user
	return id, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, userID int64, params domain.UserUpdate) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if params.Username == nil && params.Email == nil && params.PasswordHash == nil && params.RoleID == nil {
		return domain.ErrNothingToUpdate
	}
	if params.Username != nil {
		u.Username = *params.Username
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	if params.PasswordHash != nil {
		u.PasswordHash = *params.PasswordHash
	}
	if params.RoleID != nil {
		u.RoleID = *params.RoleID
	}
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, userID int64) error {
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func (r *fakeUserRepo) FindRoleByName(_ context.Context, name string) (domain.Role, error) {
	for _, role := range r.roles {
		if strings.EqualFold(role.Name, strings.TrimSpace(name)) {
			return role, nil
		}
	}
	return domain.Role{}, domain.ErrRoleNotFound
}

func (r *fakeUserRepo) GetRole(_ context.Context, roleID int64) (domain.Role, error) {
	role, ok := r.roles[roleID]
	if !ok {
		return domain.Role{}, domain.ErrRoleNotFound
	}
	return role, nil
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password and named role", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
			RoleName: "Staff",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.RoleID != 2 {
			t.Fatalf("expected Staff role id 2, got %d", user.RoleID)
		}
		stored := repo.users[user.ID]
		if stored.PasswordHash == "secret123" {
			t.Fatalf("password must be hashed")
		}
		if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
			t.Fatalf("hash must verify against the original password")
		}
	})

	t.Run("defaults to Admin role", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.RoleID != 1 {
			t.Fatalf("expected Admin role id 1, got %d", user.RoleID)
		}
	})

	t.Run("fails when the default role is missing", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.roles = map[int64]domain.Role{}
		svc := NewUserService(repo)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
		})
		if !errors.Is(err, domain.ErrRoleNotFound) {
			t.Fatalf("expected ErrRoleNotFound, got %v", err)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "abc",
		})
		if !errors.Is(err, domain.ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("rejects unknown role name", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
			RoleName: "Janitor",
		})
		if !errors.Is(err, domain.ErrRoleNotFound) {
			t.Fatalf("expected ErrRoleNotFound, got %v", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		in := RegisterInput{Username: "maria", Email: "maria@example.com", Password: "secret123"}
		if _, err := svc.Register(context.Background(), in); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := svc.Register(context.Background(), in)
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*UserService, *fakeUserRepo) {
		t.Helper()
		repo := newFakeUserRepo()
		svc := NewUserService(repo)
		if _, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
		}); err != nil {
			t.Fatalf("register: %v", err)
		}
		return svc, repo
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, _ := setup(t)

		user, err := svc.Authenticate(context.Background(), "maria@example.com", "secret123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Username != "maria" {
			t.Fatalf("expected maria, got %s", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Authenticate(context.Background(), "maria@example.com", "nope")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Authenticate(context.Background(), "ghost@example.com", "secret123")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*UserService, *fakeUserRepo, int64) {
		t.Helper()
		repo := newFakeUserRepo()
		svc := NewUserService(repo)
		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		return svc, repo, user.ID
	}

	t.Run("updates username and role", func(t *testing.T) {
		svc, _, id := setup(t)

		name := "maria2"
		role := "Staff"
		user, err := svc.UpdateUser(context.Background(), id, UpdateUserInput{
			Username: &name,
			RoleName: &role,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Username != "maria2" || user.RoleID != 2 {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("rehashes changed password", func(t *testing.T) {
		svc, repo, id := setup(t)

		pw := "newsecret"
		if _, err := svc.UpdateUser(context.Background(), id, UpdateUserInput{Password: &pw}); err != nil {
			t.Fatalf("update: %v", err)
		}
		stored := repo.users[id]
		if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")) != nil {
			t.Fatalf("expected new password to verify")
		}
	})

	t.Run("rejects short replacement password", func(t *testing.T) {
		svc, _, id := setup(t)

		pw := "abc"
		_, err := svc.UpdateUser(context.Background(), id, UpdateUserInput{Password: &pw})
		if !errors.Is(err, domain.ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc, _, id := setup(t)

		_, err := svc.UpdateUser(context.Background(), id, UpdateUserInput{})
		if !errors.Is(err, domain.ErrNothingToUpdate) {
			t.Fatalf("expected ErrNothingToUpdate, got %v", err)
		}
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("returns deleted user", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)
		created, err := svc.Register(context.Background(), RegisterInput{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		deleted, err := svc.DeleteUser(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if deleted.Username != "maria" {
			t.Fatalf("expected maria, got %s", deleted.Username)
		}
		if _, ok := repo.users[created.ID]; ok {
			t.Fatalf("expected user removed")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		_, err := svc.DeleteUser(context.Background(), 9)
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
