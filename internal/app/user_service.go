package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (int64, error)
	UpdateUser(ctx context.Context, userID int64, params domain.UserUpdate) error
	DeleteUser(ctx context.Context, userID int64) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (domain.Role, error)
	GetRole(ctx context.Context, roleID int64) (domain.Role, error)
}

const minPasswordLength = 6

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *UserService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	RoleName string
	RoleID   *int64
}

// Register creates an account. The role may be given by id or by name; when
// neither is present the Admin role is assumed, falling back to the first
// role id.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if len(in.Password) < minPasswordLength {
		return domain.User{}, domain.ErrWeakPassword
	}

	roleID, err := s.resolveRoleID(ctx, in.RoleName, in.RoleID)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	id, err := s.repo.CreateUser(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       roleID,
	})
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) resolveRoleID(ctx context.Context, roleName string, roleID *int64) (int64, error) {
	if roleID != nil {
		role, err := s.repo.GetRole(ctx, *roleID)
		if err != nil {
			return 0, err
		}
		return role.ID, nil
	}
	if strings.TrimSpace(roleName) != "" {
		role, err := s.repo.FindRoleByName(ctx, roleName)
		if err != nil {
			return 0, err
		}
		return role.ID, nil
	}
	role, err := s.repo.FindRoleByName(ctx, "Admin")
	if err != nil {
		return 0, err
	}
	return role.ID, nil
}

// Authenticate checks a login against the stored bcrypt hash. It returns
// ErrInvalidCredentials for both unknown emails and wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	RoleName *string
	RoleID   *int64
}

func (s *UserService) UpdateUser(ctx context.Context, userID int64, in UpdateUserInput) (domain.User, error) {
	params := domain.UserUpdate{}

	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		trimmed := strings.TrimSpace(*in.Username)
		params.Username = &trimmed
	}
	if in.Email != nil {
		params.Email = in.Email
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < minPasswordLength {
			return domain.User{}, domain.ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		hashed := string(hash)
		params.PasswordHash = &hashed
	}
	if in.RoleName != nil {
		role, err := s.repo.FindRoleByName(ctx, *in.RoleName)
		if err != nil {
			return domain.User{}, err
		}
		params.RoleID = &role.ID
	}
	if in.RoleID != nil {
		role, err := s.repo.GetRole(ctx, *in.RoleID)
		if err != nil {
			return domain.User{}, err
		}
		params.RoleID = &role.ID
	}

	if err := s.repo.UpdateUser(ctx, userID, params); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetUser(ctx, userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
