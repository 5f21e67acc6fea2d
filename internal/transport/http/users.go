package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// UserService is the surface account-management handlers need.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	UpdateUser(ctx context.Context, userID int64, in app.UpdateUserInput) (domain.User, error)
	DeleteUser(ctx context.Context, userID int64) (domain.User, error)
}

func HandleListUsers(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, newUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleGetUser(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

func HandleListRoles(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := svc.ListRoles(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out := make([]roleResponse, 0, len(roles))
		for _, role := range roles {
			out = append(out, roleResponse{ID: role.ID, Name: role.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleUpdateUser(svc UserService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		var req updateUserRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.UpdateUser(r.Context(), userID, app.UpdateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			RoleName: req.Role,
			RoleID:   req.RoleID,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionUpdate,
			fmt.Sprintf("Updated user %s", user.Username))

		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

func HandleDeleteUser(svc UserService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		user, err := svc.DeleteUser(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionDelete,
			fmt.Sprintf("Deleted user %s", user.Username))

		w.WriteHeader(http.StatusNoContent)
	}
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	RoleID   *int64  `json:"role_id"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	Role     string `json:"role"`
}

func newUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   u.RoleID,
		Role:     u.RoleName,
	}
}

type roleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
