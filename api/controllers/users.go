package controllers

import (
	"net/http"

	"github.com/dermalink/dermalink-backend/api/responses"
	"github.com/dermalink/dermalink-backend/api/validators"
	"github.com/dermalink/dermalink-backend/internal/users"
	"github.com/dermalink/dermalink-backend/pkg/enums"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UpdateUserRequest is the admin patch for an account. Email is absent by
// design: it cannot change after creation.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SetPasswordRequest replaces an account's password credential.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UsersList returns every account's public fields.
func UsersList(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]*users.UserDTO, 0, len(list))
		for _, user := range list {
			out = append(out, users.FromUser(user))
		}
		responses.WriteSuccess(w, out)
	}
}

// UsersGet returns one account by id.
func UsersGet(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(w, r, logg)
		if !ok {
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		responses.WriteSuccess(w, users.FromUser(user))
	}
}

// UsersUpdate applies an admin patch to an account.
func UsersUpdate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(w, r, logg)
		if !ok {
			return
		}

		var body UpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := users.UpdateUserDTO{
			Name:     body.Name,
			IsActive: body.IsActive,
		}
		if body.Role != nil {
			role, err := enums.ParseUserRole(*body.Role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			patch.Role = &role
		}

		user, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		responses.WriteSuccess(w, users.FromUser(user))
	}
}

// UsersSetPassword hashes and stores a replacement password for an account.
func UsersSetPassword(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(w, r, logg)
		if !ok {
			return
		}

		var body SetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		updated, err := svc.SetPassword(r.Context(), user, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, users.FromUser(updated))
	}
}

// UsersDelete removes an account entirely.
func UsersDelete(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(w, r, logg)
		if !ok {
			return
		}

		deleted, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !deleted {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func parseUserID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
		return uuid.Nil, false
	}
	return id, true
}
