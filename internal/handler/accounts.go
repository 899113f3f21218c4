package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// ListAccounts accepts optional ?role= and ?active= filters.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if v := r.URL.Query().Get("role"); v != "" {
		rl := domain.Role(v)
		if !rl.Valid() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid role")
			return
		}
		role = &rl
	}

	var active *bool
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid active filter")
			return
		}
		active = &b
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), actorFrom(r), role, active)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "accounts loaded", accounts)
}

func (h *Handler) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid account id")
		return
	}

	account, err := h.accounts.Approve(r.Context(), actorFrom(r), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "account approved", account)
}

func (h *Handler) ResetAccountPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), actorFrom(r), req.Email, req.NewPassword); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "password reset", nil)
}
