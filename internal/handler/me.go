package handler

import (
	"net/http"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), actorFrom(r).AccountID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.successResponse(w, r, "account loaded", account)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
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

	if err := h.accounts.ChangePassword(r.Context(), actorFrom(r), req.OldPassword, req.NewPassword); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "password updated", nil)
}
