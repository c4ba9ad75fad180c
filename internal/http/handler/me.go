package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"curio/internal/auth"
	"curio/internal/patch"
)

type MeHandler struct {
	Users  *auth.Service
	Logger *zap.SugaredLogger
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

type updateMeReq struct {
	Email    *string             `json:"email"`
	FullName patch.Field[string] `json:"full_name"`
}

func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())

	var req updateMeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	updated, err := h.Users.UpdateUser(r.Context(), u, auth.UserPatch{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(updated))
}

type updatePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *MeHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())

	var req updatePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	if !auth.ComparePassword(u.HashedPassword, req.CurrentPassword) {
		writeDetail(w, http.StatusBadRequest, "incorrect password")
		return
	}

	if _, err := h.Users.UpdateUser(r.Context(), u, auth.UserPatch{
		Password: &req.NewPassword,
	}); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
