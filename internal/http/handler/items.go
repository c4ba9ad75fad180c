package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"curio/internal/auth"
	"curio/internal/item"
	"curio/internal/patch"
)

type ItemsHandler struct {
	Items  *item.Service
	Logger *zap.SugaredLogger
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r.Context())
	skip, limit := parsePage(r)

	p, err := h.Items.List(r.Context(), caller, skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemPage(p))
}

func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r.Context())

	it, err := h.Items.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	tagIDs, err := h.Items.TagIDs(r.Context(), it.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSingleItemDTO(it, tagIDs))
}

type createItemReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	VideoURL    *string  `json:"video_url"`
	TagIDs      []string `json:"tag_ids"`
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r.Context())

	var req createItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	it, err := h.Items.Create(r.Context(), caller.ID, item.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	tagIDs, err := h.Items.TagIDs(r.Context(), it.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSingleItemDTO(it, tagIDs))
}

type updateItemReq struct {
	Title       *string             `json:"title"`
	Description patch.Field[string] `json:"description"`
	ImageURL    patch.Field[string] `json:"image_url"`
	VideoURL    patch.Field[string] `json:"video_url"`
	TagIDs      *[]string           `json:"tag_ids"`
}

func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r.Context())

	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	it, err := h.Items.Update(r.Context(), caller, chi.URLParam(r, "id"), item.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	tagIDs, err := h.Items.TagIDs(r.Context(), it.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSingleItemDTO(it, tagIDs))
}

func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r.Context())

	if err := h.Items.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}
