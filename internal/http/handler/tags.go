package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"curio/internal/item"
	"curio/internal/patch"
	"curio/internal/tag"
)

type TagsHandler struct {
	Tags   *tag.Service
	Items  *item.Service
	Logger *zap.SugaredLogger
}

func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	p, err := h.Tags.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagPage(p))
}

func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tags.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagDTO(t))
}

type createTagReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	t, err := h.Tags.Create(r.Context(), tag.CreateTagInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTagDTO(t))
}

type updateTagReq struct {
	Name        *string             `json:"name"`
	Description patch.Field[string] `json:"description"`
	Color       patch.Field[string] `json:"color"`
}

func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tags.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	var req updateTagReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	updated, err := h.Tags.Update(r.Context(), t, tag.TagPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagDTO(updated))
}

func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tags.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted successfully"})
}

// ListItems returns every item carrying the tag, for any caller; item
// ownership does not filter tag-scoped listings.
func (h *TagsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)

	p, err := h.Items.ListByTag(r.Context(), chi.URLParam(r, "id"), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemPage(p))
}
