package handler

import (
	"time"

	"curio/internal/auth"
	"curio/internal/item"
	"curio/internal/page"
	"curio/internal/tag"
)

// Public projections. HashedPassword never leaves the auth package boundary.

type userDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserDTO(u *auth.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type itemDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	VideoURL    *string   `json:"video_url"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// singleItemDTO adds the resolved tag links; lists stay flat.
type singleItemDTO struct {
	itemDTO
	TagIDs []string `json:"tag_ids"`
}

func toItemDTO(it *item.Item) itemDTO {
	return itemDTO{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		ImageURL:    it.ImageURL,
		VideoURL:    it.VideoURL,
		OwnerID:     it.OwnerID,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toSingleItemDTO(it *item.Item, tagIDs []string) singleItemDTO {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return singleItemDTO{itemDTO: toItemDTO(it), TagIDs: tagIDs}
}

type tagDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTagDTO(t *tag.Tag) tagDTO {
	return tagDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Color:       t.Color,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toUserPage(p page.Page[auth.User]) page.Page[userDTO] {
	out := page.Page[userDTO]{Data: make([]userDTO, 0, len(p.Data)), Count: p.Count}
	for i := range p.Data {
		out.Data = append(out.Data, toUserDTO(&p.Data[i]))
	}
	return out
}

func toItemPage(p page.Page[item.Item]) page.Page[itemDTO] {
	out := page.Page[itemDTO]{Data: make([]itemDTO, 0, len(p.Data)), Count: p.Count}
	for i := range p.Data {
		out.Data = append(out.Data, toItemDTO(&p.Data[i]))
	}
	return out
}

func toTagPage(p page.Page[tag.Tag]) page.Page[tagDTO] {
	out := page.Page[tagDTO]{Data: make([]tagDTO, 0, len(p.Data)), Count: p.Count}
	for i := range p.Data {
		out.Data = append(out.Data, toTagDTO(&p.Data[i]))
	}
	return out
}
