package item

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"curio/internal/apperr"
	"curio/internal/auth"
	"curio/internal/page"
	"curio/internal/patch"
	"curio/internal/tag"
)

type Service struct {
	DB *gorm.DB
}

type CreateItemInput struct {
	Title       string
	Description *string
	ImageURL    *string
	VideoURL    *string
	TagIDs      []string
}

// ItemPatch applies exclude-unset semantics. TagIDs nil means "leave the tag
// set alone"; an empty slice clears every link.
type ItemPatch struct {
	Title       *string
	Description patch.Field[string]
	ImageURL    patch.Field[string]
	VideoURL    patch.Field[string]
	TagIDs      *[]string
}

func validateTitle(title string) error {
	if title == "" || len(title) > 255 {
		return apperr.Validation("title", "must be 1-255 characters")
	}
	return nil
}

func validateOptional(field string, v *string, max int) error {
	if v != nil && len(*v) > max {
		return apperr.Validation(field, "too long")
	}
	return nil
}

// Create persists the item first, then links each tag id that resolves to an
// existing tag. Unknown tag ids are dropped without error. Both steps commit
// or roll back together.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateItemInput) (*Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateOptional("description", in.Description, 255); err != nil {
		return nil, err
	}
	if err := validateOptional("image_url", in.ImageURL, 2048); err != nil {
		return nil, err
	}
	if err := validateOptional("video_url", in.VideoURL, 2048); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	it := &Item{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		VideoURL:    in.VideoURL,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(it).Error; err != nil {
			return err
		}
		return linkTags(tx, it.ID, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) getByID(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (s *Service) Get(ctx context.Context, caller *auth.User, id string) (*Item, error) {
	it, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Existence is confirmed first; a missing item and a forbidden item are
	// distinct failures.
	if !caller.CanModifyOwned(it.OwnerID) {
		return nil, apperr.ErrPermissionDenied
	}
	return it, nil
}

func (s *Service) Update(ctx context.Context, caller *auth.User, id string, p ItemPatch) (*Item, error) {
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if err := validateTitle(*p.Title); err != nil {
			return nil, err
		}
	}
	if p.Description.Set {
		if err := validateOptional("description", p.Description.Ptr(), 255); err != nil {
			return nil, err
		}
	}
	if p.ImageURL.Set {
		if err := validateOptional("image_url", p.ImageURL.Ptr(), 2048); err != nil {
			return nil, err
		}
	}
	if p.VideoURL.Set {
		if err := validateOptional("video_url", p.VideoURL.Ptr(), 2048); err != nil {
			return nil, err
		}
	}

	var out *Item
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it Item
		if err := tx.Where("id = ?", id).First(&it).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if !caller.CanModifyOwned(it.OwnerID) {
			return apperr.ErrPermissionDenied
		}

		if p.Title != nil {
			it.Title = *p.Title
		}
		if p.Description.Set {
			it.Description = p.Description.Ptr()
		}
		if p.ImageURL.Set {
			it.ImageURL = p.ImageURL.Ptr()
		}
		if p.VideoURL.Set {
			it.VideoURL = p.VideoURL.Ptr()
		}
		it.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&it).Error; err != nil {
			return err
		}

		// Full replace: drop every existing link, then re-resolve the given
		// set. Absent TagIDs leaves links untouched.
		if p.TagIDs != nil {
			if err := tx.Where("item_id = ?", it.ID).Delete(&ItemTag{}).Error; err != nil {
				return err
			}
			if err := linkTags(tx, it.ID, *p.TagIDs); err != nil {
				return err
			}
		}

		out = &it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, caller *auth.User, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it Item
		if err := tx.Where("id = ?", id).First(&it).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if !caller.CanModifyOwned(it.OwnerID) {
			return apperr.ErrPermissionDenied
		}
		if err := tx.Where("item_id = ?", it.ID).Delete(&ItemTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&it).Error
	})
}

// List pages the caller's items newest-first. Superusers see every item; the
// count always matches the page's filter.
func (s *Service) List(ctx context.Context, caller *auth.User, skip, limit int) (page.Page[Item], error) {
	skip, limit = page.Normalize(skip, limit)

	q := s.DB.WithContext(ctx).Model(&Item{})
	if !caller.IsSuperuser {
		q = q.Where("owner_id = ?", caller.ID)
	}

	var out page.Page[Item]
	if err := q.Session(&gorm.Session{}).Count(&out.Count).Error; err != nil {
		return out, err
	}
	err := q.Session(&gorm.Session{}).
		Order("created_at desc").
		Offset(skip).Limit(limit).
		Find(&out.Data).Error
	return out, err
}

// ListByTag returns every item carrying the tag, regardless of owner. The
// count uses the same join predicate as the page.
func (s *Service) ListByTag(ctx context.Context, tagID string, skip, limit int) (page.Page[Item], error) {
	skip, limit = page.Normalize(skip, limit)

	var out page.Page[Item]

	var t tag.Tag
	if err := s.DB.WithContext(ctx).Where("id = ?", tagID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, apperr.ErrNotFound
		}
		return out, err
	}

	join := s.DB.WithContext(ctx).Model(&Item{}).
		Joins("join item_tags on item_tags.item_id = items.id").
		Where("item_tags.tag_id = ?", tagID)

	if err := join.Session(&gorm.Session{}).Count(&out.Count).Error; err != nil {
		return out, err
	}
	err := join.Session(&gorm.Session{}).
		Order("items.created_at desc").
		Offset(skip).Limit(limit).
		Find(&out.Data).Error
	return out, err
}

// TagIDs returns the item's current tag links.
func (s *Service) TagIDs(ctx context.Context, itemID string) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Model(&ItemTag{}).
		Where("item_id = ?", itemID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

// linkTags inserts one join row per tag id that exists. Missing ids are
// skipped silently; duplicate ids in the input collapse to one row.
func linkTags(tx *gorm.DB, itemID string, tagIDs []string) error {
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		var t tag.Tag
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := tx.Create(&ItemTag{ItemID: itemID, TagID: t.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
