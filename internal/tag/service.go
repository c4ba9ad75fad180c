package tag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"curio/internal/apperr"
	"curio/internal/page"
	"curio/internal/patch"
)

type Service struct {
	DB *gorm.DB
}

type CreateTagInput struct {
	Name        string
	Description *string
	Color       *string
}

// TagPatch applies exclude-unset semantics. Description and Color accept an
// explicit null to clear the stored value.
type TagPatch struct {
	Name        *string
	Description patch.Field[string]
	Color       patch.Field[string]
}

func validateName(name string) error {
	if name == "" || len(name) > 50 {
		return apperr.Validation("name", "must be 1-50 characters")
	}
	return nil
}

func validateOptional(field string, v *string, max int) error {
	if v != nil && len(*v) > max {
		return apperr.Validation(field, "too long")
	}
	return nil
}

// Create pre-checks name uniqueness explicitly before the write; the store's
// unique index is only a backstop.
func (s *Service) Create(ctx context.Context, in CreateTagInput) (*Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateOptional("description", in.Description, 255); err != nil {
		return nil, err
	}
	if err := validateOptional("color", in.Color, 7); err != nil {
		return nil, err
	}

	existing, err := s.GetByName(ctx, in.Name)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrConflict
	}

	now := time.Now().UTC()
	t := &Tag{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, t *Tag, p TagPatch) (*Tag, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		// Renaming to the current name is not a conflict.
		if name != t.Name {
			existing, err := s.GetByName(ctx, name)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.ErrConflict
			}
		}
		t.Name = name
	}
	if p.Description.Set {
		if err := validateOptional("description", p.Description.Ptr(), 255); err != nil {
			return nil, err
		}
		t.Description = p.Description.Ptr()
	}
	if p.Color.Set {
		if err := validateOptional("color", p.Color.Ptr(), 7); err != nil {
			return nil, err
		}
		t.Color = p.Color.Ptr()
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.DB.WithContext(ctx).Save(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Tag, error) {
	var t Tag
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*Tag, error) {
	var t Tag
	err := s.DB.WithContext(ctx).Where("name = ?", name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the tag and its item links. Items themselves are untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Tag
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if err := tx.Exec(`delete from item_tags where tag_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

func (s *Service) List(ctx context.Context, skip, limit int) (page.Page[Tag], error) {
	skip, limit = page.Normalize(skip, limit)

	var out page.Page[Tag]
	if err := s.DB.WithContext(ctx).Model(&Tag{}).Count(&out.Count).Error; err != nil {
		return out, err
	}
	err := s.DB.WithContext(ctx).
		Order("name asc").
		Offset(skip).Limit(limit).
		Find(&out.Data).Error
	return out, err
}
