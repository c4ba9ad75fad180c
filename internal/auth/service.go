package auth

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

// Service owns every read/write against the users table, including the
// cascade that removes a user's items and their tag links.
type Service struct {
	DB *gorm.DB
}

type CreateUserInput struct {
	Email       string
	Password    string
	FullName    *string
	IsActive    bool
	IsSuperuser bool
}

// UserPatch applies exclude-unset semantics: nil pointers and unset fields
// leave the stored value untouched.
type UserPatch struct {
	Email       *string
	Password    *string
	FullName    patch.Field[string]
	IsActive    *bool
	IsSuperuser *bool
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" || len(email) > 255 || !strings.Contains(email, "@") {
		return apperr.Validation("email", "invalid email address")
	}
	return nil
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrConflict
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:             uuid.NewString(),
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       in.IsActive,
		IsSuperuser:    in.IsSuperuser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, u *User, p UserPatch) (*User, error) {
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != u.Email {
			existing, err := s.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.ErrConflict
			}
		}
		u.Email = email
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u.HashedPassword = hash
	}
	if p.FullName.Set {
		u.FullName = p.FullName.Ptr()
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsSuperuser != nil {
		u.IsSuperuser = *p.IsSuperuser
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate fails closed: wrong password and unknown email both yield
// (nil, nil), never an error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !ComparePassword(u.HashedPassword, password) {
		return nil, nil
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) (page.Page[User], error) {
	skip, limit = page.Normalize(skip, limit)

	var out page.Page[User]
	if err := s.DB.WithContext(ctx).Model(&User{}).Count(&out.Count).Error; err != nil {
		return out, err
	}
	err := s.DB.WithContext(ctx).
		Order("created_at asc").
		Offset(skip).Limit(limit).
		Find(&out.Data).Error
	return out, err
}

// DeleteUser removes the user together with every owned item and that item's
// tag links, all in one transaction.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if err := tx.Exec(
			`delete from item_tags where item_id in (select id from items where owner_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`delete from items where owner_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
}
