// Package db builds the store handle. The backend is picked exactly once from
// the explicit Config: a remote Postgres DSN when configured, a local SQLite
// file otherwise. Nothing re-inspects the environment afterwards.
package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"curio/internal/apperr"
	"curio/internal/auth"
	"curio/internal/config"
	"curio/internal/item"
	"curio/internal/tag"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	if cfg.DatabaseURL != "" {
		dial = postgres.Open(cfg.DatabaseURL)
	} else {
		// modernc.org/sqlite registers itself as "sqlite"; foreign keys are
		// off by default in SQLite and must be switched on per connection.
		dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", cfg.SQLitePath)
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&auth.User{},
		&tag.Tag{},
		&item.Item{},
		&item.ItemTag{},
	); err != nil {
		return err
	}

	// Helpful indexes beyond what the struct tags declare. Portable SQL only:
	// the same statements must run on SQLite and Postgres.
	stmts := []string{
		`create index if not exists idx_items_owner_created on items(owner_id, created_at desc);`,
		`create index if not exists idx_item_tags_tag on item_tags(tag_id);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

// EnsureFirstSuperuser creates the bootstrap superuser on first start. A
// later start with the user already present is a no-op.
func EnsureFirstSuperuser(ctx context.Context, gdb *gorm.DB, cfg config.Config) error {
	if cfg.FirstSuperuserEmail == "" {
		return nil
	}

	users := &auth.Service{DB: gdb}
	_, err := users.GetByEmail(ctx, cfg.FirstSuperuserEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	_, err = users.CreateUser(ctx, auth.CreateUserInput{
		Email:       cfg.FirstSuperuserEmail,
		Password:    cfg.FirstSuperuserPassword,
		IsActive:    true,
		IsSuperuser: true,
	})
	return err
}
