package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fourhand/wifi-remocon/internal/models"
)

// CommandRepo caches the last-used command so the panel restores it across
// restarts.
type CommandRepo interface {
	Save(ctx context.Context, c models.Command) error
	Load(ctx context.Context) (models.Command, bool, error)
}

// EventRepo is the append-only operation log with filtered access.
type EventRepo interface {
	Append(ctx context.Context, e models.PanelEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PanelEvent, error)
}

// SettingsRepo persists small operator overrides, e.g. the remote base URL.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Repository struct {
	Command  CommandRepo
	Events   EventRepo
	Settings SettingsRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Command:  NewCommandSQLite(db),
		Events:   NewEventSQLite(db),
		Settings: NewSettingsSQLite(db),
	}
}
