package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fourhand/wifi-remocon/internal/models"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite {
	return &CommandSQLite{db: db}
}

const (
	lastCommandRowID = 1

	upsertCommandSQL = `
		INSERT INTO last_command (id, power, mode, temp, fan, swing, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			power=excluded.power,
			mode=excluded.mode,
			temp=excluded.temp,
			fan=excluded.fan,
			swing=excluded.swing,
			updated_at=excluded.updated_at
	`

	selectCommandSQL = `
		SELECT power, mode, temp, fan, swing FROM last_command WHERE id=?
	`
)

// Save upserts the single last_command row (id always 1).
func (r *CommandSQLite) Save(ctx context.Context, c models.Command) error {
	_, err := r.db.ExecContext(ctx, upsertCommandSQL,
		lastCommandRowID,
		c.Power,
		c.Mode,
		c.Temp,
		c.Fan,
		c.Swing,
		time.Now().UTC(),
	)
	return err
}

// Load fetches the cached command. ok is false when nothing was ever cached.
func (r *CommandSQLite) Load(ctx context.Context) (models.Command, bool, error) {
	row := r.db.QueryRowContext(ctx, selectCommandSQL, lastCommandRowID)

	var c models.Command
	if err := row.Scan(&c.Power, &c.Mode, &c.Temp, &c.Fan, &c.Swing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Command{}, false, nil
		}
		return models.Command{}, false, err
	}
	return c, true, nil
}
