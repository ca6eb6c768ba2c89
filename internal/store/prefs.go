package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// TimerPrefs are a user's saved solo-timer durations, in minutes. They seed
// the client's timer UI; the live room timer is independent of them.
type TimerPrefs struct {
	UserID     string
	Focus      int
	ShortBreak int
	LongBreak  int
	UpdatedAt  time.Time
}

// CreatePrefs inserts the caller's preference row. One row per user.
func (p *Postgres) CreatePrefs(ctx context.Context, userID string, focus, short, long int) (TimerPrefs, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO timer_prefs (user_id, focus, shortbreak, longbreak)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, focus, shortbreak, longbreak, updated_at
	`, userID, focus, short, long)
	return scanPrefs(row)
}

// GetPrefs fetches the caller's preference row.
func (p *Postgres) GetPrefs(ctx context.Context, userID string) (TimerPrefs, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT user_id, focus, shortbreak, longbreak, updated_at
		FROM timer_prefs
		WHERE user_id = $1
	`, userID)
	return scanPrefs(row)
}

// UpdatePrefs overwrites the caller's durations and returns the new row.
func (p *Postgres) UpdatePrefs(ctx context.Context, userID string, focus, short, long int) (TimerPrefs, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE timer_prefs
		SET focus = $2, shortbreak = $3, longbreak = $4, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, focus, shortbreak, longbreak, updated_at
	`, userID, focus, short, long)
	return scanPrefs(row)
}

func scanPrefs(row pgx.Row) (TimerPrefs, error) {
	var t TimerPrefs
	if err := row.Scan(&t.UserID, &t.Focus, &t.ShortBreak, &t.LongBreak, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TimerPrefs{}, ErrNotFound
		}
		return TimerPrefs{}, err
	}
	return t, nil
}
