package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/ports/backend"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `id, email, name, avatar_url, bio, email_notifications, theme, created_at, updated_at`

func (r *ProfilesRepo) Create(ctx context.Context, p accounts.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+profileColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.Email,
		p.Name,
		nullString(p.AvatarURL),
		p.Bio,
		p.Settings.EmailNotifications,
		string(p.Settings.Theme),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err, "profile not found")
}

func (r *ProfilesRepo) Update(ctx context.Context, p accounts.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			name = $2,
			avatar_url = $3,
			bio = $4,
			email_notifications = $5,
			theme = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		nullString(p.AvatarURL),
		p.Bio,
		p.Settings.EmailNotifications,
		string(p.Settings.Theme),
		p.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "profile not found")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return backend.NotFound("profile not found")
	}
	return nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (accounts.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accounts.Profile{}, backend.NotFound("profile not found")
	}
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
}

func (r *ProfilesRepo) GetByEmail(ctx context.Context, email string) (accounts.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *ProfilesRepo) getOne(ctx context.Context, q string, arg string) (accounts.Profile, error) {
	var (
		p      accounts.Profile
		avatar sql.NullString
		theme  string
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&avatar,
		&p.Bio,
		&p.Settings.EmailNotifications,
		&theme,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return accounts.Profile{}, mapErr(err, "profile not found")
	}
	p.AvatarURL = stringPtr(avatar)
	p.Settings.Theme = accounts.Theme(theme)
	return p, nil
}
