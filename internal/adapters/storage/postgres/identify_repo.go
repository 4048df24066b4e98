package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dog-breed-social/internal/domain/identify"
	"dog-breed-social/internal/domain/posts"
)

type IdentifyRepo struct {
	db *sql.DB
}

func NewIdentifyRepo(db *sql.DB) *IdentifyRepo {
	return &IdentifyRepo{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// resultRow es la forma jsonb de cada resultado.
type resultRow struct {
	Breed      string  `json:"breed"`
	Percentage float64 `json:"percentage"`
	Confidence float64 `json:"confidence"`
}

func encodeResults(rs []identify.Result) ([]byte, error) {
	rows := make([]resultRow, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, resultRow{Breed: r.Breed, Percentage: r.Percentage, Confidence: r.Confidence})
	}
	return json.Marshal(rows)
}

func decodeResults(raw []byte) ([]identify.Result, error) {
	var rows []resultRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	out := make([]identify.Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, identify.Result{Breed: r.Breed, Percentage: r.Percentage, Confidence: r.Confidence})
	}
	return out, nil
}

func insertRecord(ctx context.Context, ex execer, rec identify.Record) error {
	results, err := encodeResults(rec.Results)
	if err != nil {
		return err
	}
	var userID *string
	if rec.UserID != "" {
		userID = &rec.UserID
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO identify_records (
			id, user_id, image_url, results, description, is_public, post_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID,
		nullString(userID),
		rec.ImageURL,
		results,
		rec.Description,
		rec.IsPublic,
		nullString(rec.PostID),
		rec.CreatedAt,
	)
	return err
}

func (r *IdentifyRepo) Create(ctx context.Context, rec identify.Record) error {
	return mapErr(insertRecord(ctx, r.db, rec), "identify record not found")
}

// CreateWithPost: record + post en una transacción.
func (r *IdentifyRepo) CreateWithPost(ctx context.Context, rec identify.Record, p posts.Post) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err, "")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertRecord(ctx, tx, rec); err != nil {
		return mapErr(err, "")
	}
	if err = insertPost(ctx, tx, p); err != nil {
		return mapErr(err, "")
	}
	if err = tx.Commit(); err != nil {
		return mapErr(err, "")
	}
	return nil
}

const recordColumns = `id, user_id, image_url, results, description, is_public, post_id, created_at`

func scanRecord(row rowScanner) (identify.Record, error) {
	var (
		rec     identify.Record
		userID  sql.NullString
		postID  sql.NullString
		results []byte
	)
	if err := row.Scan(
		&rec.ID,
		&userID,
		&rec.ImageURL,
		&results,
		&rec.Description,
		&rec.IsPublic,
		&postID,
		&rec.CreatedAt,
	); err != nil {
		return identify.Record{}, err
	}
	rs, err := decodeResults(results)
	if err != nil {
		return identify.Record{}, err
	}
	rec.Results = rs
	rec.UserID = userID.String
	rec.PostID = stringPtr(postID)
	return rec, nil
}

func (r *IdentifyRepo) GetByID(ctx context.Context, id string) (identify.Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM identify_records WHERE id = $1`, id))
	if err != nil {
		return identify.Record{}, mapErr(err, "identify record not found")
	}
	return rec, nil
}

func (r *IdentifyRepo) ListByUser(ctx context.Context, userID string, limit int) ([]identify.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM identify_records
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, mapErr(err, "")
	}
	defer rows.Close()

	out := make([]identify.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, mapErr(err, "")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "")
	}
	return out, nil
}
