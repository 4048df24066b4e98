package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dog-breed-social/internal/domain/breeds"
)

type BreedsRepo struct {
	db *sql.DB
}

func NewBreedsRepo(db *sql.DB) *BreedsRepo {
	return &BreedsRepo{db: db}
}

const breedColumns = `
	id, name, description, image, category, personality,
	friendliness, energy_level, trainability, grooming_needs, adaptability,
	history, care_needs, health_issues, fun_facts, popularity, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBreed(row rowScanner) (breeds.Breed, error) {
	var (
		b        breeds.Breed
		category string
	)
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.Image,
		&category,
		array(&b.Personality),
		&b.Stats.Friendliness,
		&b.Stats.EnergyLevel,
		&b.Stats.Trainability,
		&b.Stats.GroomingNeeds,
		&b.Stats.Adaptability,
		&b.History,
		&b.CareNeeds,
		&b.HealthIssues,
		array(&b.FunFacts),
		&b.Popularity,
		&b.UpdatedAt,
	)
	if err != nil {
		return breeds.Breed{}, err
	}
	b.Category = breeds.Category(category)
	return b, nil
}

func (r *BreedsRepo) List(ctx context.Context) ([]breeds.Breed, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+breedColumns+` FROM breeds ORDER BY id ASC`)
	if err != nil {
		return nil, mapErr(err, "breed not found")
	}
	defer rows.Close()

	out := make([]breeds.Breed, 0)
	for rows.Next() {
		b, err := scanBreed(rows)
		if err != nil {
			return nil, mapErr(err, "breed not found")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "breed not found")
	}
	return out, nil
}

func (r *BreedsRepo) GetByID(ctx context.Context, id int) (breeds.Breed, error) {
	b, err := scanBreed(r.db.QueryRowContext(ctx, `SELECT `+breedColumns+` FROM breeds WHERE id = $1`, id))
	if err != nil {
		return breeds.Breed{}, mapErr(err, "breed not found")
	}
	return b, nil
}

func (r *BreedsRepo) GetByName(ctx context.Context, name string) (breeds.Breed, error) {
	b, err := scanBreed(r.db.QueryRowContext(ctx,
		`SELECT `+breedColumns+` FROM breeds WHERE lower(name) = lower($1)`, strings.TrimSpace(name)))
	if err != nil {
		return breeds.Breed{}, mapErr(err, "breed not found")
	}
	return b, nil
}

func (r *BreedsRepo) UpdateStats(ctx context.Context, id int, s breeds.Stats, updatedAt time.Time) (breeds.Breed, error) {
	b, err := scanBreed(r.db.QueryRowContext(ctx, `
		UPDATE breeds
		SET
			friendliness = $2,
			energy_level = $3,
			trainability = $4,
			grooming_needs = $5,
			adaptability = $6,
			updated_at = $7
		WHERE id = $1
		RETURNING `+breedColumns,
		id,
		s.Friendliness,
		s.EnergyLevel,
		s.Trainability,
		s.GroomingNeeds,
		s.Adaptability,
		updatedAt,
	))
	if err != nil {
		return breeds.Breed{}, mapErr(err, "breed not found")
	}
	return b, nil
}
