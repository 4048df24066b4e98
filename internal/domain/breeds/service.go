package breeds

import (
	"context"
	"fmt"
	"time"

	"dog-breed-social/internal/platform/query"
	"dog-breed-social/internal/platform/validate"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type ListInput struct {
	Filter Filter
	Sort   SortKey
	Order  query.Order
}

func (s *Service) List(ctx context.Context, in ListInput) ([]Breed, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Sort(Apply(all, in.Filter), in.Sort, in.Order), nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Breed, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (Breed, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) UpdateStats(ctx context.Context, id int, patch StatsPatch) (Breed, error) {
	if patch.IsEmpty() {
		return Breed{}, validate.New("no valid stats to update")
	}
	fields := []struct {
		name string
		v    *int
	}{
		{"friendliness", patch.Friendliness},
		{"energyLevel", patch.EnergyLevel},
		{"trainability", patch.Trainability},
		{"groomingNeeds", patch.GroomingNeeds},
		{"adaptability", patch.Adaptability},
	}
	for _, f := range fields {
		if f.v != nil && (*f.v < StatMin || *f.v > StatMax) {
			return Breed{}, validate.Field(f.name, "%s must be between %d and %d", f.name, StatMin, StatMax)
		}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Breed{}, err
	}

	updated, err := s.repo.UpdateStats(ctx, id, patch.Apply(b.Stats), s.now().UTC())
	if err != nil {
		return Breed{}, fmt.Errorf("update stats: %w", err)
	}
	return updated, nil
}
