package breeds

import (
	"context"
	"errors"
	"testing"
	"time"

	"dog-breed-social/internal/platform/query"
	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	list    []Breed
	updates int
}

func (r *testRepo) List(ctx context.Context) ([]Breed, error) {
	return append([]Breed(nil), r.list...), nil
}

func (r *testRepo) GetByID(ctx context.Context, id int) (Breed, error) {
	for _, b := range r.list {
		if b.ID == id {
			return b, nil
		}
	}
	return Breed{}, backend.ErrNotFound
}

func (r *testRepo) GetByName(ctx context.Context, name string) (Breed, error) {
	for _, b := range r.list {
		if b.Name == name {
			return b, nil
		}
	}
	return Breed{}, backend.ErrNotFound
}

func (r *testRepo) UpdateStats(ctx context.Context, id int, stats Stats, updatedAt time.Time) (Breed, error) {
	for i := range r.list {
		if r.list[i].ID == id {
			r.list[i].Stats = stats
			r.list[i].UpdatedAt = updatedAt
			r.updates++
			return r.list[i], nil
		}
	}
	return Breed{}, backend.ErrNotFound
}

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{list: []Breed{
		{ID: 1, Name: "Labrador Retriever", Description: "Friendly family dog", Category: CategoryLarge, Personality: []string{"friendly", "active"}, Popularity: 95, Stats: Stats{Friendliness: 5, EnergyLevel: 4}},
		{ID: 2, Name: "Chihuahua", Description: "Tiny and bold", Category: CategorySmall, Personality: []string{"alert"}, Popularity: 70},
		{ID: 3, Name: "Beagle", Description: "Curious scent hound", Category: CategoryMedium, Personality: []string{"curious", "friendly"}, Popularity: 70},
		{ID: 4, Name: "Shiba Inu", Description: "Independent spitz", Category: CategorySmall, Personality: []string{"independent"}, Popularity: 60},
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, repo
}

func ids(list []Breed) []int {
	out := make([]int, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// -------------------------
// Tests
// -------------------------

func TestList_FilterIsConjunctive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ListInput
		want []int
	}{
		{"no filter keeps catalogue order", ListInput{}, []int{1, 2, 3, 4}},
		{"category all", ListInput{Filter: Filter{Category: "ALL"}}, []int{1, 2, 3, 4}},
		{"category small", ListInput{Filter: Filter{Category: "small"}}, []int{2, 4}},
		{"search in description", ListInput{Filter: Filter{Search: "hound"}}, []int{3}},
		{"personality any-of", ListInput{Filter: Filter{Personality: []string{"alert", "curious"}}}, []int{2, 3}},
		{"category and personality", ListInput{Filter: Filter{Category: "large", Personality: []string{"curious"}}}, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.in)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if !equalInts(ids(got), tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, ids(got))
			}
		})
	}
}

func TestList_SortIsStable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	got, _ := svc.List(ctx, ListInput{Sort: SortPopularity, Order: query.Desc})
	if want := []int{1, 2, 3, 4}; !equalInts(ids(got), want) {
		t.Fatalf("popularity desc: expected %v, got %v", want, ids(got))
	}

	got, _ = svc.List(ctx, ListInput{Sort: SortPopularity, Order: query.Asc})
	if want := []int{4, 2, 3, 1}; !equalInts(ids(got), want) {
		t.Fatalf("popularity asc (ties keep order): expected %v, got %v", want, ids(got))
	}

	got, _ = svc.List(ctx, ListInput{Sort: ParseSortKey(" NAME "), Order: query.ParseOrder("asc")})
	if want := []int{3, 2, 1, 4}; !equalInts(ids(got), want) {
		t.Fatalf("name asc: expected %v, got %v", want, ids(got))
	}
}

func TestUpdateStats(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	three, nine, minus := 3, 9, -1

	if _, err := svc.UpdateStats(ctx, 1, StatsPatch{}); err == nil {
		t.Fatalf("expected error for empty patch")
	}

	for _, v := range []*int{&nine, &minus} {
		_, err := svc.UpdateStats(ctx, 1, StatsPatch{EnergyLevel: v})
		var ve *validate.Error
		if !errors.As(err, &ve) {
			t.Fatalf("expected validate.Error for %d, got %v", *v, err)
		}
	}
	if repo.updates != 0 {
		t.Fatalf("invalid patches must not reach the repo")
	}

	if _, err := svc.UpdateStats(ctx, 999, StatsPatch{EnergyLevel: &three}); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	b, err := svc.UpdateStats(ctx, 1, StatsPatch{EnergyLevel: &three})
	if err != nil {
		t.Fatalf("UpdateStats: %v", err)
	}
	if b.Stats.EnergyLevel != 3 || b.Stats.Friendliness != 5 {
		t.Fatalf("expected partial merge, got %+v", b.Stats)
	}
	if !b.UpdatedAt.Equal(svc.now()) {
		t.Fatalf("expected updated_at from clock, got %v", b.UpdatedAt)
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" Small "); !ok || c != CategorySmall {
		t.Fatalf("expected small, got %q %v", c, ok)
	}
	if _, ok := ParseCategory("giant"); ok {
		t.Fatalf("giant is not a category")
	}
}
