package breeds

import (
	"cmp"
	"strings"

	"dog-breed-social/internal/platform/query"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortName       SortKey = "name"
	SortPopularity SortKey = "popularity"
)

func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortName:
		return SortName
	case SortPopularity:
		return SortPopularity
	default:
		return SortNone
	}
}

// Filter es el criterio del listado (query params de GET /breeds).
type Filter struct {
	Search      string
	Category    string // "" o "all" = todas
	Personality []string
}

func (f Filter) criteria() query.Criteria {
	return query.Criteria{Search: f.Search, Category: f.Category, Tags: f.Personality}
}

func view(b Breed) query.Item {
	return query.Item{
		Text:     []string{b.Name, b.Description},
		Category: string(b.Category),
		Tags:     b.Personality,
	}
}

// Apply filtra sin llamar a la API; conserva el orden del catálogo.
func Apply(list []Breed, f Filter) []Breed {
	return query.Filter(list, f.criteria(), view)
}

// Sort es estable; SortNone devuelve una copia en el orden recibido.
func Sort(list []Breed, key SortKey, order query.Order) []Breed {
	switch key {
	case SortName:
		return query.SortStable(list, func(a, b Breed) int { return strings.Compare(a.Name, b.Name) }, order)
	case SortPopularity:
		return query.SortStable(list, func(a, b Breed) int { return cmp.Compare(a.Popularity, b.Popularity) }, order)
	default:
		return append([]Breed(nil), list...)
	}
}
