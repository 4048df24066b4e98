// Package query tiene el filtrado y orden puros que comparten los handlers y los stores del cliente.
package query

import (
	"slices"
	"strings"
)

// All es el valor de categoría que no filtra.
const All = "all"

// Criteria se aplican en conjunción. Campos vacíos no filtran.
type Criteria struct {
	Search   string
	Category string
	Tags     []string
}

func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && IsAll(c.Category) && len(nonEmpty(c.Tags)) == 0
}

// IsAll: "" o "all" (sin importar mayúsculas) matchea cualquier categoría.
func IsAll(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, All)
}

// Item es la vista mínima de una entidad filtrable.
type Item struct {
	Text     []string // campos donde buscar (substring, case-insensitive)
	Category string
	Tags     []string
}

func (c Criteria) Match(it Item) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		found := false
		for _, t := range it.Text {
			if strings.Contains(strings.ToLower(t), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !IsAll(c.Category) && !strings.EqualFold(strings.TrimSpace(c.Category), it.Category) {
		return false
	}

	selected := nonEmpty(c.Tags)
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, have := range it.Tags {
			if strings.EqualFold(want, strings.TrimSpace(have)) {
				return true
			}
		}
	}
	return false
}

// Filter devuelve una lista nueva con los elementos que matchean, en el orden original.
func Filter[T any](items []T, c Criteria, view func(T) Item) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.Match(view(it)) {
			out = append(out, it)
		}
	}
	return out
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortStable ordena una copia. Empates conservan el orden original también en Desc.
func SortStable[T any](items []T, cmp func(a, b T) int, order Order) []T {
	out := slices.Clone(items)
	if order == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// SplitList acepta valores repetidos y listas separadas por coma.
func SplitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
