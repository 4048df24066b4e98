package store

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/model"
	"dog-breed-social/internal/platform/query"
)

const keyBreedList = "breeds"

type BreedsState struct {
	Breeds    []model.Breed
	Selected  *model.Breed
	Favorites []int
	Loading   bool
	Error     string
}

type Breeds struct {
	base
	api   BreedsAPI
	favs  FavoritesCache
	list  []model.Breed
	sel   *model.Breed
	liked []int
}

func NewBreeds(a BreedsAPI, favs FavoritesCache) *Breeds {
	s := &Breeds{api: a, favs: favs, list: []model.Breed{}, liked: favs.Favorites()}
	s.init()
	return s
}

func (s *Breeds) Snapshot() BreedsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := BreedsState{
		Breeds:    slices.Clone(s.list),
		Favorites: slices.Clone(s.liked),
		Loading:   s.inflight > 0,
		Error:     s.errMsg,
	}
	if s.sel != nil {
		b := *s.sel
		st.Selected = &b
	}
	return st
}

// Load reemplaza el catálogo entero. Una respuesta superada por otro Load se descarta.
func (s *Breeds) Load(ctx context.Context, q api.BreedQuery) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keyBreedList) })

	list, err := s.api.ListBreeds(ctx, q)

	s.mutate(func() {
		current := s.latest(keyBreedList, seq)
		s.finish(err, current)
		if err == nil && current {
			s.list = list
		}
	})
	return err == nil
}

// Select trae el detalle, lo enfoca y lo reemplaza en la lista.
func (s *Breeds) Select(ctx context.Context, id int) bool {
	key := breedKey(id)
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	b, err := s.api.GetBreed(ctx, id)

	s.mutate(func() {
		current := s.latest(key, seq)
		s.finish(err, current)
		if err == nil && current {
			s.merge(b)
			s.sel = &b
		}
	})
	return err == nil
}

func (s *Breeds) UpdateStats(ctx context.Context, id int, in api.StatsUpdate) bool {
	key := breedKey(id)
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	b, err := s.api.UpdateBreedStats(ctx, id, in)

	s.mutate(func() {
		current := s.latest(key, seq)
		s.finish(err, current)
		if err == nil && current {
			s.merge(b)
			if s.sel != nil && s.sel.ID == b.ID {
				s.sel = &b
			}
		}
	})
	return err == nil
}

// merge reemplaza por id; si no estaba, no lo agrega (la lista refleja el último Load). Con lock.
func (s *Breeds) merge(b model.Breed) {
	for i := range s.list {
		if s.list[i].ID == b.ID {
			s.list[i] = b
			return
		}
	}
}

// ToggleFavorite es local y optimista: si no se puede persistir, vuelve al estado previo.
func (s *Breeds) ToggleFavorite(id int) bool {
	var prev []int
	var fav bool
	s.mutate(func() {
		prev = slices.Clone(s.liked)
		fav = !slices.Contains(s.liked, id)
		if fav {
			s.liked = append(s.liked, id)
			slices.Sort(s.liked)
		} else {
			s.liked = slices.DeleteFunc(s.liked, func(v int) bool { return v == id })
		}
	})

	if err := s.favs.SetFavorite(id, fav); err != nil {
		s.mutate(func() {
			s.liked = prev
			s.errMsg = "could not save favorite"
		})
		return false
	}
	return true
}

func (s *Breeds) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.liked, id)
}

// ----- filtrado y orden (puros, sin red) -----

type BreedFilter struct {
	Search      string
	Category    string
	Personality []string
}

// BreedSort: "name" o "popularity"; cualquier otro valor deja el orden original.
type BreedSort string

const (
	SortByName       BreedSort = "name"
	SortByPopularity BreedSort = "popularity"
)

// Filter aplica f sobre el catálogo cargado.
func (s *Breeds) Filter(f BreedFilter) []model.Breed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterBreeds(s.list, f)
}

func FilterBreeds(list []model.Breed, f BreedFilter) []model.Breed {
	c := query.Criteria{Search: f.Search, Category: f.Category, Tags: f.Personality}
	return query.Filter(list, c, func(b model.Breed) query.Item {
		return query.Item{Text: []string{b.Name, b.Description}, Category: b.Category, Tags: b.Personality}
	})
}

// SortBreeds es estable: los empates conservan el orden de entrada.
func SortBreeds(list []model.Breed, by BreedSort, order query.Order) []model.Breed {
	switch BreedSort(strings.ToLower(string(by))) {
	case SortByName:
		return query.SortStable(list, func(a, b model.Breed) int { return strings.Compare(a.Name, b.Name) }, order)
	case SortByPopularity:
		return query.SortStable(list, func(a, b model.Breed) int { return cmp.Compare(a.Popularity, b.Popularity) }, order)
	default:
		return slices.Clone(list)
	}
}

// FavoriteBreeds devuelve los favoritos presentes en el catálogo cargado.
func (s *Breeds) FavoriteBreeds() []model.Breed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterFavorites(s.list, s.liked)
}

func FilterFavorites(list []model.Breed, favorites []int) []model.Breed {
	out := make([]model.Breed, 0, len(favorites))
	for _, b := range list {
		if slices.Contains(favorites, b.ID) {
			out = append(out, b)
		}
	}
	return out
}
