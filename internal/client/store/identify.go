package store

import (
	"context"
	"slices"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/localcache"
	"dog-breed-social/internal/client/model"
)

const (
	keyHistory = "history"
	keyAnalyze = "analyze"
)

type IdentifyState struct {
	History []model.Record
	Current *model.Record
	Loading bool
	Error   string
}

type Identify struct {
	base
	api     IdentifyAPI
	cache   HistoryCache
	history []model.Record
	current *model.Record
}

func NewIdentify(a IdentifyAPI, cache HistoryCache) *Identify {
	s := &Identify{api: a, cache: cache, history: []model.Record{}}
	s.init()
	return s
}

func (s *Identify) Snapshot() IdentifyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := IdentifyState{
		History: slices.Clone(s.history),
		Loading: s.inflight > 0,
		Error:   s.errMsg,
	}
	if s.current != nil {
		r := *s.current
		st.Current = &r
	}
	return st
}

// Restore carga el historial local (sirve también sin sesión).
func (s *Identify) Restore() {
	h := s.cache.History()
	s.mutate(func() { s.history = h })
}

// Analyze sube la imagen; el resultado queda enfocado y al frente del historial.
func (s *Identify) Analyze(ctx context.Context, img api.Image, visibility string) (model.Record, bool) {
	var seq uint64
	s.mutate(func() { seq = s.begin(keyAnalyze) })

	rec, err := s.api.Analyze(ctx, img, visibility)
	var herr error
	if err == nil {
		herr = s.cache.AddHistory(rec)
	}

	s.mutate(func() {
		s.finish(err, s.latest(keyAnalyze, seq))
		if err != nil {
			return
		}
		// el record ya existe en el servidor; solo se avisa que no quedó en el historial local.
		if herr != nil {
			s.errMsg = "could not save history"
		}
		s.history = prepend(s.history, rec)
		if s.latest(keyAnalyze, seq) {
			s.current = &rec
		}
	})
	return rec, err == nil
}

func prepend(h []model.Record, rec model.Record) []model.Record {
	h = slices.DeleteFunc(slices.Clone(h), func(r model.Record) bool { return r.ID == rec.ID })
	h = append([]model.Record{rec}, h...)
	if len(h) > localcache.MaxHistory {
		h = h[:localcache.MaxHistory]
	}
	return h
}

// LoadHistory reemplaza el historial con el del servidor (requiere sesión).
func (s *Identify) LoadHistory(ctx context.Context, limit int) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keyHistory) })

	list, err := s.api.History(ctx, limit)

	s.mutate(func() {
		current := s.latest(keyHistory, seq)
		s.finish(err, current)
		if err == nil && current {
			s.history = list
		}
	})
	return err == nil
}

// Get enfoca un record y lo reemplaza por id en el historial.
func (s *Identify) Get(ctx context.Context, id string) bool {
	key := "record:" + id
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	rec, err := s.api.GetRecord(ctx, id)

	s.mutate(func() {
		current := s.latest(key, seq)
		s.finish(err, current)
		if err != nil || !current {
			return
		}
		for i := range s.history {
			if s.history[i].ID == rec.ID {
				s.history[i] = rec
			}
		}
		s.current = &rec
	})
	return err == nil
}
