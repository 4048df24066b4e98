// Package localcache es el almacenamiento local del cliente: token, usuario,
// preferencias, historial de identificaciones, borradores y favoritos.
package localcache

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"time"

	"dog-breed-social/internal/client/model"
)

// Claves lógicas.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyTheme     = "theme"
	KeyHistory   = "identify_history"
	KeySettings  = "user_settings"
	KeyDrafts    = "draft_posts"
	KeyFavorites = "favorite_breeds"

	MaxHistory = 50
)

// Cache serializa a JSON sobre un Backend. Lecturas ilegibles cuentan como ausentes.
// Cada sub-accessor hace read-modify-write sin lock: un solo escritor por cache.
type Cache struct {
	b   Backend
	now func() time.Time
}

func New(b Backend) *Cache {
	if b == nil {
		b = NewMemoryBackend()
	}
	return &Cache{b: b, now: time.Now}
}

// Get decodifica key en out; false si no existe o no se puede leer.
func (c *Cache) Get(key string, out any) bool {
	raw, ok, err := c.b.Get(key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (c *Cache) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.b.Set(key, string(b))
}

func (c *Cache) Remove(key string) error { return c.b.Delete(key) }

func (c *Cache) Clear() error { return c.b.Clear() }

// ----- token / user / theme -----

func (c *Cache) Token() string {
	var t string
	c.Get(KeyToken, &t)
	return t
}

func (c *Cache) SetToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return c.Remove(KeyToken)
	}
	return c.Set(KeyToken, token)
}

func (c *Cache) User() (model.User, bool) {
	var u model.User
	ok := c.Get(KeyUser, &u)
	return u, ok
}

func (c *Cache) SetUser(u model.User) error { return c.Set(KeyUser, u) }

// ClearSession borra token y usuario (logout).
func (c *Cache) ClearSession() error {
	if err := c.Remove(KeyToken); err != nil {
		return err
	}
	return c.Remove(KeyUser)
}

func (c *Cache) Theme() string {
	var t string
	if !c.Get(KeyTheme, &t) || t == "" {
		return "system"
	}
	return t
}

func (c *Cache) SetTheme(theme string) error { return c.Set(KeyTheme, theme) }

// ----- historial -----

// History: más reciente primero, a lo sumo MaxHistory.
func (c *Cache) History() []model.Record {
	var h []model.Record
	if !c.Get(KeyHistory, &h) {
		return []model.Record{}
	}
	return h
}

// AddHistory inserta al frente; un record con el mismo id se mueve al frente.
// Si se supera MaxHistory se descartan los más viejos.
func (c *Cache) AddHistory(rec model.Record) error {
	h := c.History()
	h = slices.DeleteFunc(h, func(r model.Record) bool { return r.ID == rec.ID })
	h = append([]model.Record{rec}, h...)
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	return c.Set(KeyHistory, h)
}

func (c *Cache) RemoveHistory(id string) error {
	h := slices.DeleteFunc(c.History(), func(r model.Record) bool { return r.ID == id })
	return c.Set(KeyHistory, h)
}

func (c *Cache) ClearHistory() error { return c.Remove(KeyHistory) }

// ----- settings -----

type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

func DefaultSettings() Settings {
	return Settings{Theme: "system", Notifications: true, Language: "en"}
}

// SettingsPatch: nil = conservar.
type SettingsPatch struct {
	Theme         *string
	Notifications *bool
	Language      *string
}

func (c *Cache) Settings() Settings {
	s := DefaultSettings()
	c.Get(KeySettings, &s)
	return s
}

func (c *Cache) UpdateSettings(p SettingsPatch) (Settings, error) {
	s := c.Settings()
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	return s, c.Set(KeySettings, s)
}

// ----- borradores -----

type Draft struct {
	ID               string    `json:"id"`
	Description      string    `json:"description"`
	BreedTags        []string  `json:"breed_tags,omitempty"`
	TopicTags        []string  `json:"topic_tags,omitempty"`
	Media            []string  `json:"media,omitempty"`
	IdentifyRecordID string    `json:"identify_record_id,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type DraftPatch struct {
	Description      *string
	BreedTags        *[]string
	TopicTags        *[]string
	Media            *[]string
	IdentifyRecordID *string
}

func (c *Cache) drafts() map[string]Draft {
	m := map[string]Draft{}
	c.Get(KeyDrafts, &m)
	return m
}

// Drafts ordenados por última edición, más reciente primero.
func (c *Cache) Drafts() []Draft {
	m := c.drafts()
	out := make([]Draft, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (c *Cache) Draft(id string) (Draft, bool) {
	d, ok := c.drafts()[id]
	return d, ok
}

// SaveDraft crea o mezcla: los campos presentes pisan, los omitidos se conservan.
func (c *Cache) SaveDraft(id string, p DraftPatch) (Draft, error) {
	m := c.drafts()
	d := m[id]
	d.ID = id
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.BreedTags != nil {
		d.BreedTags = slices.Clone(*p.BreedTags)
	}
	if p.TopicTags != nil {
		d.TopicTags = slices.Clone(*p.TopicTags)
	}
	if p.Media != nil {
		d.Media = slices.Clone(*p.Media)
	}
	if p.IdentifyRecordID != nil {
		d.IdentifyRecordID = *p.IdentifyRecordID
	}
	d.UpdatedAt = c.now().UTC()
	m[id] = d
	return d, c.Set(KeyDrafts, m)
}

func (c *Cache) RemoveDraft(id string) error {
	m := c.drafts()
	delete(m, id)
	return c.Set(KeyDrafts, m)
}

// ----- favoritos -----

func (c *Cache) Favorites() []int {
	var ids []int
	if !c.Get(KeyFavorites, &ids) {
		return []int{}
	}
	return ids
}

func (c *Cache) IsFavorite(id int) bool {
	return slices.Contains(c.Favorites(), id)
}

func (c *Cache) SetFavorite(id int, fav bool) error {
	ids := slices.DeleteFunc(c.Favorites(), func(v int) bool { return v == id })
	if fav {
		ids = append(ids, id)
		slices.Sort(ids)
	}
	return c.Set(KeyFavorites, ids)
}
