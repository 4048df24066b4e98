package posts

import "time"

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	default:
		return false
	}
}

type Post struct {
	ID               string
	UserID           string
	IdentifyRecordID *string

	Description string
	BreedTags   []string
	TopicTags   []string
	Media       []string // URLs públicas

	LikesCount    int
	CommentsCount int
	Status        Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tags: breed + topic, para filtrar el feed por un tag cualquiera.
func (p Post) Tags() []string {
	out := make([]string, 0, len(p.BreedTags)+len(p.TopicTags))
	out = append(out, p.BreedTags...)
	return append(out, p.TopicTags...)
}

type Comment struct {
	ID       string
	PostID   string
	UserID   string
	ParentID *string // hilo

	Content    string
	LikesCount int
	CreatedAt  time.Time
}

// Page es una página del feed.
// Liked solo se llena cuando hay caller.
type Page struct {
	Posts   []Post
	Page    int
	HasMore bool
	Liked   map[string]bool
}
