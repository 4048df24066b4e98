package identify

import "time"

// Result es una tripleta (breed, percentage, confidence).
type Result struct {
	Breed      string
	Percentage float64 // [0,100]
	Confidence float64 // [0,1]
}

type Record struct {
	ID       string
	UserID   string // "" = anónimo
	ImageURL string
	Results  []Result

	Description string
	IsPublic    bool
	PostID      *string

	CreatedAt time.Time
}

// Visibility del análisis. Private no crea post.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)
