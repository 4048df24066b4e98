// Package model son las entidades tal como las ve el cliente (formas JSON de la API).
package model

import "time"

type Settings struct {
	EmailNotifications bool   `json:"email_notifications"`
	Theme              string `json:"theme"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       string    `json:"bio,omitempty"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type BreedStats struct {
	Friendliness  int `json:"friendliness"`
	EnergyLevel   int `json:"energyLevel"`
	Trainability  int `json:"trainability"`
	GroomingNeeds int `json:"groomingNeeds"`
	Adaptability  int `json:"adaptability"`
}

type Breed struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Image        string     `json:"image"`
	Category     string     `json:"category"`
	Personality  []string   `json:"personality"`
	Stats        BreedStats `json:"stats"`
	History      string     `json:"history,omitempty"`
	CareNeeds    string     `json:"careNeeds,omitempty"`
	HealthIssues string     `json:"healthIssues,omitempty"`
	FunFacts     []string   `json:"funFacts,omitempty"`
	Popularity   int        `json:"popularity"`
}

type Result struct {
	Breed      string  `json:"breed"`
	Percentage float64 `json:"percentage"`
	Confidence float64 `json:"confidence"`
}

type Record struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"imageUrl"`
	Results     []Result  `json:"results"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      *string   `json:"userId"`
	IsPublic    bool      `json:"isPublic"`
	PostID      *string   `json:"postId,omitempty"`
}

type Post struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	IdentifyRecordID *string   `json:"identify_record_id"`
	Description      string    `json:"description"`
	BreedTags        []string  `json:"breed_tags"`
	TopicTags        []string  `json:"topic_tags"`
	Media            []string  `json:"media"`
	LikesCount       int       `json:"likes_count"`
	CommentsCount    int       `json:"comments_count"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	IsLiked          bool      `json:"is_liked,omitempty"`
}

// Tags son breed + topic tags (para filtrar el feed en el cliente).
func (p Post) Tags() []string {
	out := make([]string, 0, len(p.BreedTags)+len(p.TopicTags))
	out = append(out, p.BreedTags...)
	return append(out, p.TopicTags...)
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	ParentID   *string   `json:"parent_id"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostPage struct {
	Posts   []Post `json:"posts"`
	HasMore bool   `json:"hasMore"`
	Page    int    `json:"page"`
}
