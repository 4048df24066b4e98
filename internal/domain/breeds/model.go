package breeds

import (
	"strings"
	"time"
)

type Category string

const (
	CategorySmall  Category = "small"
	CategoryMedium Category = "medium"
	CategoryLarge  Category = "large"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySmall, CategoryMedium, CategoryLarge:
		return true
	default:
		return false
	}
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

const (
	StatMin = 0
	StatMax = 5
)

// Stats: cada valor en [StatMin, StatMax].
type Stats struct {
	Friendliness  int
	EnergyLevel   int
	Trainability  int
	GroomingNeeds int
	Adaptability  int
}

type Breed struct {
	ID          int
	Name        string
	Description string
	Image       string
	Category    Category
	Personality []string
	Stats       Stats

	History      string
	CareNeeds    string
	HealthIssues string
	FunFacts     []string

	// Popularity es el escalar del orden "popularity" (mayor = más popular).
	Popularity int

	UpdatedAt time.Time
}

// StatsPatch: nil = no tocar.
type StatsPatch struct {
	Friendliness  *int
	EnergyLevel   *int
	Trainability  *int
	GroomingNeeds *int
	Adaptability  *int
}

func (p StatsPatch) IsEmpty() bool {
	return p.Friendliness == nil && p.EnergyLevel == nil && p.Trainability == nil &&
		p.GroomingNeeds == nil && p.Adaptability == nil
}

func (p StatsPatch) Apply(s Stats) Stats {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Friendliness, p.Friendliness)
	set(&s.EnergyLevel, p.EnergyLevel)
	set(&s.Trainability, p.Trainability)
	set(&s.GroomingNeeds, p.GroomingNeeds)
	set(&s.Adaptability, p.Adaptability)
	return s
}
