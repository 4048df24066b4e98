package breeds

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/platform/query"
	"dog-breed-social/internal/platform/respond"
	"dog-breed-social/internal/ports/backend"
)

// RegisterRoutes monta /breeds. cache (puede ser nil) sirve los GET y se invalida con el PATCH.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, cache func(http.Handler) http.Handler) {
	if log == nil {
		log = logger.NewNop()
	}
	r.Route("/breeds", func(br chi.Router) {
		if cache != nil {
			br.Use(cache)
		}
		br.Get("/", listBreedsHandler(svc, log))
		br.Get("/{breedID}", getBreedHandler(svc, log))
		br.Patch("/{breedID}/stats", updateStatsHandler(svc, log))
	})
}

// BreedResponse es la forma pública (camelCase, como la consume el cliente).
type BreedResponse struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Image        string        `json:"image"`
	Category     Category      `json:"category"`
	Personality  []string      `json:"personality"`
	Stats        StatsResponse `json:"stats"`
	History      string        `json:"history,omitempty"`
	CareNeeds    string        `json:"careNeeds,omitempty"`
	HealthIssues string        `json:"healthIssues,omitempty"`
	FunFacts     []string      `json:"funFacts,omitempty"`
	Popularity   int           `json:"popularity"`
}

type StatsResponse struct {
	Friendliness  int `json:"friendliness"`
	EnergyLevel   int `json:"energyLevel"`
	Trainability  int `json:"trainability"`
	GroomingNeeds int `json:"groomingNeeds"`
	Adaptability  int `json:"adaptability"`
}

type updateStatsRequest struct {
	Friendliness  *int `json:"friendliness"`
	EnergyLevel   *int `json:"energyLevel"`
	Trainability  *int `json:"trainability"`
	GroomingNeeds *int `json:"groomingNeeds"`
	Adaptability  *int `json:"adaptability"`
}

// @Summary  List breeds
// @Tags     breeds
// @Produce  json
// @Param    category    query string false "small|medium|large|all"
// @Param    personality query string false "tags, repetible o separados por coma"
// @Param    search      query string false "substring en nombre/descripción"
// @Param    sort        query string false "name|popularity"
// @Param    order       query string false "asc|desc"
// @Success  200 {array} BreedResponse
// @Failure  500 {object} respond.ErrorBody
// @Router   /api/breeds [get]
func listBreedsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListInput{
			Filter: Filter{
				Search:      q.Get("search"),
				Category:    q.Get("category"),
				Personality: query.SplitList(q["personality"]),
			},
			Sort:  ParseSortKey(q.Get("sort")),
			Order: query.ParseOrder(q.Get("order")),
		})
		if err != nil {
			log.Error("list breeds failed", map[string]any{"op": "breeds.list", "err": err})
			respond.Error(w, http.StatusInternalServerError, "failed to load breeds")
			return
		}

		out := make([]BreedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, ToResponse(b))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// @Summary  Breed detail
// @Tags     breeds
// @Produce  json
// @Param    breedID path int true "breed id"
// @Success  200 {object} BreedResponse
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/breeds/{breedID} [get]
func getBreedHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "breedID"))
		if !ok {
			respond.Error(w, http.StatusNotFound, "breed not found")
			return
		}

		b, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "breed not found")
				return
			}
			log.Error("get breed failed", map[string]any{"op": "breeds.get", "breed_id": id, "err": err})
			respond.Error(w, http.StatusInternalServerError, "failed to load breed")
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(b))
	}
}

// @Summary  Update breed stats
// @Tags     breeds
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    breedID path int true "breed id"
// @Success  200 {object} respond.Envelope{data=BreedResponse}
// @Failure  400 {object} respond.ErrorBody
// @Failure  401 {object} respond.ErrorBody
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/breeds/{breedID}/stats [patch]
func updateStatsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, ok := parseID(chi.URLParam(r, "breedID"))
		if !ok {
			respond.Error(w, http.StatusNotFound, "breed not found")
			return
		}

		var req updateStatsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		b, err := svc.UpdateStats(r.Context(), id, StatsPatch{
			Friendliness:  req.Friendliness,
			EnergyLevel:   req.EnergyLevel,
			Trainability:  req.Trainability,
			GroomingNeeds: req.GroomingNeeds,
			Adaptability:  req.Adaptability,
		})
		if err != nil {
			if backend.KindOf(err) == backend.KindInternal || backend.KindOf(err) == backend.KindUnavailable {
				log.Error("update stats failed", map[string]any{"op": "breeds.update_stats", "breed_id": id, "user_id": claims.UserID, "err": err})
			}
			respond.Fail(w, err, "failed to update breed stats")
			return
		}
		respond.Data(w, http.StatusOK, "breed stats updated", ToResponse(b))
	}
}

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func ToResponse(b Breed) BreedResponse {
	personality := b.Personality
	if personality == nil {
		personality = []string{}
	}
	return BreedResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Image:       b.Image,
		Category:    b.Category,
		Personality: personality,
		Stats: StatsResponse{
			Friendliness:  b.Stats.Friendliness,
			EnergyLevel:   b.Stats.EnergyLevel,
			Trainability:  b.Stats.Trainability,
			GroomingNeeds: b.Stats.GroomingNeeds,
			Adaptability:  b.Stats.Adaptability,
		},
		History:      b.History,
		CareNeeds:    b.CareNeeds,
		HealthIssues: b.HealthIssues,
		FunFacts:     b.FunFacts,
		Popularity:   b.Popularity,
	}
}
