package accounts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/respond"
)

// RegisterRoutes monta /auth. limit se aplica a login y register (puede ser nil).
func RegisterRoutes(r chi.Router, svc *Service, limit func(http.Handler) http.Handler) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Group(func(lr chi.Router) {
			if limit != nil {
				lr.Use(limit)
			}
			lr.Post("/login", loginHandler(svc))
			lr.Post("/register", registerHandler(svc))
		})
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/me", meHandler(svc))
		ar.Patch("/me", updateMeHandler(svc))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type settingsResponse struct {
	EmailNotifications bool  `json:"email_notifications"`
	Theme              Theme `json:"theme"`
}

type profileResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	AvatarURL *string          `json:"avatar_url"`
	Bio       string           `json:"bio,omitempty"`
	Settings  settingsResponse `json:"settings"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type sessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type loginResponse struct {
	Message string          `json:"message"`
	User    profileResponse `json:"user"`
	Session sessionResponse `json:"session"`
}

type registerResponse struct {
	Message string  `json:"message"`
	User    userRef `json:"user"`
}

// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body credentialsRequest true "email y password"
// @Success  200 {object} loginResponse
// @Failure  400 {object} respond.ErrorBody
// @Failure  401 {object} respond.ErrorBody
// @Router   /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respond.Fail(w, err, "login failed, please try again later")
			return
		}

		respond.JSON(w, http.StatusOK, loginResponse{
			Message: MsgLoggedIn,
			User:    toProfileResponse(p),
			Session: toSessionResponse(sess),
		})
	}
}

// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body credentialsRequest true "email, password y name opcional"
// @Success  200 {object} registerResponse
// @Failure  400 {object} respond.ErrorBody
// @Failure  500 {object} respond.ErrorBody
// @Router   /api/auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			respond.Fail(w, err, "registration failed, please try again later")
			return
		}

		respond.JSON(w, http.StatusOK, registerResponse{
			Message: res.Message,
			User:    userRef{ID: res.Identity.ID, Email: res.Identity.Email},
		})
	}
}

// @Summary  Logout
// @Tags     auth
// @Produce  json
// @Success  200 {object} respond.Envelope
// @Failure  500 {object} respond.ErrorBody
// @Router   /api/auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
			respond.Error(w, http.StatusInternalServerError, "logout failed, please try again later")
			return
		}
		respond.JSON(w, http.StatusOK, respond.Envelope{Message: MsgLoggedOut})
	}
}

// @Summary  Current user profile
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} profileResponse
// @Failure  401 {object} respond.ErrorBody
// @Router   /api/auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.Me(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			respond.Fail(w, err, "failed to load user profile")
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// @Summary  Update current user profile
// @Description Solo name y avatar_url; el resto de campos se ignora.
// @Tags     auth
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} respond.Envelope{data=profileResponse}
// @Failure  400 {object} respond.ErrorBody
// @Failure  401 {object} respond.ErrorBody
// @Router   /api/auth/me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		patch, err := parseProfilePatch(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.UpdateProfile(r.Context(), claims.UserID, claims.Email, patch)
		if err != nil {
			respond.Fail(w, err, "failed to update user profile")
			return
		}
		respond.Data(w, http.StatusOK, MsgProfileUpdated, toProfileResponse(p))
	}
}

// parseProfilePatch toma solo la allow-list. "avatar_url": null limpia el avatar.
func parseProfilePatch(raw map[string]json.RawMessage) (ProfilePatch, error) {
	var patch ProfilePatch

	if v, ok := raw["name"]; ok && !isNull(v) {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return ProfilePatch{}, invalid("name must be a string")
		}
		patch.Name = &name
	}

	if v, ok := raw["avatar_url"]; ok {
		patch.AvatarURL.Present = true
		if !isNull(v) {
			var u string
			if err := json.Unmarshal(v, &u); err != nil {
				return ProfilePatch{}, invalid("avatar_url must be a string or null")
			}
			patch.AvatarURL.Value = &u
		}
	}

	return patch, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		Settings: settingsResponse{
			EmailNotifications: p.Settings.EmailNotifications,
			Theme:              p.Settings.Theme,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
	}
}
