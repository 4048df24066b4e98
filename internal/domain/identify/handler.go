package identify

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/respond"
	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

// multipartOverhead cubre headers y boundaries además del archivo.
const multipartOverhead = 1 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/identify", func(ir chi.Router) {
		ir.Post("/analyze", analyzeHandler(svc))
		ir.Get("/history", historyHandler(svc))
		ir.Get("/{recordID}", getRecordHandler(svc))
	})
}

type ResultResponse struct {
	Breed      string  `json:"breed"`
	Percentage float64 `json:"percentage"`
	Confidence float64 `json:"confidence"`
}

type RecordResponse struct {
	ID          string           `json:"id"`
	ImageURL    string           `json:"imageUrl"`
	Results     []ResultResponse `json:"results"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	UserID      *string          `json:"userId"`
	IsPublic    bool             `json:"isPublic"`
	PostID      *string          `json:"postId,omitempty"`
}

type analyzeResponse struct {
	Success bool           `json:"success"`
	Data    RecordResponse `json:"data"`
}

type analyzeError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// @Summary  Analyze a dog photo
// @Tags     identify
// @Accept   multipart/form-data
// @Produce  json
// @Param    image      formData file   true  "foto (image/*)"
// @Param    visibility formData string false "public|private"
// @Success  200 {object} analyzeResponse
// @Failure  400 {object} analyzeError
// @Failure  500 {object} analyzeError
// @Router   /api/identify/analyze [post]
func analyzeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fail := func(status int, msg string) {
			respond.JSON(w, status, analyzeError{Success: false, Message: msg})
		}

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+multipartOverhead)
		if err := r.ParseMultipartForm(svc.MaxBytes()); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fail(http.StatusBadRequest, "image is too large")
				return
			}
			fail(http.StatusBadRequest, "please upload an image")
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, hdr, err := r.FormFile("image")
		if err != nil {
			fail(http.StatusBadRequest, "please upload an image")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, svc.MaxBytes()+1))
		if err != nil {
			fail(http.StatusBadRequest, "could not read image")
			return
		}

		rec, err := svc.Analyze(r.Context(), AnalyzeInput{
			UserID:      middleware.UserID(r.Context()),
			FileName:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Data:        data,
			Visibility:  Visibility(strings.ToLower(strings.TrimSpace(r.FormValue("visibility")))),
		})
		if err != nil {
			var ve *validate.Error
			if errors.As(err, &ve) {
				fail(http.StatusBadRequest, ve.Message)
				return
			}
			// Los mensajes de Analyze son propios, no del colaborador.
			fail(respond.StatusFor(err), backend.MessageOf(err, "image analysis failed, please try again later"))
			return
		}

		respond.JSON(w, http.StatusOK, analyzeResponse{Success: true, Data: ToRecordResponse(rec)})
	}
}

// @Summary  Identify history of the current user
// @Tags     identify
// @Produce  json
// @Security BearerAuth
// @Param    limit query int false "max 50"
// @Success  200 {object} respond.Envelope{data=[]RecordResponse}
// @Failure  401 {object} respond.ErrorBody
// @Router   /api/identify/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := svc.History(r.Context(), claims.UserID, limit)
		if err != nil {
			respond.Fail(w, err, "failed to load identify history")
			return
		}

		out := make([]RecordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, ToRecordResponse(rec))
		}
		respond.Data(w, http.StatusOK, "ok", out)
	}
}

// @Summary  Identify record
// @Tags     identify
// @Produce  json
// @Param    recordID path string true "record id"
// @Success  200 {object} RecordResponse
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/identify/{recordID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "recordID"), middleware.UserID(r.Context()))
		if err != nil {
			respond.Fail(w, err, "failed to load identify result")
			return
		}
		respond.JSON(w, http.StatusOK, ToRecordResponse(rec))
	}
}

func ToRecordResponse(rec Record) RecordResponse {
	results := make([]ResultResponse, 0, len(rec.Results))
	for _, r := range rec.Results {
		results = append(results, ResultResponse{Breed: r.Breed, Percentage: r.Percentage, Confidence: r.Confidence})
	}
	var uid *string
	if rec.UserID != "" {
		u := rec.UserID
		uid = &u
	}
	return RecordResponse{
		ID:          rec.ID,
		ImageURL:    rec.ImageURL,
		Results:     results,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		UserID:      uid,
		IsPublic:    rec.IsPublic,
		PostID:      rec.PostID,
	}
}
