package identify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-breed-social/internal/domain/breeds"
	"dog-breed-social/internal/domain/posts"
	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
	"dog-breed-social/internal/ports/classifier"
	"dog-breed-social/internal/ports/objects"
)

const (
	DefaultBucket   = "dog-images"
	DefaultMaxBytes = 10 << 20

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 50

	anonymousOwner = "anonymous"
)

// BreedCatalog es lo único que identify necesita del catálogo.
type BreedCatalog interface {
	GetByName(ctx context.Context, name string) (breeds.Breed, error)
}

type Options struct {
	Bucket   string
	MaxBytes int64
}

// Recorder recibe el resultado de cada análisis (metrics.Collector).
type Recorder interface {
	RecordAnalysis(outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, time.Duration) {}

type Service struct {
	repo     Repository
	storage  objects.Storage
	model    classifier.Classifier
	catalog  BreedCatalog
	bucket   string
	maxBytes int64
	log      logger.Logger
	metrics  Recorder

	now    func() time.Time
	suffix func() string
}

func NewService(repo Repository, storage objects.Storage, model classifier.Classifier, catalog BreedCatalog, opts Options, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Service{
		repo:     repo,
		storage:  storage,
		model:    model,
		catalog:  catalog,
		bucket:   opts.Bucket,
		maxBytes: opts.MaxBytes,
		log:      log.With(map[string]any{"module": "identify"}),
		metrics:  nopRecorder{},
		now:      time.Now,
		suffix:   func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// WithRecorder: nil deja el recorder nop.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.metrics = r
	}
	return s
}

type AnalyzeInput struct {
	UserID      string // "" = anónimo
	FileName    string
	ContentType string
	Data        []byte
	Visibility  Visibility
}

// Analyze: validar imagen -> subir -> clasificar -> validar resultados -> describir -> persistir.
// Usuarios autenticados con visibilidad pública además obtienen un post publicado (misma transacción).
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (Record, error) {
	start := time.Now()
	rec, err := s.analyze(ctx, in)

	outcome := "ok"
	var ve *validate.Error
	switch {
	case errors.As(err, &ve):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	s.metrics.RecordAnalysis(outcome, time.Since(start))
	return rec, err
}

func (s *Service) analyze(ctx context.Context, in AnalyzeInput) (Record, error) {
	if len(in.Data) == 0 {
		return Record{}, validate.Field("image", "please upload an image")
	}
	if int64(len(in.Data)) > s.maxBytes {
		return Record{}, validate.Field("image", "image must be at most %d MB", s.maxBytes>>20)
	}
	contentType := detectContentType(in.ContentType, in.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return Record{}, validate.Field("image", "please upload a valid image file")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if visibility != VisibilityPublic && visibility != VisibilityPrivate {
		return Record{}, validate.Field("visibility", "visibility must be public or private")
	}

	op := map[string]any{"op": "identify.analyze", "user_id": in.UserID}
	now := s.now().UTC()

	predictions, err := s.model.Classify(ctx, in.Data, contentType)
	if err != nil {
		s.log.Error("classification failed", withErr(op, err))
		return Record{}, backend.Wrap(backend.KindUnavailable, "image analysis failed, please try again later", err)
	}

	results := make([]Result, 0, len(predictions))
	for _, p := range predictions {
		results = append(results, Result{Breed: p.Breed, Percentage: p.Percentage, Confidence: p.Confidence})
	}
	results = SortResults(results)
	if err := ValidateResults(results); err != nil {
		s.log.Error("classifier returned invalid results", withErr(op, err))
		return Record{}, backend.Wrap(backend.KindInternal, "image analysis failed, please try again later", err)
	}

	// la imagen se sube recién con un resultado válido.
	objectPath := s.objectPath(in.UserID, in.FileName, contentType, now)
	imageURL, err := s.storage.Upload(ctx, s.bucket, objectPath, contentType, bytes.NewReader(in.Data))
	if err != nil {
		s.log.Error("image upload failed", withErr(op, err))
		return Record{}, backend.Wrap(backend.KindUnavailable, "image upload failed", err)
	}
	op["object"] = objectPath

	primary := s.lookupBreed(ctx, results[0].Breed)

	rec := Record{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ImageURL:    imageURL,
		Results:     results,
		Description: Describe(results, primary),
		IsPublic:    visibility == VisibilityPublic,
		CreatedAt:   now,
	}

	if in.UserID == "" || visibility == VisibilityPrivate {
		if err := s.repo.Create(ctx, rec); err != nil {
			s.log.Error("save identify record failed", withErr(op, err))
			return Record{}, backend.Wrap(backend.KindInternal, "failed to save identify record", err)
		}
		return rec, nil
	}

	post := s.postFor(rec, primary)
	rec.PostID = &post.ID
	if err := s.repo.CreateWithPost(ctx, rec, post); err != nil {
		s.log.Error("save identify record with post failed", withErr(op, err))
		return Record{}, backend.Wrap(backend.KindInternal, "failed to save identify record", err)
	}
	return rec, nil
}

func (s *Service) postFor(rec Record, primary *breeds.Breed) posts.Post {
	breedTags := make([]string, 0, len(rec.Results))
	for _, r := range rec.Results {
		breedTags = append(breedTags, r.Breed)
	}
	topicTags := []string{}
	if primary != nil {
		topicTags = append(topicTags, primary.Personality...)
	}
	rid := rec.ID
	return posts.Post{
		ID:               uuid.NewString(),
		UserID:           rec.UserID,
		IdentifyRecordID: &rid,
		Description:      rec.Description,
		BreedTags:        breedTags,
		TopicTags:        topicTags,
		Media:            []string{rec.ImageURL},
		Status:           posts.StatusPublished,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.CreatedAt,
	}
}

// lookupBreed: un breed que no está en el catálogo no es error, solo acorta la descripción.
func (s *Service) lookupBreed(ctx context.Context, name string) *breeds.Breed {
	if s.catalog == nil {
		return nil
	}
	b, err := s.catalog.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			s.log.Warn("breed lookup failed", map[string]any{"op": "identify.analyze", "breed": name, "err": err})
		}
		return nil
	}
	return &b
}

// Get: records privados solo para su dueño; para el resto no existen.
func (s *Service) Get(ctx context.Context, id, callerID string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return Record{}, backend.NotFound("identify record not found")
		}
		s.log.Error("get identify record failed", map[string]any{"op": "identify.get", "record_id": id, "err": err})
		return Record{}, err
	}
	if !rec.IsPublic && rec.UserID != callerID {
		return Record{}, backend.NotFound("identify record not found")
	}
	return rec, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, backend.Unauthorized("unauthorized")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	items, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		s.log.Error("identify history failed", map[string]any{"op": "identify.history", "user_id": userID, "err": err})
		return nil, err
	}
	return items, nil
}

// RecordOwner implementa posts.RecordOwners.
func (s *Service) RecordOwner(ctx context.Context, recordID string) (string, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}

func (s *Service) objectPath(userID, fileName, contentType string, now time.Time) string {
	owner := strings.TrimSpace(userID)
	if owner == "" {
		owner = anonymousOwner
	}
	return fmt.Sprintf("%s/%d-%s.%s", owner, now.UnixMilli(), s.suffix(), extension(fileName, contentType))
}

func detectContentType(declared string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
	}
	return ct
}

func extension(fileName, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.TrimSpace(fileName)), "."))
	if ext != "" && len(ext) <= 5 && isAlnum(ext) {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	default:
		return "img"
	}
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func withErr(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["err"] = err
	return out
}
