package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/studyswaps/learning-service/internal/validator"
)

// MaxUploadBytes caps uploaded study material
const MaxUploadBytes = 1 << 20

var textExtensions = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
}

type revisionService struct {
	repo      repositories.Repository
	generator generator.Generator
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger
}

func NewRevisionService(
	repo repositories.Repository,
	gen generator.Generator,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) RevisionService {
	return &revisionService{
		repo:      repo,
		generator: gen,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		ops:       NewServiceLogger(logger, "revision"),
	}
}

// ===== UPLOADS =====

func (s *revisionService) Upload(ctx context.Context, userID string, req *UploadRequest) (upload *models.FileUpload, err error) {
	op := s.ops.WithOperation(ctx, "upload_file", userID)
	defer func() {
		id := ""
		if upload != nil {
			id = upload.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if len(req.Content) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(req.Content), MaxUploadBytes)
	}

	contentType, ok := textContentType(req.Filename, req.ContentType)
	if !ok || !utf8.Valid(req.Content) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, req.Filename)
	}

	upload = &models.FileUpload{
		UserID:        userID,
		Filename:      uuid.NewString() + strings.ToLower(filepath.Ext(req.Filename)),
		OriginalName:  filepath.Base(req.Filename),
		ContentType:   contentType,
		Size:          int64(len(req.Content)),
		Subject:       strings.TrimSpace(req.Subject),
		Topic:         strings.TrimSpace(req.Topic),
		ExtractedText: strings.TrimSpace(string(req.Content)),
	}
	if err := s.repo.FileUpload().Create(ctx, nil, upload); err != nil {
		return nil, storeError("save upload", err)
	}
	return upload, nil
}

func (s *revisionService) ListUploads(ctx context.Context, userID string) ([]*models.FileUpload, error) {
	uploads, err := s.repo.FileUpload().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storeError("list uploads", err)
	}
	return uploads, nil
}

// textContentType accepts a file when either its declared type or its extension is text-like
func textContentType(filename, declared string) (string, bool) {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		if strings.HasPrefix(mediaType, "text/") || mediaType == "application/json" {
			return mediaType, true
		}
	}
	if ct, ok := textExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct, true
	}
	return "", false
}

// ===== REVISION GUIDES =====

func (s *revisionService) GenerateGuide(ctx context.Context, userID string, req *RevisionGuideRequest) (guide *models.RevisionGuide, err error) {
	op := s.ops.WithOperation(ctx, "generate_revision_guide", userID)
	defer func() {
		id := ""
		if guide != nil {
			id = guide.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var sourceText string
	if req.UploadID != nil {
		upload, err := s.repo.FileUpload().GetByID(ctx, nil, *req.UploadID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUploadNotFound
			}
			return nil, storeError("load upload", err)
		}
		if upload.UserID != userID {
			s.ops.LogSecurityEvent(ctx, SecurityEventCrossAccessDenied, "upload owned by another user",
				"user_id", userID,
				"upload_id", upload.ID)
			return nil, ErrUploadNotFound
		}
		sourceText = upload.ExtractedText
	}

	content, err := s.generator.GenerateRevisionGuide(ctx, generator.GuideRequest{
		Subject:    req.Subject,
		Topic:      req.Topic,
		KeyStage:   req.KeyStage,
		SourceText: sourceText,
	})
	if err != nil {
		return nil, err
	}

	guide = &models.RevisionGuide{
		UserID:       userID,
		Subject:      req.Subject,
		Topic:        req.Topic,
		KeyStage:     req.KeyStage,
		FileUploadID: req.UploadID,
		Content:      content,
	}
	if err := s.repo.RevisionGuide().Create(ctx, nil, guide); err != nil {
		return nil, storeError("save revision guide", err)
	}

	uploadID := ""
	if req.UploadID != nil {
		uploadID = *req.UploadID
	}
	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.EventRevisionGuideGenerated, events.RevisionGuideGeneratedEvent{
		GuideID:  guide.ID,
		UserID:   userID,
		Subject:  guide.Subject,
		Topic:    guide.Topic,
		UploadID: uploadID,
	}))

	return guide, nil
}

func (s *revisionService) ListGuides(ctx context.Context, userID string) ([]*models.RevisionGuide, error) {
	guides, err := s.repo.RevisionGuide().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storeError("list revision guides", err)
	}
	return guides, nil
}
