package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// Photo upload failure modes.
var (
	ErrPhotoTooLarge     = errors.New("photo exceeds maximum allowed size")
	ErrPhotoNotImage     = errors.New("photo must be a jpeg, png or webp image")
	ErrPhotoFileRequired = errors.New("photo file is required")
)

// AvatarStorage abstracts the profile photo store.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, username string, reader io.Reader) (string, error)
}

// ProfileService exposes profile page operations.
type ProfileService interface {
	Get(ctx context.Context, username string, viewer access.Viewer) (dto.ProfileResponse, error)
	Update(ctx context.Context, username string, viewer access.Viewer, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
	UploadPhoto(ctx context.Context, username string, viewer access.Viewer, file *multipart.FileHeader) (dto.ProfilePhotoResponse, error)
	ResolveUser(ctx context.Context, username string) (models.User, error)
	FullAccess(ctx context.Context, owner models.User, viewer access.Viewer) (bool, error)
}

type profileService struct {
	users     repository.UserRepository
	storage   AvatarStorage
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxPhoto  int64
}

// NewProfileService constructs the profile service.
func NewProfileService(users repository.UserRepository, storage AvatarStorage, validate *validator.Validate, maxPhotoMB int, logger zerolog.Logger) ProfileService {
	if maxPhotoMB <= 0 {
		maxPhotoMB = 5
	}
	return &profileService{
		users:     users,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "profile_service").Logger(),
		tracer:    otel.Tracer("github.com/prp-platform/prp-api/internal/service/profile"),
		maxPhoto:  int64(maxPhotoMB) * 1024 * 1024,
	}
}

func (s *profileService) ResolveUser(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FullAccess computes the server-side capability flag: administrators and
// explicitly granted delegates have full access over the profile. The flag
// always wins over the identity comparison when set.
func (s *profileService) FullAccess(ctx context.Context, owner models.User, viewer access.Viewer) (bool, error) {
	if viewer.Anonymous() {
		return false, nil
	}
	if viewer.Role == models.RoleAdministrator {
		return true, nil
	}
	return s.users.HasAccessGrant(ctx, owner.ID, viewer.UserID)
}

func (s *profileService) Get(ctx context.Context, username string, viewer access.Viewer) (dto.ProfileResponse, error) {
	user, err := s.ResolveUser(ctx, username)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	fullAccess, err := s.FullAccess(ctx, user, viewer)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	canEdit := access.CanEdit(viewer, user.ID, fullAccess)
	return dto.NewProfileResponse(user, fullAccess, canEdit), nil
}

func (s *profileService) Update(ctx context.Context, username string, viewer access.Viewer, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	user, err := s.ResolveUser(ctx, username)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	fullAccess, err := s.FullAccess(ctx, user, viewer)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	if !access.CanEdit(viewer, user.ID, fullAccess) {
		return dto.ProfileResponse{}, ErrForbidden
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.ProfileInfo != nil {
		if user.ProfileInfo == nil {
			user.ProfileInfo = map[string]interface{}{}
		}
		for key, value := range req.ProfileInfo {
			user.ProfileInfo[key] = value
		}
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Str("username", user.Username).Uint("viewer_id", viewer.UserID).Msg("profile updated")

	return dto.NewProfileResponse(user, fullAccess, true), nil
}

func (s *profileService) UploadPhoto(ctx context.Context, username string, viewer access.Viewer, file *multipart.FileHeader) (dto.ProfilePhotoResponse, error) {
	ctx, span := s.tracer.Start(ctx, "profile.upload_photo", trace.WithAttributes(
		attribute.String("profile.username", username),
	))
	defer span.End()

	user, err := s.ResolveUser(ctx, username)
	if err != nil {
		span.RecordError(err)
		return dto.ProfilePhotoResponse{}, err
	}

	fullAccess, err := s.FullAccess(ctx, user, viewer)
	if err != nil {
		return dto.ProfilePhotoResponse{}, err
	}
	if !access.CanEdit(viewer, user.ID, fullAccess) {
		span.SetStatus(codes.Error, "forbidden")
		return dto.ProfilePhotoResponse{}, ErrForbidden
	}

	if file == nil {
		return dto.ProfilePhotoResponse{}, ErrPhotoFileRequired
	}
	if file.Size > s.maxPhoto {
		span.SetStatus(codes.Error, "payload too large")
		return dto.ProfilePhotoResponse{}, ErrPhotoTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.ProfilePhotoResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxPhoto+1)); err != nil {
		span.RecordError(err)
		return dto.ProfilePhotoResponse{}, err
	}
	if int64(buf.Len()) > s.maxPhoto {
		return dto.ProfilePhotoResponse{}, ErrPhotoTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !allowedPhotoType(detected.String()) {
		span.SetStatus(codes.Error, "unsupported media type")
		return dto.ProfilePhotoResponse{}, fmt.Errorf("%w, got %s", ErrPhotoNotImage, detected.String())
	}

	imageURL, err := s.storage.UploadAvatar(ctx, user.Username, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		return dto.ProfilePhotoResponse{}, err
	}

	if err := s.users.UpdateImageURL(ctx, user.ID, imageURL); err != nil {
		span.RecordError(err)
		return dto.ProfilePhotoResponse{}, err
	}

	s.logger.Info().Str("username", user.Username).Msg("profile photo updated")

	return dto.ProfilePhotoResponse{ImageURL: imageURL}, nil
}

func allowedPhotoType(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}
