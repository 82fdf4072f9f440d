package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/filestorage"
)

// FileUpload is a file received from a multipart form
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadStore records an uploaded file and attaches its URL to the owning row
type UploadStore interface {
	CreateFile(ctx context.Context, file *models.File) (int64, error)
	SetCourseSyllabus(ctx context.Context, institutionID, courseID int64, url string) (*models.Course, error)
	SetInstitutionLogo(ctx context.Context, institutionID int64, url string) (*models.InstitutionProfile, error)
}

type uploadPolicy struct {
	folder       string
	resource     models.FileResourceType
	maxSize      int64
	contentTypes []string
}

var (
	syllabusPolicy = uploadPolicy{
		folder:   "syllabi",
		resource: models.FileCourseSyllabus,
		maxSize:  10 << 20,
		contentTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
	logoPolicy = uploadPolicy{
		folder:       "logos",
		resource:     models.FileInstitutionLogo,
		maxSize:      2 << 20,
		contentTypes: []string{"image/png", "image/jpeg", "image/webp", "image/gif"},
	}
)

func (p uploadPolicy) check(u FileUpload) (string, error) {
	if u.Body == nil || u.Size == 0 {
		return "", apperrors.NewValidationError("file", "file is empty")
	}
	if u.Size > p.maxSize {
		return "", apperrors.NewValidationError("file", fmt.Sprintf("file exceeds %d MB", p.maxSize>>20))
	}
	mediaType, _, _ := strings.Cut(u.ContentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, allowed := range p.contentTypes {
		if mediaType == allowed {
			return mediaType, nil
		}
	}
	return "", apperrors.NewValidationError("file", "unsupported file type '"+mediaType+"'")
}

// uploader stores objects and records them. When the database part fails the
// stored object is deleted again.
type uploader struct {
	storage filestorage.FileStorage
	inTx    TxRunner[UploadStore]
	logger  zerolog.Logger
}

func storeUpload[T any](ctx context.Context, up uploader, policy uploadPolicy, u FileUpload, resourceID, uploaderID int64,
	attach func(ctx context.Context, store UploadStore, url string) (*T, error)) (*T, error) {
	mediaType, err := policy.check(u)
	if err != nil {
		return nil, err
	}

	obj, err := up.storage.Save(ctx, policy.folder, u.Filename, u.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	var result *T
	err = up.inTx(ctx, func(ctx context.Context, store UploadStore) error {
		_, err := store.CreateFile(ctx, &models.File{
			FileName:     u.Filename,
			FileURL:      obj.URL,
			FileSize:     obj.Size,
			FileType:     mediaType,
			ResourceType: policy.resource,
			ResourceID:   &resourceID,
			UploadedBy:   &uploaderID,
		})
		if err != nil {
			return fmt.Errorf("record file: %w", err)
		}
		result, err = attach(ctx, store, obj.URL)
		return err
	})
	if err != nil {
		if delErr := up.storage.Delete(context.WithoutCancel(ctx), obj.Key); delErr != nil {
			up.logger.Error().Err(delErr).Str("key", obj.Key).Msg("Failed to delete orphaned upload")
		}
		return nil, err
	}

	up.logger.Info().Str("resourceType", string(policy.resource)).Int64("resourceID", resourceID).
		Str("url", obj.URL).Msg("File uploaded")
	return result, nil
}
