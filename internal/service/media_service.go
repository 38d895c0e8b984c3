package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const presignExpiry = 15 * time.Minute

// MediaUpload is the client's ticket for a direct-to-storage upload.
type MediaUpload struct {
	UploadURL   string `json:"upload_url"`
	StoragePath string `json:"storage_path"`
	Kind        string `json:"kind"`
}

// MediaService hands out presigned URLs for lesson resource files and
// links completed uploads to their lessons.
type MediaService interface {
	// InitiateUpload returns a presigned PUT URL. The resource kind is
	// derived from the content type: image, video or raw.
	InitiateUpload(ctx context.Context, userID, filename, contentType string) (*MediaUpload, error)
	GetDownloadURL(ctx context.Context, storagePath string) (string, error)
	// AttachResource records an uploaded file against a lesson.
	AttachResource(ctx context.Context, lessonID, name, url, kind string) (*model.LessonResource, error)
}

type mediaService struct {
	lessonRepo    repository.LessonRepository
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	logger        zerolog.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(lessonRepo repository.LessonRepository, s3Client *s3.Client, bucketName string, logger zerolog.Logger) MediaService {
	return &mediaService{
		lessonRepo:    lessonRepo,
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		logger:        logger.With().Str("service", "MediaService").Logger(),
	}
}

// resourceKind buckets a MIME type the same way the upload UI does.
func resourceKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image"):
		return "image"
	case strings.HasPrefix(contentType, "video"):
		return "video"
	default:
		return "raw"
	}
}

func (s *mediaService) InitiateUpload(ctx context.Context, userID, filename, contentType string) (*MediaUpload, error) {
	kind := resourceKind(contentType)
	storagePath := fmt.Sprintf("edulearn/%s/file_%d_%s", userID, time.Now().UnixMilli(), path.Base(filename))

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storagePath),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("storage_path", storagePath).Msg("Failed to presign upload URL")
		return nil, fmt.Errorf("presigning upload URL: %w", err)
	}

	return &MediaUpload{
		UploadURL:   request.URL,
		StoragePath: storagePath,
		Kind:        kind,
	}, nil
}

// GetDownloadURL generates a signed URL for the given storage path
func (s *mediaService) GetDownloadURL(ctx context.Context, storagePath string) (string, error) {
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storagePath),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presigning download URL: %w", err)
	}
	return resp.URL, nil
}

func (s *mediaService) AttachResource(ctx context.Context, lessonID, name, url, kind string) (*model.LessonResource, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("getting lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	res := &model.LessonResource{
		LessonID: lessonID,
		Name:     name,
		URL:      url,
		Kind:     kind,
	}
	if err := s.lessonRepo.AddResource(ctx, res); err != nil {
		return nil, fmt.Errorf("attaching resource: %w", err)
	}
	return res, nil
}
