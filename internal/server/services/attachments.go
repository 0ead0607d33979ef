package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devhubhq/devhub/internal/common"
	sc "github.com/devhubhq/devhub/internal/server/config"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// presignExpiry bounds how long an issued upload/download URL stays valid.
const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService links task attachments to an S3-compatible object store.
// The server never proxies file bodies; clients upload and download through
// presigned URLs.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{db: db, repomanager: m, config: config}
}

// GetRandomStorageKey produces a date-partitioned object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("tasks/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) getPresignedPutUrl(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

func (s *AttachmentService) getPresignedGetUrl(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// CreateUpload registers a pending attachment on the task and returns it
// together with a presigned PUT URL for the client to upload the body.
func (s *AttachmentService) CreateUpload(ctx context.Context, taskID, fileName string) (*models.Attachment, string, error) {
	if fileName == "" {
		return nil, "", NewValidationError("File name can't be blank")
	}

	if _, err := s.repomanager.Tasks(s.db).GetByID(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", errors.New("Task not found")
		}
		return nil, "", fmt.Errorf("error searching task: %w", err)
	}

	storageKey, url, err := s.getPresignedPutUrl(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	attachment := &models.Attachment{
		TaskID:       taskID,
		FileName:     fileName,
		StorageKey:   storageKey,
		UploadStatus: models.AttachmentPending,
	}

	attachment, err = s.repomanager.Attachments(s.db).Create(ctx, attachment)
	if err != nil {
		return nil, "", fmt.Errorf("error creating attachment: %w", err)
	}

	return attachment, url, nil
}

// ConfirmUpload marks an attachment as uploaded once the client finished
// the presigned PUT.
func (s *AttachmentService) ConfirmUpload(ctx context.Context, id string) (*models.Attachment, error) {
	repo := s.repomanager.Attachments(s.db)

	if err := repo.MarkUploaded(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errors.New("Attachment not found")
		}
		return nil, fmt.Errorf("error updating attachment: %w", err)
	}

	attachment, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error searching attachment: %w", err)
	}
	return attachment, nil
}

// DownloadURL returns a presigned GET URL for an uploaded attachment.
func (s *AttachmentService) DownloadURL(ctx context.Context, id string) (string, error) {
	attachment, err := s.repomanager.Attachments(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", errors.New("Attachment not found")
		}
		return "", fmt.Errorf("error searching attachment: %w", err)
	}

	if attachment.UploadStatus != models.AttachmentUploaded {
		return "", NewValidationError("Attachment has not been uploaded")
	}

	url, err := s.getPresignedGetUrl(ctx, attachment.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}

func (s *AttachmentService) ListByTask(ctx context.Context, taskID string) ([]*models.Attachment, error) {
	return s.repomanager.Attachments(s.db).ListByTask(ctx, taskID)
}
