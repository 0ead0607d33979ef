package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/devhubhq/devhub/internal/server/config"
	"github.com/devhubhq/devhub/internal/server/models"
)

func stubPresign(t *testing.T, putURL, getURL string, putErr, getErr error) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origPut := presignPutObject
	origGet := presignGetObject

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if putErr != nil {
			return nil, putErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if getErr != nil {
			return nil, getErr
		}
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}

	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func newAttachmentService(t *testing.T, m *fakeRepoManager) *AttachmentService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	cfg := &sc.Config{S3Bucket: "attachments", S3Region: "us-east-1"}
	return NewAttachmentService(db, m, cfg)
}

func TestCreateUpload_Success(t *testing.T) {
	stubPresign(t, "http://signed.example/put", "", nil, nil)

	m := newFakeRepoManager()
	m.t.tasks["t-1"] = &models.Task{ID: "t-1", Title: "X", Status: models.TaskStatusPending}
	s := newAttachmentService(t, m)

	attachment, url, err := s.CreateUpload(context.Background(), "t-1", "design.pdf")
	if err != nil {
		t.Fatalf("CreateUpload error: %v", err)
	}
	if url != "http://signed.example/put" {
		t.Errorf("unexpected url: %q", url)
	}
	if attachment.UploadStatus != models.AttachmentPending {
		t.Errorf("expected pending status, got %q", attachment.UploadStatus)
	}
	if attachment.StorageKey == "" {
		t.Error("expected storage key to be set")
	}
}

func TestCreateUpload_UnknownTask(t *testing.T) {
	stubPresign(t, "http://signed.example/put", "", nil, nil)
	s := newAttachmentService(t, newFakeRepoManager())

	_, _, err := s.CreateUpload(context.Background(), "t-missing", "design.pdf")
	if err == nil || err.Error() != "Task not found" {
		t.Fatalf("expected Task not found, got %v", err)
	}
}

func TestCreateUpload_PresignError(t *testing.T) {
	stubPresign(t, "", "", errors.New("s3 down"), nil)

	m := newFakeRepoManager()
	m.t.tasks["t-1"] = &models.Task{ID: "t-1", Title: "X", Status: models.TaskStatusPending}
	s := newAttachmentService(t, m)

	_, _, err := s.CreateUpload(context.Background(), "t-1", "design.pdf")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestConfirmUpload_ThenDownloadURL(t *testing.T) {
	stubPresign(t, "", "http://signed.example/get", nil, nil)

	m := newFakeRepoManager()
	m.at.attachments["at-1"] = &models.Attachment{
		ID: "at-1", TaskID: "t-1", FileName: "design.pdf",
		StorageKey: "tasks/2026/1/1/key", UploadStatus: models.AttachmentPending,
	}
	s := newAttachmentService(t, m)

	attachment, err := s.ConfirmUpload(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("ConfirmUpload error: %v", err)
	}
	if attachment.UploadStatus != models.AttachmentUploaded {
		t.Fatalf("expected uploaded status, got %q", attachment.UploadStatus)
	}

	url, err := s.DownloadURL(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("DownloadURL error: %v", err)
	}
	if url != "http://signed.example/get" {
		t.Errorf("unexpected url: %q", url)
	}
}

func TestDownloadURL_PendingAttachment(t *testing.T) {
	stubPresign(t, "", "http://signed.example/get", nil, nil)

	m := newFakeRepoManager()
	m.at.attachments["at-1"] = &models.Attachment{
		ID: "at-1", TaskID: "t-1", UploadStatus: models.AttachmentPending,
	}
	s := newAttachmentService(t, m)

	_, err := s.DownloadURL(context.Background(), "at-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
