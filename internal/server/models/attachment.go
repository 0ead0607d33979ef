package models

import "time"

// Attachment upload states.
const (
	AttachmentPending  = "pending"
	AttachmentUploaded = "uploaded"
)

// Attachment is a file linked to a task. The file body lives in object
// storage under StorageKey; the row tracks whether the client completed
// the presigned upload.
type Attachment struct {
	ID           string
	TaskID       string
	FileName     string
	StorageKey   string
	UploadStatus string
	CreatedAt    time.Time
}
