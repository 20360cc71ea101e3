package notice

import (
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
)

const MaxFileSize = storage.MaxUploadSize

type Notice struct {
	ID          string
	FileName    string
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	Description string
	UploadedBy  string
	UploadedAt  time.Time
}
