package notice

import (
	"context"
	"io"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type NoticeService interface {
	// Upload stores the document and records the notice (admin)
	Upload(ctx context.Context, actor user.Actor, req UploadRequest) (NoticeResponse, error)

	List(ctx context.Context) ([]NoticeResponse, error)

	// Open returns the notice and a reader over its document. The caller closes it.
	Open(ctx context.Context, id string) (Notice, io.ReadCloser, error)

	Delete(ctx context.Context, actor user.Actor, id string) error
}
