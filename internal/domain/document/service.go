package document

import (
	"context"
	"io"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type DocumentService interface {
	Upload(ctx context.Context, actor user.Actor, req UploadRequest) (DocumentResponse, error)
	ListMine(ctx context.Context, actor user.Actor) ([]DocumentResponse, error)

	// Delete withdraws one of the actor's documents while it is pending
	Delete(ctx context.Context, actor user.Actor, id string) error

	// Admin review
	List(ctx context.Context, actor user.Actor, req ListRequest) ([]DocumentResponse, error)
	Respond(ctx context.Context, actor user.Actor, req RespondRequest) (DocumentResponse, error)

	// Open and OpenResponse return the document and a reader over the
	// requested file. The caller closes it.
	Open(ctx context.Context, actor user.Actor, id string) (Document, io.ReadCloser, error)
	OpenResponse(ctx context.Context, actor user.Actor, id string) (Document, io.ReadCloser, error)
}
