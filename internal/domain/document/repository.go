package document

import (
	"context"
	"time"
)

// ListFilter narrows the admin listing. Uploads are matched on
// From <= uploaded_at < To.
type ListFilter struct {
	UserID       *string
	DepartmentID *string
	Status       *Status
	From         *time.Time
	To           *time.Time
	Search       string
}

type DocumentRepository interface {
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	GetByIDForUpdate(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filter ListFilter) ([]Document, error)

	// Respond stores Status and the response fields
	Respond(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
}
