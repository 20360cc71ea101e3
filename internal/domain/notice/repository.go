package notice

import "context"

type NoticeRepository interface {
	Create(ctx context.Context, n Notice) (Notice, error)
	GetByID(ctx context.Context, id string) (Notice, error)

	// List returns every notice, newest first
	List(ctx context.Context) ([]Notice, error)

	Delete(ctx context.Context, id string) error
}
