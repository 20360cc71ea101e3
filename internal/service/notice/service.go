package notice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
)

type NoticeServiceImpl struct {
	notice.NoticeRepository
	fileService file.FileService
	loc         *time.Location
}

func NewNoticeService(repo notice.NoticeRepository, fileService file.FileService, loc *time.Location) notice.NoticeService {
	if loc == nil {
		loc = time.UTC
	}
	return &NoticeServiceImpl{NoticeRepository: repo, fileService: fileService, loc: loc}
}

// Upload implements notice.NoticeService.
func (s *NoticeServiceImpl) Upload(ctx context.Context, actor user.Actor, req notice.UploadRequest) (notice.NoticeResponse, error) {
	if !actor.IsAdmin() {
		return notice.NoticeResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return notice.NoticeResponse{}, err
	}

	stored, err := s.fileService.UploadNoticeDocument(ctx, req.File, req.FileName, req.ContentType)
	if err != nil {
		return notice.NoticeResponse{}, err
	}

	created, err := s.Create(ctx, notice.Notice{
		FileName:    filepath.Base(req.FileName),
		ObjectKey:   stored.Path,
		ContentType: stored.ContentType,
		SizeBytes:   stored.Size,
		Description: req.Description,
		UploadedBy:  actor.UserID,
	})
	if err != nil {
		// Don't leave an orphaned document behind
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Error("failed to remove orphaned notice document", "path", stored.Path, "error", delErr)
		}
		return notice.NoticeResponse{}, err
	}

	slog.Info("notice uploaded", "notice_id", created.ID, "uploaded_by", actor.UserID, "size", created.SizeBytes)
	return s.toResponse(ctx, created)
}

// List implements notice.NoticeService.
func (s *NoticeServiceImpl) List(ctx context.Context) ([]notice.NoticeResponse, error) {
	notices, err := s.NoticeRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]notice.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		r, err := s.toResponse(ctx, n)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

// Open implements notice.NoticeService.
func (s *NoticeServiceImpl) Open(ctx context.Context, id string) (notice.Notice, io.ReadCloser, error) {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return notice.Notice{}, nil, err
	}

	rc, err := s.fileService.OpenFile(ctx, n.ObjectKey)
	if err != nil {
		return notice.Notice{}, nil, fmt.Errorf("failed to open notice document: %w", err)
	}
	return n, rc, nil
}

// Delete implements notice.NoticeService.
func (s *NoticeServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}

	n, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.NoticeRepository.Delete(ctx, n.ID); err != nil {
		return err
	}

	// The row is gone, so a leftover object is only wasted space
	if err := s.fileService.DeleteFile(ctx, n.ObjectKey); err != nil {
		slog.Error("failed to delete notice document", "notice_id", n.ID, "path", n.ObjectKey, "error", err)
	}

	slog.Info("notice deleted", "notice_id", n.ID, "deleted_by", actor.UserID)
	return nil
}

func (s *NoticeServiceImpl) toResponse(ctx context.Context, n notice.Notice) (notice.NoticeResponse, error) {
	url, err := s.fileService.GetFileURL(ctx, n.ObjectKey, 0)
	if err != nil {
		return notice.NoticeResponse{}, fmt.Errorf("failed to build notice url: %w", err)
	}

	return notice.NoticeResponse{
		ID:          n.ID,
		FileName:    n.FileName,
		ContentType: n.ContentType,
		SizeBytes:   n.SizeBytes,
		Description: n.Description,
		URL:         url,
		UploadedAt:  n.UploadedAt.In(s.loc).Format("2006-01-02 15:04:05"),
	}, nil
}
