package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
)

type DocumentServiceImpl struct {
	tx postgresql.Transactor
	document.DocumentRepository
	fileService file.FileService
	loc         *time.Location
	now         func() time.Time
}

func NewDocumentService(
	tx postgresql.Transactor,
	repo document.DocumentRepository,
	fileService file.FileService,
	loc *time.Location,
	now func() time.Time,
) document.DocumentService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DocumentServiceImpl{
		tx:                 tx,
		DocumentRepository: repo,
		fileService:        fileService,
		loc:                loc,
		now:                now,
	}
}

func (s *DocumentServiceImpl) store(ctx context.Context, u document.Upload, dir string) (document.File, error) {
	stored, err := s.fileService.UploadAttachment(ctx, u.File, u.FileName, u.ContentType, dir)
	if err != nil {
		return document.File{}, err
	}
	return document.File{
		FileName:    stored.DisplayName(u.FileName),
		ObjectKey:   stored.Path,
		ContentType: stored.ContentType,
		SizeBytes:   stored.Size,
	}, nil
}

func (s *DocumentServiceImpl) discard(ctx context.Context, key string) {
	if err := s.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("failed to delete orphaned document file", "key", key, "error", err)
	}
}

// Upload implements document.DocumentService.
func (s *DocumentServiceImpl) Upload(ctx context.Context, actor user.Actor, req document.UploadRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	f, err := s.store(ctx, req.Upload, path.Join("documents", actor.UserID))
	if err != nil {
		return document.DocumentResponse{}, err
	}

	created, err := s.Create(ctx, document.Document{
		UserID:  actor.UserID,
		File:    f,
		Message: req.Message,
		Status:  document.StatusPending,
	})
	if err != nil {
		s.discard(ctx, f.ObjectKey)
		return document.DocumentResponse{}, err
	}

	slog.Info("document uploaded", "document_id", created.ID, "user_id", actor.UserID)
	return s.toResponse(ctx, created)
}

// ListMine implements document.DocumentService.
func (s *DocumentServiceImpl) ListMine(ctx context.Context, actor user.Actor) ([]document.DocumentResponse, error) {
	docs, err := s.DocumentRepository.List(ctx, document.ListFilter{UserID: &actor.UserID})
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, docs)
}

// Delete implements document.DocumentService.
func (s *DocumentServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	var key string
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		doc, err := s.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if doc.UserID != actor.UserID {
			return document.ErrDocumentNotFound
		}
		if doc.Status != document.StatusPending {
			return document.ErrDocumentAlreadyReviewed
		}
		key = doc.File.ObjectKey
		return s.DocumentRepository.Delete(txCtx, doc.ID)
	})
	if err != nil {
		return err
	}

	s.discard(ctx, key)
	slog.Info("document deleted", "document_id", id, "user_id", actor.UserID)
	return nil
}

// List implements document.DocumentService.
func (s *DocumentServiceImpl) List(ctx context.Context, actor user.Actor, req document.ListRequest) ([]document.DocumentResponse, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrAdminPrivilegeRequired
	}
	filter, err := req.ToFilter(s.loc)
	if err != nil {
		return nil, err
	}

	docs, err := s.DocumentRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, docs)
}

// Respond implements document.DocumentService.
func (s *DocumentServiceImpl) Respond(ctx context.Context, actor user.Actor, req document.RespondRequest) (document.DocumentResponse, error) {
	if !actor.IsAdmin() {
		return document.DocumentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	// Reject early so no response file is stored for a closed document
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if current.Status != document.StatusPending {
		return document.DocumentResponse{}, document.ErrDocumentAlreadyReviewed
	}

	var respFile *document.File
	if req.Upload.Present() {
		f, err := s.store(ctx, req.Upload, path.Join("documents", "responses", current.ID))
		if err != nil {
			return document.DocumentResponse{}, err
		}
		respFile = &f
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		doc, err := s.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if doc.Status != document.StatusPending {
			return document.ErrDocumentAlreadyReviewed
		}

		at := s.now()
		doc.Status = document.Status(req.Status)
		doc.ResponseMessage = &req.Message
		doc.ResponseFile = respFile
		doc.RespondedBy = &actor.UserID
		doc.RespondedAt = &at
		return s.DocumentRepository.Respond(txCtx, doc)
	})
	if err != nil {
		if respFile != nil {
			s.discard(ctx, respFile.ObjectKey)
		}
		return document.DocumentResponse{}, err
	}

	slog.Info("document reviewed", "document_id", req.ID, "status", req.Status, "reviewed_by", actor.UserID)

	updated, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return s.toResponse(ctx, updated)
}

func (s *DocumentServiceImpl) visible(ctx context.Context, actor user.Actor, id string) (document.Document, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	if !actor.IsAdmin() && doc.UserID != actor.UserID {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return doc, nil
}

// Open implements document.DocumentService.
func (s *DocumentServiceImpl) Open(ctx context.Context, actor user.Actor, id string) (document.Document, io.ReadCloser, error) {
	doc, err := s.visible(ctx, actor, id)
	if err != nil {
		return document.Document{}, nil, err
	}
	rc, err := s.fileService.OpenFile(ctx, doc.File.ObjectKey)
	if err != nil {
		return document.Document{}, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, rc, nil
}

// OpenResponse implements document.DocumentService.
func (s *DocumentServiceImpl) OpenResponse(ctx context.Context, actor user.Actor, id string) (document.Document, io.ReadCloser, error) {
	doc, err := s.visible(ctx, actor, id)
	if err != nil {
		return document.Document{}, nil, err
	}
	if doc.ResponseFile == nil {
		return document.Document{}, nil, document.ErrResponseFileNotFound
	}
	rc, err := s.fileService.OpenFile(ctx, doc.ResponseFile.ObjectKey)
	if err != nil {
		return document.Document{}, nil, fmt.Errorf("failed to open response file: %w", err)
	}
	return doc, rc, nil
}

func (s *DocumentServiceImpl) toResponses(ctx context.Context, docs []document.Document) ([]document.DocumentResponse, error) {
	responses := make([]document.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		r, err := s.toResponse(ctx, d)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

func (s *DocumentServiceImpl) fileResponse(ctx context.Context, f document.File) (document.FileResponse, error) {
	url, err := s.fileService.GetFileURL(ctx, f.ObjectKey, 0)
	if err != nil {
		return document.FileResponse{}, fmt.Errorf("failed to build document url: %w", err)
	}
	return document.FileResponse{
		FileName:    f.FileName,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		URL:         url,
	}, nil
}

func (s *DocumentServiceImpl) toResponse(ctx context.Context, d document.Document) (document.DocumentResponse, error) {
	fr, err := s.fileResponse(ctx, d.File)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	resp := document.DocumentResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		UserName:       d.UserName,
		UserEmail:      d.UserEmail,
		DepartmentID:   d.DepartmentID,
		DepartmentName: d.DepartmentName,
		File:           fr,
		Message:        d.Message,
		Status:         d.Status,
		UploadedAt:     d.UploadedAt.In(s.loc).Format("2006-01-02 15:04:05"),
	}

	if d.Status == document.StatusPending {
		return resp, nil
	}
	resp.Response = &document.ResponseResponse{
		Message:     d.ResponseMessage,
		RespondedBy: d.RespondedBy,
	}
	if d.RespondedAt != nil {
		at := d.RespondedAt.In(s.loc).Format("2006-01-02 15:04:05")
		resp.Response.RespondedAt = &at
	}
	if d.ResponseFile != nil {
		rf, err := s.fileResponse(ctx, *d.ResponseFile)
		if err != nil {
			return document.DocumentResponse{}, err
		}
		resp.Response.File = &rf
	}
	return resp, nil
}
