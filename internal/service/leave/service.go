package leave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
)

type LeaveServiceImpl struct {
	tx postgresql.Transactor
	leave.LeaveRepository
	fileService file.FileService
	loc         *time.Location
	now         func() time.Time
}

func NewLeaveService(
	tx postgresql.Transactor,
	repo leave.LeaveRepository,
	fileService file.FileService,
	loc *time.Location,
	now func() time.Time,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		tx:              tx,
		LeaveRepository: repo,
		fileService:     fileService,
		loc:             loc,
		now:             now,
	}
}

// Apply implements leave.LeaveService.
func (s *LeaveServiceImpl) Apply(ctx context.Context, actor user.Actor, req leave.ApplyRequest) (leave.LeaveApplicationResponse, error) {
	if err := req.Validate(s.loc); err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	app := leave.LeaveApplication{
		UserID:       actor.UserID,
		DepartmentID: actor.DepartmentID,
		Reason:       req.Reason,
		FromTime:     req.From,
		ToTime:       req.To,
		Status:       leave.StatusPending,
		HOD:          leave.Approval{Status: leave.ApprovalPending},
		CEO:          leave.Approval{Status: leave.ApprovalPending},
	}

	if req.HasAttachment() {
		stored, err := s.fileService.UploadAttachment(ctx, req.File, req.FileName, req.ContentType, path.Join("leave_applications", actor.UserID))
		if err != nil {
			return leave.LeaveApplicationResponse{}, err
		}
		app.Attachment = &leave.Attachment{
			FileName:    stored.DisplayName(req.FileName),
			ObjectKey:   stored.Path,
			ContentType: stored.ContentType,
			Size:        stored.Size,
		}
	}

	created, err := s.Create(ctx, app)
	if err != nil {
		if app.Attachment != nil {
			if delErr := s.fileService.DeleteFile(ctx, app.Attachment.ObjectKey); delErr != nil {
				slog.Error("failed to remove orphaned leave attachment", "path", app.Attachment.ObjectKey, "error", delErr)
			}
		}
		return leave.LeaveApplicationResponse{}, err
	}

	slog.Info("leave application submitted", "leave_id", created.ID, "user_id", actor.UserID)
	return s.toResponse(ctx, created)
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor) ([]leave.LeaveApplicationResponse, error) {
	apps, err := s.LeaveRepository.List(ctx, leave.ListFilter{UserID: &actor.UserID})
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, apps)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, actor user.Actor, req leave.ListRequest) (leave.ListLeaveResponse, error) {
	level, err := decisionLevel(actor)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	var filter leave.ListFilter
	if level == leave.LevelHOD {
		filter.DepartmentID = actor.DepartmentID
	}
	if req.Status != "" {
		st := leave.Status(req.Status)
		filter.Status = &st
	}
	if req.AwaitingMe {
		filter.Awaiting = level
	}

	apps, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	resp := leave.ListLeaveResponse{}
	resp.Applications, err = s.toResponses(ctx, apps)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	for _, a := range apps {
		resp.Counts.Add(a.Status)
	}
	return resp, nil
}

// decisionLevel maps a role to the approval step it acts on.
func decisionLevel(actor user.Actor) (leave.Level, error) {
	switch {
	case actor.IsAdmin():
		return leave.LevelCEO, nil
	case actor.Role == user.RoleDepartmentAdmin && actor.DepartmentID != nil:
		return leave.LevelHOD, nil
	}
	return "", user.ErrInsufficientPermissions
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, actor user.Actor, req leave.DecideRequest) (leave.LeaveApplicationResponse, error) {
	level, err := decisionLevel(actor)
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	var decided leave.LeaveApplication
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		app, err := s.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if level == leave.LevelHOD && !sameDepartment(actor, app) {
			return leave.ErrLeaveNotFound
		}
		if app.UserID == actor.UserID {
			return leave.ErrCannotDecideOwn
		}

		if err := applyDecision(&app, level, req, actor.UserID, s.now()); err != nil {
			return err
		}
		decided = app
		return s.UpdateDecision(txCtx, app)
	})
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	slog.Info("leave application decided",
		"leave_id", decided.ID, "level", level, "action", req.Action,
		"status", decided.Status, "decided_by", actor.UserID)

	// Reload for approver names
	reloaded, err := s.GetByID(ctx, decided.ID)
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}
	return s.toResponse(ctx, reloaded)
}

// applyDecision records one approval step on app. A rejection at either
// level closes the application; approval only closes it at the final level.
func applyDecision(app *leave.LeaveApplication, level leave.Level, req leave.DecideRequest, by string, at time.Time) error {
	if app.Status != leave.StatusPending {
		return leave.ErrLeaveAlreadyProcessed
	}

	step := &app.HOD
	if level == leave.LevelCEO {
		step = &app.CEO
		if app.NeedsHOD() && app.HOD.Status != leave.ApprovalApproved {
			return leave.ErrHODApprovalPending
		}
	}
	if step.Status != leave.ApprovalPending {
		return leave.ErrLeaveAlreadyProcessed
	}

	step.By = &by
	step.At = &at
	step.Note = &req.Note
	if req.Action == "reject" {
		step.Status = leave.ApprovalRejected
		app.Status = leave.StatusRejected
		return nil
	}
	step.Status = leave.ApprovalApproved
	if level == leave.LevelCEO {
		app.Status = leave.StatusApproved
	}
	return nil
}

func sameDepartment(actor user.Actor, app leave.LeaveApplication) bool {
	return actor.DepartmentID != nil && app.DepartmentID != nil && *actor.DepartmentID == *app.DepartmentID
}

// canView reports whether actor may see app.
func canView(actor user.Actor, app leave.LeaveApplication) bool {
	switch {
	case actor.IsAdmin(), actor.UserID == app.UserID:
		return true
	case actor.Role == user.RoleDepartmentAdmin:
		return sameDepartment(actor, app)
	}
	return false
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, id string) (leave.LeaveApplicationResponse, error) {
	var cancelled leave.LeaveApplication
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		app, err := s.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if app.UserID != actor.UserID {
			return leave.ErrLeaveNotFound
		}
		if app.Status != leave.StatusPending {
			return leave.ErrLeaveAlreadyProcessed
		}
		app.Status = leave.StatusCancelled
		cancelled = app
		return s.UpdateDecision(txCtx, app)
	})
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	slog.Info("leave application cancelled", "leave_id", cancelled.ID, "user_id", actor.UserID)
	return s.toResponse(ctx, cancelled)
}

// OpenAttachment implements leave.LeaveService.
func (s *LeaveServiceImpl) OpenAttachment(ctx context.Context, actor user.Actor, id string) (leave.LeaveApplication, io.ReadCloser, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveApplication{}, nil, err
	}
	if !canView(actor, app) {
		return leave.LeaveApplication{}, nil, leave.ErrLeaveNotFound
	}
	if app.Attachment == nil {
		return leave.LeaveApplication{}, nil, leave.ErrAttachmentNotFound
	}

	rc, err := s.fileService.OpenFile(ctx, app.Attachment.ObjectKey)
	if err != nil {
		return leave.LeaveApplication{}, nil, fmt.Errorf("failed to open leave attachment: %w", err)
	}
	return app, rc, nil
}

func (s *LeaveServiceImpl) toResponses(ctx context.Context, apps []leave.LeaveApplication) ([]leave.LeaveApplicationResponse, error) {
	responses := make([]leave.LeaveApplicationResponse, 0, len(apps))
	for _, a := range apps {
		r, err := s.toResponse(ctx, a)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

func (s *LeaveServiceImpl) toResponse(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplicationResponse, error) {
	resp := leave.LeaveApplicationResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		UserName:     a.UserName,
		UserEmail:    a.UserEmail,
		DepartmentID: a.DepartmentID,
		Reason:       a.Reason,
		FromTime:     a.FromTime.In(s.loc).Format("2006-01-02 15:04"),
		ToTime:       a.ToTime.In(s.loc).Format("2006-01-02 15:04"),
		Status:       a.Status,
		HOD:          s.approvalResponse(a.HOD),
		CEO:          s.approvalResponse(a.CEO),
		Awaiting:     a.AwaitingLevel(),
		CreatedAt:    a.CreatedAt.In(s.loc).Format("2006-01-02 15:04:05"),
	}
	if a.Attachment != nil {
		url, err := s.fileService.GetFileURL(ctx, a.Attachment.ObjectKey, 0)
		if err != nil {
			return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to build attachment url: %w", err)
		}
		resp.Attachment = &leave.AttachmentResponse{
			FileName:    a.Attachment.FileName,
			ContentType: a.Attachment.ContentType,
			SizeBytes:   a.Attachment.Size,
			URL:         url,
		}
	}
	return resp, nil
}

func (s *LeaveServiceImpl) approvalResponse(a leave.Approval) leave.ApprovalResponse {
	resp := leave.ApprovalResponse{Status: a.Status, By: a.By, ByName: a.ByName, Note: a.Note}
	if a.At != nil {
		at := a.At.In(s.loc).Format("2006-01-02 15:04:05")
		resp.At = &at
	}
	return resp
}
