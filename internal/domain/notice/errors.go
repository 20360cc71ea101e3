package notice

import (
	"errors"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
)

var (
	ErrNoticeNotFound     = errors.New("notice not found")
	ErrInvalidFileType    = storage.ErrInvalidFileType
	ErrFileTooLarge       = storage.ErrFileTooLarge
	ErrFileRequired       = errors.New("please select a file")
	ErrDescriptionMissing = errors.New("please enter a description")
)
