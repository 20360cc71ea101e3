package document

import "errors"

var (
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentAlreadyReviewed = errors.New("document has already been reviewed")
	ErrResponseFileNotFound    = errors.New("document has no response file")
	ErrFileRequired            = errors.New("please select a file")
	ErrMessageRequired         = errors.New("please enter a message")
)
