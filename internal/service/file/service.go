package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registers the PNG decoder
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type FileService interface {
	// UploadNoticeDocument validates and stores a PDF/Word notice document
	UploadNoticeDocument(ctx context.Context, file io.Reader, filename string, contentType string) (StoredFile, error)

	// UploadDocument stores a PDF/Word file under dir
	UploadDocument(ctx context.Context, file io.Reader, filename, contentType, dir string) (StoredFile, error)

	// UploadAttachment also accepts PNG and JPEG images, which are
	// downscaled and re-encoded as JPEG before storing.
	UploadAttachment(ctx context.Context, file io.Reader, filename, contentType, dir string) (StoredFile, error)

	// Generic operations
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type StoredFile struct {
	Path        string
	ContentType string
	Size        int64
}

// DisplayName is the base of the client's file name, with the extension
// swapped when the stored format differs (re-encoded images).
func (f StoredFile) DisplayName(original string) string {
	name := filepath.Base(original)
	if f.ContentType == contentTypeJPEG {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jpg" && ext != ".jpeg" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
		}
	}
	return name
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOC  = "application/msword"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePNG  = "image/png"
	contentTypeJPEG = "image/jpeg"
)

// uploadPolicy is the set of formats one kind of upload accepts.
type uploadPolicy struct {
	types map[string][]string // content type -> extensions
	err   error
}

var (
	documentPolicy = uploadPolicy{
		types: map[string][]string{
			contentTypePDF:  {".pdf"},
			contentTypeDOC:  {".doc"},
			contentTypeDOCX: {".docx"},
		},
		err: fmt.Errorf("%w, please upload PDF or Word documents only", storage.ErrInvalidFileType),
	}
	attachmentPolicy = uploadPolicy{
		types: map[string][]string{
			contentTypePDF:  {".pdf"},
			contentTypeDOC:  {".doc"},
			contentTypeDOCX: {".docx"},
			contentTypePNG:  {".png"},
			contentTypeJPEG: {".jpg", ".jpeg"},
		},
		err: fmt.Errorf("%w, please upload PDF, Word, PNG or JPEG files only", storage.ErrInvalidFileType),
	}
)

var (
	pdfMagic  = []byte("%PDF-")
	oleMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1} // legacy .doc
	zipMagic  = []byte("PK\x03\x04")                                  // .docx
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// resolve picks the content type from the declared one, falling back to the
// extension when the client sent a generic type.
func (p uploadPolicy) resolve(filename, contentType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	if contentType == "" || contentType == "application/octet-stream" {
		for ct, exts := range p.types {
			for _, allowed := range exts {
				if allowed == ext {
					return ct, ext, nil
				}
			}
		}
		return "", "", p.err
	}

	for _, allowed := range p.types[contentType] {
		if allowed == ext {
			return contentType, ext, nil
		}
	}
	return "", "", p.err
}

func matchesMagic(contentType string, head []byte) bool {
	switch contentType {
	case contentTypePDF:
		return bytes.HasPrefix(head, pdfMagic)
	case contentTypeDOC:
		return bytes.HasPrefix(head, oleMagic)
	case contentTypeDOCX:
		return bytes.HasPrefix(head, zipMagic)
	case contentTypePNG:
		return bytes.HasPrefix(head, pngMagic)
	case contentTypeJPEG:
		return bytes.HasPrefix(head, jpegMagic)
	}
	return false
}

func isImage(contentType string) bool {
	return contentType == contentTypePNG || contentType == contentTypeJPEG
}

// limitedReader fails once more than max bytes have been read.
type limitedReader struct {
	r   io.Reader
	n   int64
	max int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, storage.ErrFileTooLarge
	}
	return n, err
}

// UploadNoticeDocument stores the document under notices/{uuid}{ext}
func (s *fileServiceImpl) UploadNoticeDocument(ctx context.Context, file io.Reader, filename string, contentType string) (StoredFile, error) {
	return s.upload(ctx, documentPolicy, file, filename, contentType, "notices")
}

// UploadDocument stores the document under {dir}/{uuid}{ext}
func (s *fileServiceImpl) UploadDocument(ctx context.Context, file io.Reader, filename, contentType, dir string) (StoredFile, error) {
	return s.upload(ctx, documentPolicy, file, filename, contentType, dir)
}

// UploadAttachment stores the file under {dir}/{uuid}{ext}
func (s *fileServiceImpl) UploadAttachment(ctx context.Context, file io.Reader, filename, contentType, dir string) (StoredFile, error) {
	return s.upload(ctx, attachmentPolicy, file, filename, contentType, dir)
}

func (s *fileServiceImpl) upload(ctx context.Context, policy uploadPolicy, file io.Reader, filename, contentType, dir string) (StoredFile, error) {
	contentType, ext, err := policy.resolve(filename, contentType)
	if err != nil {
		return StoredFile{}, err
	}

	buffered := bufio.NewReader(file)
	head, err := buffered.Peek(len(oleMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return StoredFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	if !matchesMagic(contentType, head) {
		return StoredFile{}, policy.err
	}

	limited := &limitedReader{r: buffered, max: storage.MaxUploadSize}
	var body io.Reader = limited
	size := func() int64 { return limited.n }

	if isImage(contentType) {
		data, err := compressImage(limited)
		if err != nil {
			if errors.Is(err, storage.ErrFileTooLarge) {
				return StoredFile{}, storage.ErrFileTooLarge
			}
			return StoredFile{}, policy.err
		}
		body = bytes.NewReader(data)
		size = func() int64 { return int64(len(data)) }
		contentType, ext = contentTypeJPEG, ".jpg"
	}

	objectPath := path.Join(dir, uuid.New().String()+ext)
	uploadedPath, err := s.storage.Upload(ctx, body, objectPath, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return StoredFile{}, storage.ErrFileTooLarge
		}
		return StoredFile{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return StoredFile{Path: uploadedPath, ContentType: contentType, Size: size()}, nil
}

const (
	maxImageDimension = 1600
	targetImageBytes  = 1 << 20
	minJPEGQuality    = 50
)

// compressImage decodes a PNG or JPEG, shrinks it to fit within
// maxImageDimension and re-encodes it as JPEG. Quality steps down from 85
// until the result fits targetImageBytes or the floor is reached.
func compressImage(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	img := src
	b := src.Bounds()
	if w, h := b.Dx(), b.Dy(); w > maxImageDimension || h > maxImageDimension {
		scale := float64(maxImageDimension) / float64(max(w, h))
		dw := max(1, int(math.Round(float64(w)*scale)))
		dh := max(1, int(math.Round(float64(h)*scale)))
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	for quality := 85; ; quality -= 5 {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		if buf.Len() <= targetImageBytes || quality <= minJPEGQuality {
			return buf.Bytes(), nil
		}
	}
}

// OpenFile opens a stored file for reading
func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// DeleteFile deletes a file from storage
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

// GetFileURL gets the URL for a file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if path == "" {
		return "", nil
	}
	return s.storage.GetURL(ctx, path, expiry)
}
