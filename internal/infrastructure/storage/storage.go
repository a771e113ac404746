// Package storage keeps uploaded medical documents outside the database.
// Stored files are addressed by a reference string such as
// "local://0002Pat/8c1f....pdf" or "s3://bucket/0002Pat/8c1f....pdf".
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hospital-frontdesk/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile          = errors.New("file is empty")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidReference   = errors.New("invalid file reference")
)

// DefaultMaxFileSize applies when no limit is configured (10 MB)
const DefaultMaxFileSize = 10 << 20

// AllowedContentTypes lists the document types patients may attach to their history
var AllowedContentTypes = map[string]bool{
	"image/png":         true,
	"image/jpeg":        true,
	"image/webp":        true,
	"application/pdf":   true,
	"application/dicom": true,
	"text/plain":        true,
}

// FileStore is a storage backend
type FileStore interface {
	Save(ctx context.Context, key string, content []byte, contentType string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// StoredFile describes an accepted upload
type StoredFile struct {
	Ref         string `json:"ref"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Uploader validates uploads before handing them to a FileStore
type Uploader struct {
	store   FileStore
	maxSize int64
}

func NewUploader(store FileStore, maxSize int64) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Uploader{store: store, maxSize: maxSize}
}

func (u *Uploader) MaxSize() int64 {
	return u.maxSize
}

// Upload sniffs the content type, enforces the size limit and stores the file
// under a random key scoped to ownerID.
func (u *Uploader) Upload(ctx context.Context, ownerID string, content io.Reader) (*StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(content, u.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > u.maxSize {
		return nil, ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	contentType := baseType(mtype.String())
	if !AllowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	key := fmt.Sprintf("%s/%s%s", ownerID, uuid.New().String(), mtype.Extension())
	ref, err := u.store.Save(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	return &StoredFile{Ref: ref, ContentType: contentType, Size: int64(len(data))}, nil
}

// Read loads a file stored for ownerID and reports its detected content type.
// References outside the owner's key prefix are rejected as invalid.
func (u *Uploader) Read(ctx context.Context, ownerID, ref string) ([]byte, string, error) {
	if ownerID == "" || !strings.HasPrefix(refKey(ref), ownerID+"/") {
		return nil, "", ErrInvalidReference
	}

	rc, err := u.store.Open(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", ref, err)
	}
	return data, baseType(mimetype.Detect(data).String()), nil
}

// New builds the FileStore selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(nil, cfg.LocalDir), nil
	case "s3":
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func baseType(contentType string) string {
	return strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
}

// refKey returns the object key of a local:// or s3://bucket/ reference
func refKey(ref string) string {
	if key, ok := splitRef(ref, "local"); ok {
		return key
	}
	if rest, ok := splitRef(ref, "s3"); ok {
		if _, key, found := strings.Cut(rest, "/"); found {
			return key
		}
	}
	return ""
}

func splitRef(ref, scheme string) (string, bool) {
	prefix := scheme + "://"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(ref, prefix)
	return rest, rest != ""
}

// nopCloser keeps bytes.Reader usable where a ReadCloser is expected
func nopCloser(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}
