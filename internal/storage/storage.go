// Package storage holds the object store used for uploaded company files.
// Objects are streamed; nothing is staged on local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
	"unicode"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under prefix and reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// PresignGet returns a time-limited URL that downloads the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ObjectKey builds the storage path for an uploaded file:
// <company_id>/<category>/<unique>_<sanitized name>.
func ObjectKey(companyID, category, unique, name string) string {
	return path.Join(companyID, category, unique+"_"+SanitizeName(name))
}

// CompanyPrefix is the key prefix that holds every object of a company.
func CompanyPrefix(companyID string) string {
	return companyID + "/"
}

// SanitizeName reduces an uploaded file name to a safe single path segment.
// Letters, digits, dot, dash and underscore are kept; everything else becomes '_'.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
