// Package csvingest forwards a local CSV file to the backend for import.
// The file is sent as raw text; parsing happens server side.
package csvingest

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
)

// Operation names the step of an ingest that failed.
type Operation string

const (
	OpRead    Operation = "read"
	OpUpload  Operation = "upload"
	OpRefetch Operation = "refetch"
)

// Error is a failed ingest. Alert is the message shown to the user.
type Error struct {
	Op   Operation
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("csv %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Alert is the user-facing message for the failure.
func (e *Error) Alert() string {
	if e.Op == OpRead {
		return "Failed to read file."
	}
	return "Failed to upload CSV file."
}

// Uploader sends CSV text to the backend. Account scoped uploads close over
// the account id.
type Uploader func(ctx context.Context, csv string) (*api.UploadResult, error)

// Bridge runs one ingest at a time: read, upload, refetch.
type Bridge struct {
	Upload Uploader
	// Refetch reloads the affected list after a successful upload. Optional.
	Refetch func(ctx context.Context) error

	loading atomic.Bool
}

// IncomeUploader uploads to the income import endpoint.
func IncomeUploader(c *api.Client) Uploader {
	return c.UploadIncomeCSV
}

// TransactionUploader uploads into the given account.
func TransactionUploader(c *api.Client, accountID string) Uploader {
	return func(ctx context.Context, csv string) (*api.UploadResult, error) {
		return c.UploadTransactionsCSV(ctx, csv, accountID)
	}
}

// Loading reports whether an ingest is in progress.
func (b *Bridge) Loading() bool {
	return b.loading.Load()
}

// Ingest reads path and uploads its contents unmodified, including when the
// file is empty. Failures are returned as *Error and are not retried.
func (b *Bridge) Ingest(ctx context.Context, path string) (*api.UploadResult, error) {
	b.loading.Store(true)
	defer b.loading.Store(false)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: OpRead, Path: path, Err: err}
	}

	log.Debug("uploading csv", "path", path, "bytes", len(data))
	res, err := b.Upload(ctx, string(data))
	if err != nil {
		return nil, &Error{Op: OpUpload, Path: path, Err: err}
	}

	if b.Refetch != nil {
		if err := b.Refetch(ctx); err != nil {
			return res, &Error{Op: OpRefetch, Path: path, Err: err}
		}
	}
	return res, nil
}
