// Package blob implements EVID's object storage for misconduct-report
// photos. No example repo in this codebase's lineage carries an S3/GCS/minio
// client (see DESIGN.md), so this store is filesystem-backed, writing under
// a configured root directory using the path layout spec.md §6 mandates
// (misconduct/{passengerId}/{uuid}.jpg). It follows the teacher's own
// filesystem-write idiom in internal/queue/consumer.go (os.MkdirAll then
// os.OpenFile) rather than inventing a new one.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes evidence photos to a root directory and returns a locator
// string clients never see directly (EVID owns the upload path so callers
// cannot forge blob-store locations, per spec.md §9).
type Store struct {
	root string
}

// NewStore constructs a Store rooted at dir. The directory is created lazily
// on first write.
func NewStore(dir string) *Store { return &Store{root: dir} }

// PutMisconductPhoto writes imageBytes under
// misconduct/{passengerID}/{uuid}.jpg and returns the locator recorded on
// the MisconductReport.
func (s *Store) PutMisconductPhoto(ctx context.Context, passengerID uint64, imageBytes []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	rel := filepath.Join("misconduct", fmt.Sprintf("%d", passengerID), uuid.NewString()+".jpg")
	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir evidence dir: %w", err)
	}
	if err := os.WriteFile(full, imageBytes, 0o644); err != nil {
		return "", fmt.Errorf("write evidence photo: %w", err)
	}
	return rel, nil
}
