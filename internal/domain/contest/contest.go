package contest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrInvalidPartition = errors.New("contest: invalid year/month")
	ErrInvalidFileName  = errors.New("contest: invalid file name")
)

// Partition is the year/month directory key for uploaded photos.
type Partition struct {
	Year  int
	Month int
}

func NewPartition(year, month int) (Partition, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return Partition{}, fmt.Errorf("%w: %d/%d", ErrInvalidPartition, year, month)
	}
	return Partition{Year: year, Month: month}, nil
}

// Path is the relative directory "{year}/{month}".
func (p Partition) Path() string {
	return filepath.Join(fmt.Sprint(p.Year), fmt.Sprint(p.Month))
}

// Upload is a received file waiting to be moved into its partition.
type Upload struct {
	Partition    Partition
	TempPath     string
	OriginalName string
}

// CleanFileName validates an uploaded file name: it must be a bare name without
// directory components.
func CleanFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return name, nil
}

// Store persists uploads under their partition.
type Store interface {
	// Save moves the temp file into the partition directory and returns the stored path.
	Save(ctx context.Context, u Upload) (string, error)
}

// PhotoUploadedEvent is emitted after a contest photo has been stored.
type PhotoUploadedEvent struct {
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	FileName   string    `json:"file_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (PhotoUploadedEvent) EventName() string { return "contest.photo_uploaded" }

func NewPhotoUploadedEvent(u Upload) PhotoUploadedEvent {
	return PhotoUploadedEvent{
		Year:       u.Partition.Year,
		Month:      u.Partition.Month,
		FileName:   u.OriginalName,
		OccurredAt: time.Now().UTC(),
	}
}
