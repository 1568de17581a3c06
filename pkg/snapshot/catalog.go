package snapshot

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
)

// Entry describes one snapshot file found in the store's directory.
type Entry struct {
	ProjectID  string    `json:"project_id"`
	Filename   string    `json:"filename"`
	ModifiedAt time.Time `json:"modified_at"`
	SizeKB     float64   `json:"size_kb"`
}

// Modified returns the modification time in the snapshot timestamp layout.
func (e Entry) Modified() string {
	return e.ModifiedAt.Format(TimestampLayout)
}

// List returns the snapshots available in the store's directory, sorted by
// filename. Entries that cannot be inspected are skipped. A missing
// directory is an empty catalog; an unreadable one yields an empty slice and
// an IO_ERROR describing why.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return []Entry{}, err
	}

	dirEntries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		s.logger.Error("error listing cache files", "dir", s.dir, "err", err)
		return []Entry{}, errors.Wrap(errors.ErrCodeIO, err, "list snapshots in %s", s.dir)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, FileSuffix) {
			continue
		}
		projectID := strings.TrimSuffix(name, FileSuffix)
		if projectID == "" {
			continue
		}

		info, err := de.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot", "file", filepath.Join(s.dir, name), "err", err)
			continue
		}

		entries = append(entries, Entry{
			ProjectID:  projectID,
			Filename:   name,
			ModifiedAt: info.ModTime(),
			SizeKB:     math.Round(float64(info.Size())/1024*100) / 100,
		})
	}
	return entries, nil
}
