package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

// Store reads and writes snapshot files in a single directory.
// It assumes a single writer; concurrent external writers are not guarded
// against beyond the write-then-rename in [Store.Save].
type Store struct {
	dir    string
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = "."
	}
	s := &Store{
		dir:    dir,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the snapshot file path for a project id.
func (s *Store) Path(projectID string) string {
	return filepath.Join(s.dir, Filename(projectID))
}

// Exists reports whether a snapshot file exists for the project id.
func (s *Store) Exists(projectID string) bool {
	if errors.ValidateProjectID(projectID) != nil {
		return false
	}
	info, err := os.Stat(s.Path(projectID))
	return err == nil && !info.IsDir()
}

// Save writes g as the snapshot for projectID and returns the file path.
// The previous snapshot, if any, is replaced in full.
func (s *Store) Save(ctx context.Context, projectID string, g graph.Graph) (string, error) {
	if err := errors.ValidateProjectID(projectID); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	env := Envelope{
		Timestamp:   now.Format(TimestampLayout),
		ProjectID:   projectID,
		Data:        &g,
		GeneratedAt: now.Format(time.RFC3339Nano),
		Version:     FormatVersion,
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create snapshot directory %s", s.dir)
	}

	path := s.Path(projectID)
	if err := writeAtomic(path, func(f *os.File) error {
		return graph.NewEncoder(f).Encode(env)
	}); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "save snapshot for project %q", projectID)
	}

	s.logger.Debug("saved snapshot", "project", projectID, "path", path,
		"nodes", len(g.Nodes), "edges", len(g.Edges))
	return path, nil
}

// Load reads the snapshot for projectID.
//
// It returns SNAPSHOT_NOT_FOUND when no file exists, PARSE_ERROR for
// malformed JSON and INVALID_FORMAT when the envelope has no "data" field.
func (s *Store) Load(ctx context.Context, projectID string) (*Snapshot, error) {
	if err := errors.ValidateProjectID(projectID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(projectID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no cache file for project '%s'", projectID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read snapshot %s", path)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "error loading cache for project '%s'", projectID)
	}
	if env.Data == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid cache file - missing 'data'")
	}

	snap := &Snapshot{
		ProjectID:   projectID,
		Graph:       *env.Data,
		Timestamp:   env.Timestamp,
		GeneratedAt: env.GeneratedAt,
		Version:     env.Version,
		Path:        path,
	}
	if snap.Timestamp == "" {
		snap.Timestamp = NoTimestamp
	}
	if info, err := os.Stat(path); err == nil {
		snap.ModTime = info.ModTime()
	}

	s.logger.Debug("loaded snapshot", "project", projectID,
		"nodes", len(snap.Graph.Nodes), "edges", len(snap.Graph.Edges), "generated", snap.Timestamp)
	return snap, nil
}

// writeAtomic writes through a temporary file in the target's directory and
// renames it into place. The temporary file never outlives the call.
func writeAtomic(path string, write func(*os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Ensure Store implements Source.
var _ Source = (*Store)(nil)
