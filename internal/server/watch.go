package server

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

// DefaultDebounce batches bursts of file events, such as the create and
// rename of one atomic save.
const DefaultDebounce = 150 * time.Millisecond

// Watch invalidates memoized documents when snapshot files in the store's
// directory change. It returns once the watcher is running; the watcher
// stops when ctx is cancelled. The directory must exist.
func (s *Server) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(s.store.Dir()); err != nil {
		_ = fsw.Close()
		return err
	}

	changes := make(chan string, 64)
	go s.readEvents(ctx, fsw, changes)
	go s.debounceLoop(ctx, debounce, changes)

	s.logger.Info("watching snapshots", "dir", s.store.Dir())
	return nil
}

// readEvents forwards the project ids of changed snapshot files.
func (s *Server) readEvents(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- string) {
	defer fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			projectID, ok := projectFromPath(event.Name)
			if !ok {
				continue
			}
			select {
			case changes <- projectID:
			default:
				// Full buffer: drop the memo entry now rather than block.
				s.Invalidate(projectID)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", "err", err)
		}
	}
}

// debounceLoop collects project ids until no event arrived for debounce,
// then invalidates them together.
func (s *Server) debounceLoop(ctx context.Context, debounce time.Duration, changes <-chan string) {
	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		ids := make([]string, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		s.snapshotsChanged(ctx, ids)
		clear(pending)
		timer, timerC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case id := <-changes:
			pending[id] = true
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// snapshotsChanged drops the memo entries of ids and reports each change.
func (s *Server) snapshotsChanged(ctx context.Context, ids []string) {
	hooks := observability.Server()
	for _, id := range ids {
		s.Invalidate(id)
		hooks.OnSnapshotChanged(ctx, id)
	}
}

// projectFromPath returns the project id of a snapshot file path. Temporary
// files written during a save do not match.
func projectFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, snapshot.FileSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(name, snapshot.FileSuffix)
	return id, id != ""
}
