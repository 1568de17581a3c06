package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
)

// logHooks reports pipeline, cache and server events as debug log lines.
// Failures are logged at warn level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l.WithPrefix("hooks")}
}

func (h *logHooks) OnLoadStart(_ context.Context, projectID string) {
	h.logger.Debug("load start", "project", projectID)
}

func (h *logHooks) OnLoadComplete(_ context.Context, projectID string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "project", projectID, "err", err)
		return
	}
	h.logger.Debug("load done", "project", projectID, "nodes", nodeCount, "duration", d)
}

func (h *logHooks) OnBuildStart(_ context.Context, projectID string, nodeCount int) {
	h.logger.Debug("build start", "project", projectID, "nodes", nodeCount)
}

func (h *logHooks) OnBuildComplete(_ context.Context, projectID string, dropped int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "project", projectID, "err", err)
		return
	}
	h.logger.Debug("build done", "project", projectID, "dropped_edges", dropped, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, projectID, format string) {
	h.logger.Debug("render start", "project", projectID, "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, projectID, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "project", projectID, "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "project", projectID, "format", format, "bytes", size, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request", "method", method, "route", route, "status", status, "duration", d)
		return
	}
	h.logger.Debug("request", "method", method, "route", route, "status", status, "duration", d)
}

func (h *logHooks) OnSnapshotChanged(_ context.Context, projectID string) {
	h.logger.Info("snapshot changed", "project", projectID)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.ServerHooks   = (*logHooks)(nil)
)
