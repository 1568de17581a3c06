// Package pipeline runs the load → build → render flow for one project.
//
// This package is shared by the CLI and the HTTP shell so both produce the
// same documents from the same snapshot and cache them the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the project's snapshot through a [snapshot.Source]
//  2. Build: validate and decorate the graph with [topology.Build]
//  3. Render: produce an HTML, SVG or DOT document
//
// Rendered documents are cached under a key derived from the project id, the
// snapshot's modification time, a hash of its graph and the render options,
// so a new snapshot or different options never return a stale document.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, fileCache, logger)
//	result, err := runner.Render(ctx, "demo", pipeline.Options{Format: pipeline.FormatHTML})
//	if err != nil {
//	    return err
//	}
//	err = network.WriteFile("demo.html", result.Document)
//
// [snapshot.Source]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot.Source
// [topology.Build]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology.Build
package pipeline

import (
	"fmt"
	"time"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/nodelink"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatHTML

// DocumentTTL is how long a rendered document stays in the cache. Entries are
// also invalidated by any change to the snapshot, so this only bounds disk use.
const DocumentTTL = 7 * 24 * time.Hour

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the build and render configuration for one run.
type Options struct {
	Format      string `json:"format"`
	LevelPolicy string `json:"level_policy,omitempty"`

	// ExpandAll exports the fully expanded graph (svg and dot only).
	ExpandAll bool `json:"expand_all,omitempty"`
	// Detailed adds level and group to static diagram labels.
	Detailed bool `json:"detailed,omitempty"`
	// RankDir is the static diagram direction.
	RankDir string `json:"rank_dir,omitempty"`

	Network network.Options `json:"network"`

	// Refresh skips cache reads; the fresh document is still stored.
	Refresh bool `json:"-"`

	policy    topology.LevelPolicy
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	policy, err := topology.ParseLevelPolicy(o.LevelPolicy)
	if err != nil {
		return err
	}
	o.policy = policy
	o.LevelPolicy = policy.String()
	if o.Network == (network.Options{}) {
		o.Network = network.DefaultOptions()
	}
	o.validated = true
	return nil
}

// Policy returns the parsed level policy.
func (o *Options) Policy() topology.LevelPolicy { return o.policy }

// nodelinkOptions returns the static diagram options.
func (o *Options) nodelinkOptions() nodelink.Options {
	return nodelink.Options{Detailed: o.Detailed, RankDir: o.RankDir}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: html, svg, dot)", format)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Snapshot *snapshot.Snapshot
	Graph    *topology.Graph
	Report   *topology.Report

	// Document is the rendered output in Format.
	Document []byte
	Format   string

	// CacheHit is set when Document came from the cache.
	CacheHit bool

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	DroppedEdges int
	LoadTime     time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// String summarizes the stats for log output.
func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges (%d dropped) in %s",
		s.NodeCount, s.EdgeCount, s.DroppedEdges, (s.LoadTime + s.BuildTime + s.RenderTime).Round(time.Millisecond))
}
