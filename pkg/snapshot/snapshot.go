package snapshot

import (
	"context"
	"time"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

const (
	// FileSuffix is appended to the project id to form a snapshot filename.
	FileSuffix = "_gcp_data.json"

	// FormatVersion is written into every saved envelope.
	FormatVersion = "1.0"

	// TimestampLayout is the human-readable generation time format.
	TimestampLayout = "2006-01-02 15:04:05"

	// NoTimestamp is reported when a snapshot carries no timestamp.
	NoTimestamp = "N/A"
)

// Envelope is the on-disk unit. Data is a pointer so a missing "data" field
// can be told apart from an empty graph.
type Envelope struct {
	Timestamp   string       `json:"timestamp"`
	ProjectID   string       `json:"project_id"`
	Data        *graph.Graph `json:"data"`
	GeneratedAt string       `json:"generated_at"`
	Version     string       `json:"version"`
}

// Snapshot is a loaded envelope plus file metadata.
type Snapshot struct {
	ProjectID   string
	Graph       graph.Graph
	Timestamp   string // human-readable, for display
	GeneratedAt string
	Version     string
	Path        string
	ModTime     time.Time
}

// Source produces the snapshot for a project id.
type Source interface {
	Load(ctx context.Context, projectID string) (*Snapshot, error)
}

// Filename returns the snapshot filename for a project id.
func Filename(projectID string) string {
	return projectID + FileSuffix
}
