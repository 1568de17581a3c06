package topology

import (
	"strings"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
)

// Report lists what [Build] dropped or changed. A nil Report is empty.
type Report struct {
	// Defaulted holds ids of nodes whose level was missing or unrecognized.
	Defaulted []string
	// Duplicates holds ids that appeared more than once; only the first
	// occurrence was kept.
	Duplicates []string
	// Dropped holds edges with an unresolved endpoint.
	Dropped []DroppedEdge
}

// DroppedEdge is an edge removed because an endpoint does not resolve.
type DroppedEdge struct {
	Index   int      // position in the raw edge list
	Source  string
	Target  string
	Missing []string // endpoints absent from the node set
}

// Err describes the dropped edge as a DANGLING_EDGE error.
func (d DroppedEdge) Err() error {
	return errors.New(errors.ErrCodeDanglingEdge,
		"edge %d (%s -> %s) references unknown node %s",
		d.Index, d.Source, d.Target, quoteAll(d.Missing))
}

// Clean reports whether nothing was dropped or defaulted.
func (r *Report) Clean() bool {
	return r == nil || (len(r.Defaulted) == 0 && len(r.Duplicates) == 0 && len(r.Dropped) == 0)
}

// Warnings returns the number of reported problems.
func (r *Report) Warnings() int {
	if r == nil {
		return 0
	}
	return len(r.Defaulted) + len(r.Duplicates) + len(r.Dropped)
}

func quoteAll(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = "'" + id + "'"
	}
	return strings.Join(q, ", ")
}
