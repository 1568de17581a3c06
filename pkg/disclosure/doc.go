// Package disclosure implements the click-driven expand/collapse state
// machine over a [topology.Graph].
//
// A [Session] owns one expanded set and derives every visibility from it:
//
//   - a node is visible if it is a project, a category or in the unknown
//     bucket, or if a visible expanded node has it as a direct child
//   - an edge is visible if both endpoints are visible and it is either
//     initially visible or it links an expanded node to a direct child
//
// Collapsing a node prunes every expanded node that is no longer visible, so
// collapse is recursive and the expanded set is always a subset of the
// visible set. Expanding and then collapsing the same node restores the
// previous state exactly.
//
// Each toggle returns a [Change] listing the nodes and edges whose visibility
// flipped. Renderers that keep their own visual model implement [Canvas] and
// call [Session.Apply].
//
// Sessions are not safe for concurrent use. Create one per loaded graph.
package disclosure
