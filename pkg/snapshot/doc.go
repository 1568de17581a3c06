// Package snapshot stores and discovers captured cloud topology snapshots.
//
// A snapshot is one JSON file per project, named {project_id}_gcp_data.json,
// holding a versioned envelope around a [graph.Graph]:
//
//	{
//	  "timestamp": "2025-06-01 10:30:00",
//	  "project_id": "demo",
//	  "data": {"nodes": [...], "edges": [...]},
//	  "generated_at": "2025-06-01T10:30:00.123456789-03:00",
//	  "version": "1.0"
//	}
//
// [Store] reads and writes these files and lists them ([Store.List]). Files
// are never edited in place: each save writes a temporary file in the same
// directory and renames it over the previous snapshot.
//
// # Sources
//
// Anything that can produce a snapshot for a project id implements [Source].
// The file store is the only working source; [LiveSource] stands in for a
// live cloud inventory fetch and always reports that it is unavailable.
//
// # Errors
//
// Failures are returned as [errors.Error] values with codes
// SNAPSHOT_NOT_FOUND, INVALID_FORMAT, PARSE_ERROR, IO_ERROR or
// INVALID_PROJECT. None of them are fatal to the caller.
package snapshot
