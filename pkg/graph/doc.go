// Package graph provides the wire types for cloud topology snapshots.
//
// This package defines the node/edge format stored inside snapshot files and
// accepted by the import command. It sits at the serialization boundary: the
// types here are read as-is from disk and handed to the topology builder,
// which derives every display attribute. Nothing in this package computes
// visibility or child counts.
//
// # Format
//
//	{
//	  "nodes": [
//	    {"id": "demo", "label": "demo", "level": 0, "size": 40, "color": "#4285F4"},
//	    {"id": "bq", "label": "BigQuery", "level": 1, "size": 30, "color": "#669DF6", "group": "bigquery"}
//	  ],
//	  "edges": [
//	    {"source": "demo", "target": "bq"}
//	  ]
//	}
//
// # Levels
//
// A node's level is its semantic rank: 0 project, 1 category, 2 resource
// (dataset, bucket), 3 leaf (table). [Level] keeps track of whether the value
// was present and recognized, so the builder can apply its default policy
// explicitly instead of silently treating bad data as a project root.
//
// # Compatibility
//
// Readers ignore fields they do not know. Writers emit only the fields
// modeled here.
package graph
