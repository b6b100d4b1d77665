// Package codec serializes ontologies to and from the persisted JSON
// document.
//
// # Document Format
//
//	{
//	  "id": "ontology-…", "name": "People", "description": "", "version": "1.0.0",
//	  "namespace": "http://ontoforge.local/ontology/1a2b3c4d#", "author": "",
//	  "created": "2024-01-01T00:00:00Z", "lastModified": "2024-01-01T00:00:00Z",
//	  "customProperties": {}, "customRelationshipTypes": ["works_for"],
//	  "nodes": [
//	    {"id": "person", "kind": "entity", "position": {"x": 0, "y": 0},
//	     "data": {"label": "Person", "entityType": "Class", "properties": {}}}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "person", "target": "org", "kind": "relationship",
//	     "data": {"relationshipType": "works_for", "properties": {}, "strength": 1}}
//	  ],
//	  "viewport": {"x": 0, "y": 0, "zoom": 1}
//	}
//
// Relationship types are written as bare tokens; on read, tokens from the
// standard vocabulary become standard types and anything else a custom type.
//
// # Import
//
// [Unmarshal], [Read] and [ImportFile] reject input in three stages:
//
//  1. Malformed JSON fails with INVALID_FORMAT.
//  2. Shape violations (missing IDs, unknown kinds, strength outside [0,1],
//     non-positive zoom) fail with INVALID_FORMAT.
//  3. Structural violations (duplicate IDs, dangling edge endpoints, standard
//     tokens listed as custom) fail with INTEGRITY_VIOLATION.
//
// # Export
//
// [Marshal], [Write] and [ExportFile] emit indented JSON. A round trip through
// Marshal and Unmarshal preserves every field.
//
// The document types are exported so that other text formats can reuse them;
// they carry json, yaml and toml tags.
package codec
