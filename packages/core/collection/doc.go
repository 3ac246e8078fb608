// Package collection loads declarative request collections.
//
// A collection file is JSON (or YAML with the same shape) holding either a
// single entry object or an ordered array of entries:
//
//	{ "name": "...", "url": "...", "method": "GET",
//	  "headers": ["Accept: application/json"],
//	  "data": {"any": "json"},
//	  "print": ["status_code", "body"] }
//
// Files are checked against an embedded JSON Schema before decoding, so a
// loaded collection is always structurally valid.
package collection
