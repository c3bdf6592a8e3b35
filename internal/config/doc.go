// Package config loads tagcalc.toml and assembles the autocomplete source
// stack it describes.
//
// The file is discovered upward from the working directory. Every section
// is optional:
//
//	required_version = ">= 0.1"
//
//	[autocomplete]
//	url = "http://localhost:8080/api/autocomplete"
//	limit = 10
//	timeout = "3s"
//	stale = "1m"
//	cache_dir = ".cache/tagcalc"
//	builtin = true
//
//	[catalog]
//	path = "tags.db"
//
//	[[tag]]
//	name = "Headcount"
//	value = 42
//
//	[trace]
//	level = "op"
//	mode = "stream"
//	output = "tagcalc.trace.ndjson"
//
// Relative paths are resolved against the directory holding the file.
package config
