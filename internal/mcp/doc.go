// Package mcp exposes the vault lookup components as Model Context
// Protocol tools using the mcp-go library.
//
// Five read-only tools are served over stdio (JSON-RPC 2.0):
// list_locations, get_location, list_characters, get_character and
// get_story_so_far. Lookup failures surface as tool error results with the
// vault's error taxonomy (not found, invalid argument); only transport and
// internal failures become protocol errors.
package mcp
