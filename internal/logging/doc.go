// Package logging configures log/slog for labsite.
//
// With --debug, JSON logs are written to a size-rotated file under
// ~/.labsite/logs/. Without it, warnings and errors go to stderr as text.
// The MCP server never writes logs to stdout, which carries the protocol.
package logging
