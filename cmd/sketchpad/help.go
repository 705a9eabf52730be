// ABOUTME: Help display for the sketchpad CLI with grouped flags and environment status.
// ABOUTME: Provides printHelp for polished usage output and envStatus for variable detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const sketchpadASCII = `
   .---------------------------.
   | o o o          sketchpad  |
   |---------------------------|
   | index.html |              |
   | style.css  |   preview    |
   | app.js     |              |
   '---------------------------'
`

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, environment status, and a docs link.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, sketchpadASCII)
	fmt.Fprintf(w, "sketchpad %s — offline-first code sketchpad in your browser\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sketchpad                           Start on 127.0.0.1:2399")
	fmt.Fprintln(w, "  sketchpad -bind 127.0.0.1:8080      Start on another port")
	fmt.Fprintln(w, "  sketchpad -store sqlite             Persist snapshots in SQLite")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -bind <addr>          Listen address (default: 127.0.0.1:2399)")
	fmt.Fprintln(w, "  -data-dir <dir>       Snapshot directory (default: $XDG_DATA_HOME/sketchpad)")
	fmt.Fprintln(w, "  -store <backend>      Snapshot backend: file or sqlite (default: file)")
	fmt.Fprintln(w, "  -allow-remote         Allow non-loopback binds (requires an auth token)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  sketchpad")
	fmt.Fprintln(w, "  sketchpad -store sqlite -data-dir ~/sketches")
	fmt.Fprintln(w, "  SKETCHPAD_AUTH_TOKEN=s3cret sketchpad -bind 0.0.0.0:2399 -allow-remote")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  SKETCHPAD_BIND          %s\n", envStatus("SKETCHPAD_BIND"))
	fmt.Fprintf(w, "  SKETCHPAD_DATA_DIR      %s\n", envStatus("SKETCHPAD_DATA_DIR"))
	fmt.Fprintf(w, "  SKETCHPAD_STORE         %s\n", envStatus("SKETCHPAD_STORE"))
	fmt.Fprintf(w, "  SKETCHPAD_ALLOW_REMOTE  %s\n", envStatus("SKETCHPAD_ALLOW_REMOTE"))
	fmt.Fprintf(w, "  SKETCHPAD_AUTH_TOKEN    %s\n", envStatus("SKETCHPAD_AUTH_TOKEN"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Environment variables provide defaults; flags take precedence.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/2389-research/sketchpad")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
