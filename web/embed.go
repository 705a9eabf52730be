// ABOUTME: Embeds web/static/ CSS and JS assets plus the guide source for the unified HTTP server.
// ABOUTME: Uses explicit subdirectory globs because //go:embed static/* does not recurse.
package web

import "embed"

//go:embed static/css/*.css static/js/*.js
var staticFS embed.FS

//go:embed guide.md
var guideMD string
