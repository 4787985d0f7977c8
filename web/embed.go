// Package web holds the embedded assets of the automize web front-end.
package web

import "embed"

// Assets holds the page templates (templates/), static files (static/) and
// Markdown page content (content/).
//
//go:embed templates static content
var Assets embed.FS
