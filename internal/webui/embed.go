// Package webui bundles the default single-page app template served when a
// project does not ship its own static/index.html.
package webui

import "embed"

// FS contains the default SPA template bundled with the lence binary.
//
//go:embed index.html
var FS embed.FS
