package frontend

import "embed"

// assetsFS carries the server-rendered templates, the viewer's static assets
// and the site icon, all compiled into the binary.
//
//go:embed views
var assetsFS embed.FS

const viewsPattern = "views/*.html"
