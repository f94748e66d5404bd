// Package estateweb bundles the page templates and browser assets of the real estate chat into the binary.
package estateweb

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates/layout templates/pages templates/partials
	TemplateFS embed.FS

	//go:embed static
	StaticFS embed.FS
)

// TemplatePatterns lists the TemplateFS globs parsed into the chat template set. The layout defines the
// page shell, pages fill it, and partials are the fragments sent on their own by HTMX and SSE.
var TemplatePatterns = []string{
	"templates/layout/*.html",
	"templates/pages/*.html",
	"templates/partials/*.html",
}

// Static returns the browser assets rooted at the static directory, ready to be served under /static/.
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
