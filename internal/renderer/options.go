package renderer

import "github.com/dshills/markpad/internal/renderer/highlight"

// DocumentClass is the class of the preview root element.
const DocumentClass = "w-full h-full min-h-[450px] p-4 border rounded-lg overflow-auto prose prose-sm max-w-none"

// Options configures the pipeline.
type Options struct {
	// Sanitize strips scripts, event handlers and javascript: URLs from
	// raw HTML and link targets.
	Sanitize bool

	// ExternalSchemes lists the URL schemes that open in a new tab.
	// Protocol-relative URLs ("//host/path") are always external.
	ExternalSchemes []string

	// Theme colors highlighted code. Nil uses highlight.DefaultTheme.
	Theme *highlight.Theme

	// RootClass is the class of the document root element.
	RootClass string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Sanitize:        false,
		ExternalSchemes: []string{"http", "https"},
		Theme:           highlight.DefaultTheme(),
		RootClass:       DocumentClass,
	}
}
