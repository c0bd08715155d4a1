// Package static embeds the browser UI served at the web root.
package static

import (
	_ "embed"
)

//go:embed index.html
var indexHTML []byte

// Index returns the embedded single-page UI.
func Index() []byte {
	return indexHTML
}
