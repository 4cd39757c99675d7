// Package web bundles the page templates and static assets into the binary
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates is the template tree rooted at templates/
func Templates() fs.FS {
	sub, _ := fs.Sub(files, "templates")
	return sub
}

// Static is the asset tree served under /static
func Static() fs.FS {
	sub, _ := fs.Sub(files, "static")
	return sub
}

// Resume is the bundled resume document
func Resume() ([]byte, error) {
	return files.ReadFile("static/resume.pdf")
}
