package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	formTemplate  = "templates/form.tmpl"
	fieldTemplate = "templates/field.tmpl"
)

// TemplatesFS exposes the embedded template bundle. Custom bundles passed
// through WithTemplatesFS must provide the same two paths.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
