package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/schema"
)

type keysFlags struct {
	pkg      string
	typeName string
	output   string
}

func newKeysCmd(a *app) *cobra.Command {
	f := &keysFlags{}
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate typed Go keys for a definition",
		Long:  `Writes a Go file declaring a brand type, one schema.Field key per definition field and a constructor that builds the schema, so field names are checked by the compiler.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := a.definition(cmd.Context())
			if err != nil {
				return err
			}
			src, err := generateKeys(def, f.pkg, f.typeName)
			if err != nil {
				return err
			}
			if f.output == "" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			return os.WriteFile(f.output, src, 0o644)
		},
	}
	cmd.Flags().StringVarP(&f.pkg, "package", "p", "forms", "package name of the generated file")
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "brand type name (defaults to the definition id)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

type keyField struct {
	Ident   string
	Name    string
	Options []string
}

type keysData struct {
	Package string
	Type    string
	Schema  string
	Fields  []keyField
}

var keysTemplate = template.Must(template.New("keys").Parse(`// Code generated by formbind keys. DO NOT EDIT.

package {{ .Package }}

import "github.com/goliatone/go-formbind/pkg/schema"

// {{ .Type }} brands the fields of the {{ printf "%q" .Schema }} form.
type {{ .Type }} struct{}

// {{ .Type }}Keys holds one typed key per field.
type {{ .Type }}Keys struct {
{{- range .Fields }}
	{{ .Ident }} schema.Field[{{ $.Type }}]
{{- end }}
}

// New{{ .Type }} builds the schema and its keys.
func New{{ .Type }}() (*schema.Schema[{{ .Type }}], {{ .Type }}Keys, error) {
	b := schema.NewBuilder[{{ .Type }}]().ID({{ printf "%q" .Schema }})
	keys := {{ .Type }}Keys{
{{- range .Fields }}
		{{ .Ident }}: b.Field({{ printf "%q" .Name }}{{ range .Options }}, {{ . }}{{ end }}),
{{- end }}
	}
	s, err := b.Build()
	if err != nil {
		return nil, {{ .Type }}Keys{}, err
	}
	return s, keys, nil
}
`))

// generateKeys renders and gofmts the key file for def.
func generateKeys(def schema.Definition, pkg, typeName string) ([]byte, error) {
	if pkg == "" {
		pkg = "forms"
	}
	if typeName == "" {
		typeName = exportedIdent(def.ID)
		if typeName == "" {
			typeName = "Form"
		}
	}
	data := keysData{Package: pkg, Type: exportedIdent(typeName), Schema: def.ID}

	seen := make(map[string]int)
	for _, field := range def.Fields {
		ident := exportedIdent(field.Name)
		if ident == "" {
			return nil, fmt.Errorf("field %q has no usable Go identifier", field.Name)
		}
		if n := seen[ident]; n > 0 {
			seen[ident] = n + 1
			ident = ident + strconv.Itoa(n+1)
		} else {
			seen[ident] = 1
		}
		data.Fields = append(data.Fields, keyField{Ident: ident, Name: field.Name, Options: fieldOptions(field)})
	}

	var buf bytes.Buffer
	if err := keysTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render keys: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format keys: %w", err)
	}
	return src, nil
}

func fieldOptions(field schema.FieldDefinition) []string {
	var out []string
	if field.Label != "" {
		out = append(out, "schema.Label("+strconv.Quote(field.Label)+")")
	}
	if field.Placeholder != "" {
		out = append(out, "schema.Placeholder("+strconv.Quote(field.Placeholder)+")")
	}
	if field.Input != "" {
		out = append(out, "schema.InputType("+strconv.Quote(field.Input)+")")
	}
	if field.Required {
		out = append(out, "schema.Required()")
	}
	if field.MinLength != nil {
		out = append(out, "schema.MinLength("+strconv.Itoa(*field.MinLength)+")")
	}
	if field.MaxLength != nil {
		out = append(out, "schema.MaxLength("+strconv.Itoa(*field.MaxLength)+")")
	}
	if field.Pattern != "" {
		out = append(out, "schema.Pattern("+strconv.Quote(field.Pattern)+")")
	}
	kinds := make([]string, 0, len(field.Messages))
	for kind := range field.Messages {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		out = append(out, "schema.Message("+strconv.Quote(kind)+", "+strconv.Quote(field.Messages[kind])+")")
	}
	return out
}

// exportedIdent turns names such as "first_name" or "first-name" into
// FirstName. Letters inside a word keep their case, so "firstName" becomes
// FirstName too.
func exportedIdent(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	ident := b.String()
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		ident = "F" + ident
	}
	return ident
}
