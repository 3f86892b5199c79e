package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/brightside-developer/brightbase-gen/internal/parser"
)

// Header is the first line of every generated document
const Header = "// Code generated by brightbase-gen. DO NOT EDIT."

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Document is a generated artifact: a target path plus its full content
type Document struct {
	Path    string
	Content []byte
}

// Options controls paths and imports of the generated documents
type Options struct {
	SupportTypesPath string
	TablesPath       string
	RpcPath          string

	// CRUDPackage exports BrightBaseCRUD and BrightBaseFunctions
	CRUDPackage string
	// TypesImport is the specifier from the api directory to the types directory
	TypesImport string
	// DatabaseImport is the specifier from the types directory to the schema module
	DatabaseImport string
	// SchemaImport is the specifier from the api directory to the schema module
	SchemaImport string

	OmitOnCreate []string
	WithRPC      bool
}

// OptionsFromConfig derives emitter options from a loaded configuration
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		SupportTypesPath: cfg.SupportTypesPath(),
		TablesPath:       cfg.TablesPath(),
		RpcPath:          cfg.RpcPath(),
		CRUDPackage:      cfg.CRUDPackage,
		TypesImport:      cfg.ResolvedTypesImport(),
		DatabaseImport:   cfg.DatabaseTypesImport(),
		SchemaImport:     cfg.SchemaImport(),
		OmitOnCreate:     cfg.OmitOnCreate,
		WithRPC:          cfg.WithRPC,
	}
}

// render executes the named template into a document
func render(name, path string, data any) (Document, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Document{}, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return Document{Path: path, Content: buf.Bytes()}, nil
}

// quote returns s as a single-quoted TypeScript string literal
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// propertyKey returns name as an object literal key, quoted when it is not an identifier
func propertyKey(name string) string {
	if parser.IsValidIdentifier(name) {
		return name
	}
	return quote(name)
}

// unionOf renders column names as a string literal union
func unionOf(columns []string) string {
	if len(columns) == 0 {
		return "never"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = quote(c)
	}
	return strings.Join(parts, " | ")
}

// reindent strips the common indentation of every line after the first and
// re-prefixes them with indent
func reindent(s, indent string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return s
	}

	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		if common < 0 || n < common {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + lines[i][common:]
	}
	return strings.Join(lines, "\n")
}
