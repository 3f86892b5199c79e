package generator

import (
	"regexp"
	"strings"

	"github.com/brightside-developer/brightbase-gen/internal/parser"
)

// schemaTypes are the schema module exports a literal may refer to
var schemaTypes = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Database", regexp.MustCompile(`\bDatabase\b`)},
	{"Json", regexp.MustCompile(`\bJson\b`)},
}

type functionView struct {
	Binding string
	Key     string
	Literal string
	Args    string
	Returns string
}

// EmitRpcBindings renders Rpc.ts. The boolean is false when there are no
// functions, meaning no document exists and a prior Rpc.ts must be removed.
func EmitRpcBindings(rpcs []parser.RpcDescriptor, opts Options) (Document, bool, error) {
	if len(rpcs) == 0 {
		return Document{}, false, nil
	}

	names := make([]namedEntry, len(rpcs))
	for i, fn := range rpcs {
		names[i] = namedEntry{Key: fn.FunctionName, Binding: parser.Normalize(fn.FunctionName)}
	}
	if err := checkNames(KindFunction, names, functionDeclarations); err != nil {
		return Document{}, false, err
	}

	views := make([]functionView, len(rpcs))
	literals := make([]string, len(rpcs))
	for i, fn := range rpcs {
		views[i] = functionView{
			Binding: names[i].Binding,
			Key:     propertyKey(fn.FunctionName),
			Literal: quote(fn.FunctionName),
			Args:    reindent(fn.ArgsLiteral, "    "),
			Returns: reindent(fn.ReturnLiteral, "    "),
		}
		literals[i] = views[i].Literal
	}

	doc, err := render("rpc.tmpl", opts.RpcPath, struct {
		Header       string
		CRUDPackage  string
		SchemaImport string
		SchemaTypes  []string
		Functions    []functionView
		NameList     string
	}{
		Header:       Header,
		CRUDPackage:  opts.CRUDPackage,
		SchemaImport: opts.SchemaImport,
		SchemaTypes:  referencedSchemaTypes(rpcs),
		Functions:    views,
		NameList:     strings.Join(literals, ", "),
	})
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

// referencedSchemaTypes lists the schema exports mentioned by any literal
func referencedSchemaTypes(rpcs []parser.RpcDescriptor) []string {
	var found []string
	for _, st := range schemaTypes {
		for _, fn := range rpcs {
			if st.re.MatchString(fn.ArgsLiteral) || st.re.MatchString(fn.ReturnLiteral) {
				found = append(found, st.name)
				break
			}
		}
	}
	return found
}
