package includes

import (
	"regexp"

	"github.com/brightside-developer/brightbase-gen/internal/parser"
)

// Table references inside function type literals, e.g.
// Database['public']['Tables']['posts']['Row'] or Tables<'posts'>
var tableRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\s*['"]Tables['"]\s*\]\s*\[\s*['"]([^'"]+)['"]\s*\]`),
	regexp.MustCompile(`\bTables<\s*['"]([^'"]+)['"]`),
}

// ResolveDependencies adds the tables referenced by the selected functions.
// With no table selection everything is already included, so nothing changes.
func ResolveDependencies(includes IncludesFile, functions []parser.RpcDescriptor) IncludesFile {
	if len(includes.Tables) == 0 {
		return includes
	}

	tables := append([]string(nil), includes.Tables...)
	for _, fn := range functions {
		if !IsFunctionIncluded(includes, fn.FunctionName) {
			continue
		}
		for _, ref := range tableRefs(fn) {
			if !contains(tables, ref) {
				tables = append(tables, ref)
			}
		}
	}

	includes.Tables = tables
	return includes
}

// tableRefs lists table names mentioned in a function's literals, in order
func tableRefs(fn parser.RpcDescriptor) []string {
	var refs []string
	for _, literal := range []string{fn.ArgsLiteral, fn.ReturnLiteral} {
		for _, re := range tableRefPatterns {
			for _, m := range re.FindAllStringSubmatch(literal, -1) {
				refs = append(refs, m[1])
			}
		}
	}
	return refs
}
