package generator

import (
	"fmt"
	"strings"

	"github.com/brightside-developer/brightbase-gen/internal/parser"
	"go.uber.org/multierr"
)

// Entry kinds named in naming errors
const (
	KindTable    = "table"
	KindFunction = "function"
)

// CollisionError reports schema keys that would produce the same identifier
// in a generated document. Binding is the identifier declared twice. Reserved
// is set when the identifier is one the document already imports or declares.
type CollisionError struct {
	Kind     string
	Binding  string
	Keys     []string
	Reserved bool
}

func (e *CollisionError) Error() string {
	switch {
	case e.Reserved:
		return fmt.Sprintf("%s %q declares %q, which the generated file already uses", e.Kind, e.Keys[0], e.Binding)
	case allEqual(e.Keys):
		return fmt.Sprintf("duplicate %s %q (%d occurrences)", e.Kind, e.Keys[0], len(e.Keys))
	case allNormalizeTo(e.Keys, e.Binding):
		return fmt.Sprintf("%s names %s all normalize to %q", e.Kind, strings.Join(quoteAll(e.Keys), ", "), e.Binding)
	}
	return fmt.Sprintf("%s names %s both declare %q", e.Kind, strings.Join(quoteAll(e.Keys), ", "), e.Binding)
}

// InvalidNameError reports a key whose binding is not a usable identifier
type InvalidNameError struct {
	Kind    string
	Key     string
	Binding string
}

func (e *InvalidNameError) Error() string {
	if e.Binding == "" {
		return fmt.Sprintf("%s %q normalizes to an empty name", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s %q normalizes to %q, which is not a valid identifier", e.Kind, e.Key, e.Binding)
}

type namedEntry struct {
	Key     string
	Binding string
}

// declarations describes the identifiers a document derives from each
// binding, and the ones it declares or imports on its own
type declarations struct {
	Suffixes []string
	Reserved []string
}

var (
	tableDeclarations = declarations{
		Suffixes: []string{"", "CreateOptions", "ReadOptions", "InfiniteReadOptions"},
		Reserved: []string{"BrightTable", "BrightBaseCRUD"},
	}
	functionDeclarations = declarations{
		Suffixes: []string{"Args", "Returns"},
		Reserved: []string{"FunctionsType", "BrightBaseFunctions", "Database", "Json"},
	}
)

// checkNames fails when keys repeat, collide after normalization, derive an
// identifier another key also derives, or do not yield an identifier. Every
// problem found is reported.
func checkNames(kind string, entries []namedEntry, decl declarations) error {
	var errs error

	groups := make(map[string][]string, len(entries))
	var order []string
	for _, e := range entries {
		if !parser.IsValidIdentifier(e.Binding) {
			errs = multierr.Append(errs, &InvalidNameError{Kind: kind, Key: e.Key, Binding: e.Binding})
			continue
		}
		if _, ok := groups[e.Binding]; !ok {
			order = append(order, e.Binding)
		}
		groups[e.Binding] = append(groups[e.Binding], e.Key)
	}

	for _, binding := range order {
		if keys := groups[binding]; len(keys) > 1 {
			errs = multierr.Append(errs, &CollisionError{Kind: kind, Binding: binding, Keys: keys})
		}
	}

	// owner maps each declared identifier to the binding that declares it,
	// reserved names are owned by the empty binding
	owner := make(map[string]string, len(order)*len(decl.Suffixes)+len(decl.Reserved))
	for _, name := range decl.Reserved {
		owner[name] = ""
	}
	reported := make(map[[2]string]bool)
	for _, binding := range order {
		for _, suffix := range decl.Suffixes {
			ident := binding + suffix
			first, taken := owner[ident]
			if !taken {
				owner[ident] = binding
				continue
			}
			if first == binding || reported[[2]string{first, binding}] {
				continue
			}
			reported[[2]string{first, binding}] = true

			if first == "" {
				errs = multierr.Append(errs, &CollisionError{
					Kind: kind, Binding: ident, Keys: groups[binding][:1], Reserved: true,
				})
				continue
			}
			keys := []string{groups[first][0], groups[binding][0]}
			errs = multierr.Append(errs, &CollisionError{Kind: kind, Binding: ident, Keys: keys})
		}
	}
	return errs
}

func allEqual(keys []string) bool {
	for _, k := range keys[1:] {
		if k != keys[0] {
			return false
		}
	}
	return true
}

func allNormalizeTo(keys []string, binding string) bool {
	for _, k := range keys {
		if parser.Normalize(k) != binding {
			return false
		}
	}
	return true
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}
