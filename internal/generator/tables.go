package generator

import (
	"github.com/brightside-developer/brightbase-gen/internal/parser"
)

type tableView struct {
	Binding string
	Key     string
	Literal string
	// Read references the accessor's read method in a type position
	Read string
}

// EmitTableBindings renders Tables.ts: per table a record type, create options,
// read options and infinite read options, then the Tables mapping
func EmitTableBindings(tables []parser.TableDescriptor, opts Options) (Document, error) {
	names := make([]namedEntry, len(tables))
	for i, t := range tables {
		names[i] = namedEntry{Key: t.TableName, Binding: t.BindingName}
	}
	if err := checkNames(KindTable, names, tableDeclarations); err != nil {
		return Document{}, err
	}

	views := make([]tableView, len(tables))
	for i, t := range tables {
		v := tableView{
			Binding: t.BindingName,
			Key:     propertyKey(t.TableName),
			Literal: quote(t.TableName),
		}
		if parser.IsValidIdentifier(t.TableName) {
			v.Read = "typeof Tables." + t.TableName + ".read"
		} else {
			v.Read = "(typeof Tables)[" + v.Literal + "]['read']"
		}
		views[i] = v
	}

	return render("tables.tmpl", opts.TablesPath, struct {
		Header       string
		CRUDPackage  string
		TypesImport  string
		OmitOnCreate string
		Tables       []tableView
	}{
		Header:       Header,
		CRUDPackage:  opts.CRUDPackage,
		TypesImport:  opts.TypesImport,
		OmitOnCreate: unionOf(opts.OmitOnCreate),
		Tables:       views,
	})
}
