package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSchemaUnreadable is returned when the schema text cannot be obtained
var ErrSchemaUnreadable = errors.New("schema unreadable")

// Marker fields used to classify an entry
const (
	markerRow     = "Row"
	markerArgs    = "Args"
	markerReturns = "Returns"
)

// ReadFunc fetches the raw bytes stored at path
type ReadFunc func(path string) ([]byte, error)

// ReadSchema reads the schema text from path on the local disk
func ReadSchema(path string) (string, error) {
	return ReadSchemaWith(os.ReadFile, path)
}

// ReadSchemaWith reads the schema text through read
func ReadSchemaWith(read ReadFunc, path string) (string, error) {
	data, err := read(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSchemaUnreadable, path, err)
	}
	return string(data), nil
}

// ParseSchemaFile reads the file at path and extracts both descriptor kinds
func ParseSchemaFile(path string) (Schema, error) {
	text, err := ReadSchema(path)
	if err != nil {
		return Schema{}, err
	}
	return Extract(text), nil
}

// Extract scans the text once and returns tables and functions in source order.
// An overloaded function is a union of signatures with no keyed body, so it
// yields no descriptor.
func Extract(text string) Schema {
	var s Schema
	walkEntries(text, func(e entry) bool {
		fields := topLevelFields(e.Body)
		if t, ok := asTable(e.Key, fields); ok {
			s.Tables = append(s.Tables, t)
			return true
		}
		if f, ok := asFunction(e.Key, fields); ok {
			s.Functions = append(s.Functions, f)
			return true
		}
		return false
	})
	return s
}

// ExtractTables returns every entry carrying an object-typed Row field
func ExtractTables(text string) []TableDescriptor {
	return Extract(text).Tables
}

// ExtractRpcFunctions returns every entry carrying both Args and Returns fields
func ExtractRpcFunctions(text string) []RpcDescriptor {
	return Extract(text).Functions
}

// asTable classifies an entry as a table when it has a Row object
func asTable(key string, fields []field) (TableDescriptor, bool) {
	row, ok := lookupField(fields, markerRow)
	if !ok || !strings.HasPrefix(row, "{") {
		return TableDescriptor{}, false
	}
	return TableDescriptor{
		TableName:   key,
		BindingName: Normalize(key),
	}, true
}

// asFunction classifies an entry as a remote procedure when it has Args and Returns
func asFunction(key string, fields []field) (RpcDescriptor, bool) {
	args, ok := lookupField(fields, markerArgs)
	if !ok {
		return RpcDescriptor{}, false
	}
	returns, ok := lookupField(fields, markerReturns)
	if !ok {
		return RpcDescriptor{}, false
	}
	return RpcDescriptor{
		FunctionName:  key,
		ArgsLiteral:   args,
		ReturnLiteral: returns,
	}, true
}

// lookupField returns the first field with the given key
func lookupField(fields []field, key string) (string, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}
