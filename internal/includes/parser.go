package includes

import (
	"fmt"
	"os"
	"strings"

	"github.com/brightside-developer/brightbase-gen/internal/parser"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// LoadIncludesFile loads the includes file from the given path
func LoadIncludesFile(path string) (IncludesFile, error) {
	var includes IncludesFile

	data, err := os.ReadFile(path)
	if err != nil {
		return includes, fmt.Errorf("failed to read includes file: %w", err)
	}

	if err := yaml.Unmarshal(data, &includes); err != nil {
		return includes, fmt.Errorf("failed to parse includes file: %w", err)
	}

	return includes, nil
}

// matchKey folds naming styles so UserProfiles, user-profiles and
// user_profiles select the same entry
func matchKey(name string) string {
	return strcase.ToSnake(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

func contains(list []string, name string) bool {
	key := matchKey(name)
	for _, entry := range list {
		if matchKey(entry) == key {
			return true
		}
	}
	return false
}

// IsTableIncluded checks if a table is selected
func IsTableIncluded(includes IncludesFile, tableName string) bool {
	return len(includes.Tables) == 0 || contains(includes.Tables, tableName)
}

// IsFunctionIncluded checks if a function is selected
func IsFunctionIncluded(includes IncludesFile, functionName string) bool {
	return len(includes.Functions) == 0 || contains(includes.Functions, functionName)
}

// Filter keeps the selected tables and functions in source order. Tables
// referenced by a selected function are kept as well.
func Filter(schema parser.Schema, includes IncludesFile) parser.Schema {
	includes = ResolveDependencies(includes, schema.Functions)

	var out parser.Schema
	for _, t := range schema.Tables {
		if IsTableIncluded(includes, t.TableName) {
			out.Tables = append(out.Tables, t)
		}
	}
	for _, fn := range schema.Functions {
		if IsFunctionIncluded(includes, fn.FunctionName) {
			out.Functions = append(out.Functions, fn)
		}
	}
	return out
}

// WriteIncludesFile writes the includes file to the given path
// If commentOut is true, all entries will be commented out
func WriteIncludesFile(path string, tables []string, functions []string, commentOut bool) error {
	var content strings.Builder

	content.WriteString("# Tables and functions to generate bindings for. Empty lists select everything.\n")
	content.WriteString("tables:\n")
	for _, table := range tables {
		if commentOut {
			content.WriteString("# - " + table + "\n")
		} else {
			content.WriteString("- " + table + "\n")
		}
	}

	content.WriteString("\nfunctions:\n")
	for _, fn := range functions {
		if commentOut {
			content.WriteString("# - " + fn + "\n")
		} else {
			content.WriteString("- " + fn + "\n")
		}
	}

	return os.WriteFile(path, []byte(content.String()), 0o644)
}
