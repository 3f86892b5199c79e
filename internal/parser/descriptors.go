package parser

// TableDescriptor represents a table (or view) entry found in the schema text
type TableDescriptor struct {
	// TableName is the raw schema key, exactly as written in the source
	TableName string
	// BindingName is the UpperCamelCase name used for generated types and values
	BindingName string
}

// RpcDescriptor represents a remote procedure entry found in the schema text
type RpcDescriptor struct {
	FunctionName string
	// ArgsLiteral and ReturnLiteral are the type expressions of the Args and
	// Returns fields, trimmed but otherwise verbatim
	ArgsLiteral   string
	ReturnLiteral string
}

// Schema is the result of scanning one schema text
type Schema struct {
	Tables    []TableDescriptor
	Functions []RpcDescriptor
}

// TableNames returns the raw table names in source order
func (s Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.TableName)
	}
	return names
}

// FunctionNames returns the raw function names in source order
func (s Schema) FunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		names = append(names, f.FunctionName)
	}
	return names
}
