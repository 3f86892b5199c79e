package includes

// IncludesFile selects the tables and functions bindings are generated for.
// An empty list selects everything of that kind.
type IncludesFile struct {
	Tables    []string `yaml:"tables"`
	Functions []string `yaml:"functions"`
}

// NewEmptyIncludesFile creates an includes file that selects everything
func NewEmptyIncludesFile() IncludesFile {
	return IncludesFile{
		Tables:    []string{},
		Functions: []string{},
	}
}
