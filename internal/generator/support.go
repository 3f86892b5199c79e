package generator

// EmitSupportTypes renders bright.types.ts, the helper types the table and
// function bindings build on
func EmitSupportTypes(opts Options) (Document, error) {
	return render("support.tmpl", opts.SupportTypesPath, struct {
		Header         string
		DatabaseImport string
		WithRPC        bool
	}{
		Header:         Header,
		DatabaseImport: opts.DatabaseImport,
		WithRPC:        opts.WithRPC,
	})
}
