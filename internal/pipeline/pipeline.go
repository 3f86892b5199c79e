package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/brightside-developer/brightbase-gen/internal/generator"
	"github.com/brightside-developer/brightbase-gen/internal/includes"
	"github.com/brightside-developer/brightbase-gen/internal/output"
	"github.com/brightside-developer/brightbase-gen/internal/parser"
	"github.com/rs/zerolog"
)

// Options controls a generation run
type Options struct {
	DryRun bool
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return o.Logger.With().Str("component", "pipeline").Logger()
}

// Rendered holds everything a run would persist, computed without touching outputs
type Rendered struct {
	Schema    parser.Schema
	Artifacts []output.Artifact
}

// Report summarizes a run
type Report struct {
	Schema  parser.Schema
	Results []output.Result
}

// Changed returns the results that wrote or removed a file
func (r Report) Changed() []output.Result {
	var changed []output.Result
	for _, res := range r.Results {
		if res.Changed() {
			changed = append(changed, res)
		}
	}
	return changed
}

// Render reads the schema through fsys, applies the include file and renders
// every artifact. Errors here are fatal: nothing has been written yet.
func Render(cfg config.Config, fsys output.FileSystem, opts Options) (Rendered, error) {
	log := opts.logger()

	schemaPath := cfg.SchemaFile()
	text, err := parser.ReadSchemaWith(fsys.ReadFile, schemaPath)
	if err != nil {
		return Rendered{}, err
	}

	schema := parser.Extract(text)
	log.Debug().
		Str("schema", schemaPath).
		Int("tables", len(schema.Tables)).
		Int("functions", len(schema.Functions)).
		Msg("Extracted schema")

	schema, err = applyIncludes(cfg, schema, log)
	if err != nil {
		return Rendered{}, err
	}

	genOpts := generator.OptionsFromConfig(cfg)

	support, err := generator.EmitSupportTypes(genOpts)
	if err != nil {
		return Rendered{}, err
	}
	tables, err := generator.EmitTableBindings(schema.Tables, genOpts)
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to generate table bindings: %w", err)
	}

	artifacts := []output.Artifact{
		output.WriteArtifact(support.Path, support.Content),
		output.WriteArtifact(tables.Path, tables.Content),
	}

	if cfg.WithRPC {
		rpc, ok, err := generator.EmitRpcBindings(schema.Functions, genOpts)
		if err != nil {
			return Rendered{}, fmt.Errorf("failed to generate function bindings: %w", err)
		}
		if ok {
			artifacts = append(artifacts, output.WriteArtifact(rpc.Path, rpc.Content))
		} else {
			log.Info().Str("path", genOpts.RpcPath).Msg("No RPC functions found, removing Rpc.ts if present")
			artifacts = append(artifacts, output.DeleteArtifact(genOpts.RpcPath))
		}
	}

	return Rendered{Schema: schema, Artifacts: artifacts}, nil
}

// applyIncludes filters the schema by the configured include file. A missing
// include file selects everything.
func applyIncludes(cfg config.Config, schema parser.Schema, log zerolog.Logger) (parser.Schema, error) {
	path := cfg.IncludePath()
	if path == "" {
		return schema, nil
	}

	inc, err := includes.LoadIncludesFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("Includes file not found, run 'brightbase-gen getincludes' to create it. Generating everything")
			return schema, nil
		}
		return parser.Schema{}, err
	}

	filtered := includes.Filter(schema, inc)
	log.Debug().
		Int("tables", len(filtered.Tables)).
		Int("functions", len(filtered.Functions)).
		Msg("Applied includes file")
	return filtered, nil
}

// Run performs one generation run: render, then sync every artifact to fsys.
// Sync failures are reported together after every artifact was attempted.
func Run(ctx context.Context, cfg config.Config, fsys output.FileSystem, opts Options) (Report, error) {
	rendered, err := Render(cfg, fsys, opts)
	if err != nil {
		return Report{}, err
	}

	results, err := output.Apply(ctx, fsys, rendered.Artifacts, output.ApplyOptions{
		DryRun:      opts.DryRun,
		Concurrency: cfg.Concurrency,
		Logger:      opts.Logger,
	})
	return Report{Schema: rendered.Schema, Results: results}, err
}

// Check renders in memory and returns the artifacts that are stale on fsys
func Check(cfg config.Config, fsys output.FileSystem, opts Options) ([]output.Result, error) {
	rendered, err := Render(cfg, fsys, opts)
	if err != nil {
		return nil, err
	}

	results, err := output.Diff(fsys, rendered.Artifacts)
	if err != nil {
		return nil, err
	}

	var stale []output.Result
	for _, r := range results {
		if r.Changed() {
			stale = append(stale, r)
		}
	}
	return stale, nil
}
