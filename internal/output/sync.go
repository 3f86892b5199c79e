package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent artifact syncs when none is configured
const DefaultConcurrency = 3

// Status is the outcome of syncing one artifact
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusDeleted   Status = "deleted"
	StatusAbsent    Status = "absent"
	StatusFailed    Status = "failed"
)

// Artifact is a file to write, or with Delete set, a file to remove if present
type Artifact struct {
	Path    string
	Content []byte
	Delete  bool
}

// WriteArtifact returns an artifact that writes content to path
func WriteArtifact(path string, content []byte) Artifact {
	return Artifact{Path: path, Content: content}
}

// DeleteArtifact returns an artifact that removes path if it exists
func DeleteArtifact(path string) Artifact {
	return Artifact{Path: path, Delete: true}
}

// Result reports what happened (or, in a dry run, would happen) to one artifact
type Result struct {
	Path   string
	Status Status
	Digest uint64
	Err    error
}

// Changed reports whether the artifact differs from disk
func (r Result) Changed() bool {
	return r.Status == StatusWritten || r.Status == StatusDeleted
}

// DigestHex formats the content digest for logs and reports
func (r Result) DigestHex() string {
	if r.Digest == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", r.Digest)
}

// ApplyOptions controls Apply
type ApplyOptions struct {
	// DryRun computes statuses without touching disk
	DryRun      bool
	Concurrency int
	Logger      *zerolog.Logger
}

func (o ApplyOptions) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return o.Logger.With().Str("component", "output").Logger()
}

// Apply syncs every artifact to fs. Artifacts are independent: a failure on
// one does not stop the others, and all failures are combined in the returned
// error. Results are in artifact order.
func Apply(ctx context.Context, fsys FileSystem, artifacts []Artifact, opts ApplyOptions) ([]Result, error) {
	log := opts.logger()
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]Result, len(artifacts))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, a := range artifacts {
		i, a := i, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: a.Path, Status: StatusFailed, Err: err}
				return nil
			}
			results[i] = syncArtifact(fsys, a, opts.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, r := range results {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("path", r.Path).Msg("Artifact sync failed")
			errs = multierr.Append(errs, r.Err)
			continue
		}
		log.Debug().
			Str("path", r.Path).
			Str("status", string(r.Status)).
			Str("digest", r.DigestHex()).
			Bool("dry_run", opts.DryRun).
			Msg("Artifact synced")
	}
	return results, errs
}

// Diff reports, without writing, which artifacts are stale on fs
func Diff(fsys FileSystem, artifacts []Artifact) ([]Result, error) {
	return Apply(context.Background(), fsys, artifacts, ApplyOptions{DryRun: true, Concurrency: 1})
}

func syncArtifact(fsys FileSystem, a Artifact, dryRun bool) Result {
	if a.Delete {
		return deleteArtifact(fsys, a.Path, dryRun)
	}

	res := Result{Path: a.Path, Digest: xxh3.Hash(a.Content)}
	if current, err := fsys.ReadFile(a.Path); err == nil && bytes.Equal(current, a.Content) {
		res.Status = StatusUnchanged
		return res
	}

	res.Status = StatusWritten
	if dryRun {
		return res
	}
	if err := fsys.WriteFileAtomic(a.Path, a.Content, 0o644); err != nil {
		res.Status = StatusFailed
		res.Err = &Error{Op: OpWrite, Path: a.Path, Err: err}
	}
	return res
}

func deleteArtifact(fsys FileSystem, path string, dryRun bool) Result {
	res := Result{Path: path}
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusAbsent
			return res
		}
		res.Status = StatusFailed
		res.Err = &Error{Op: OpDelete, Path: path, Err: err}
		return res
	}

	res.Status = StatusDeleted
	if dryRun {
		return res
	}
	if err := fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		res.Status = StatusFailed
		res.Err = &Error{Op: OpDelete, Path: path, Err: err}
	}
	return res
}
