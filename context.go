package gitver

import (
	"fmt"

	"github.com/blang/semver"
)

// Options configures context resolution.
type Options struct {
	// Repository is the repository to resolve against.
	Repository Repository

	// Config is the global configuration; nil means the built-in defaults.
	Config *Config

	// TargetBranch optionally names the branch to treat as current.
	TargetBranch string

	// CommitID optionally selects an explicit commit by hash,
	// case-insensitively.
	CommitID string

	// OnlyTrackedBranches restricts detached-HEAD containment resolution
	// to tracked branches.
	OnlyTrackedBranches bool

	// Sink, when set, additionally receives diagnostic events as they are
	// emitted. The resolved context always carries the full list.
	Sink DiagnosticSink
}

// Context is the resolved versioning context: the inputs every downstream
// version computation needs, assembled once per invocation and immutable
// thereafter.
type Context struct {
	Repository Repository
	Config     *Config
	Effective  *EffectiveConfiguration

	CurrentBranch *Branch
	CurrentCommit *Commit

	// CurrentCommitTaggedVersion is the maximum semantic version among the
	// tags pointing at the current commit, when there is one.
	CurrentCommitTaggedVersion *semver.Version
	IsCurrentCommitTagged      bool

	OnlyTrackedBranches bool

	// Diagnostics are the warnings and notices emitted during resolution,
	// in order.
	Diagnostics []Event
}

// Build resolves the versioning context for a repository snapshot. Any
// fatal configuration error (no determinable branch, required field unset
// after merge) aborts construction entirely; there is no partially-built
// context.
func Build(opts Options) (*Context, error) {
	if opts.Repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	recorder := &Recorder{}
	sink := DiagnosticSink(recorder)
	if opts.Sink != nil {
		sink = teeSink{recorder, opts.Sink}
	}

	branch, commit, err := ResolveTarget(opts.Repository, opts.TargetBranch, opts.CommitID, opts.OnlyTrackedBranches, sink)
	if err != nil {
		return nil, fmt.Errorf("resolving target: %w", err)
	}

	override, err := ResolveBranchConfig(cfg, branch)
	if err != nil {
		return nil, fmt.Errorf("resolving branch configuration for %q: %w", branch.FriendlyName, err)
	}

	effective, err := Merge(cfg, override)
	if err != nil {
		return nil, fmt.Errorf("merging configuration for branch %q: %w", branch.FriendlyName, err)
	}

	tagged, isTagged, err := DetectTaggedVersion(opts.Repository, commit, effective.TagPrefix)
	if err != nil {
		return nil, fmt.Errorf("detecting tagged version: %w", err)
	}

	ctx := &Context{
		Repository:            opts.Repository,
		Config:                cfg,
		Effective:             effective,
		CurrentBranch:         branch,
		CurrentCommit:         commit,
		IsCurrentCommitTagged: isTagged,
		OnlyTrackedBranches:   opts.OnlyTrackedBranches,
		Diagnostics:           recorder.Events(),
	}
	if isTagged {
		ctx.CurrentCommitTaggedVersion = &tagged
	}

	return ctx, nil
}

type teeSink [2]DiagnosticSink

func (t teeSink) Record(event Event) {
	t[0].Record(event)
	t[1].Record(event)
}
