package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/jaxxstorm/gitver"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Branch      string `short:"b" help:"Branch to treat as current (default: the HEAD branch)"`
	Commit      string `short:"c" help:"Explicit commit hash to resolve (case-insensitive)"`
	Repo        string `short:"r" help:"Repository path (default: current directory)"`
	Config      string `help:"Configuration file name" default:"gitver.yml"`
	TrackedOnly bool   `help:"Only consider tracked branches when resolving a detached HEAD"`
	JSON        bool   `short:"j" help:"Output as JSON"`
	Quiet       bool   `short:"q" help:"Suppress resolution warnings"`
	ShowVersion bool   `help:"Show version information" name:"version"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("gitver"),
		kong.Description("Resolve the branch-aware versioning context for a Git repository"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.ShowVersion {
		return c.showVersion()
	}

	repoPath := c.Repo
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := gitver.OpenRepository(repoPath)
	if err != nil {
		return fmt.Errorf("opening repository at %q: %w", repoPath, err)
	}

	cfg, err := gitver.LoadConfigFile(filepath.Join(repoPath, c.Config))
	if err != nil {
		return err
	}

	opts := gitver.Options{
		Repository:          repo,
		Config:              cfg,
		TargetBranch:        c.Branch,
		CommitID:            c.Commit,
		OnlyTrackedBranches: c.TrackedOnly,
	}
	if !c.Quiet {
		opts.Sink = stderrSink{}
	}

	ctx, err := gitver.Build(opts)
	if err != nil {
		return fmt.Errorf("building versioning context: %w", err)
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(contextOutput(ctx))
	}

	printContext(ctx)
	return nil
}

func (c *CLI) showVersion() error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "gitver",
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(versionInfo)
	}

	fmt.Printf("gitver version %s\n", Version)
	return nil
}

// output is the serializable view of a resolved context.
type output struct {
	Branch        string `json:"branch"`
	Commit        string `json:"commit"`
	Tagged        bool   `json:"tagged"`
	TaggedVersion string `json:"taggedVersion,omitempty"`

	VersioningMode string `json:"mode"`
	Increment      string `json:"increment"`
	Tag            string `json:"tag,omitempty"`
	TagPrefix      string `json:"tagPrefix"`

	IsReleaseBranch       bool `json:"isReleaseBranch"`
	TracksReleaseBranches bool `json:"tracksReleaseBranches"`
	TrackMergeTarget      bool `json:"trackMergeTarget"`
}

func contextOutput(ctx *gitver.Context) output {
	out := output{
		Branch: ctx.CurrentBranch.FriendlyName,
		Commit: ctx.CurrentCommit.Hash,
		Tagged: ctx.IsCurrentCommitTagged,

		VersioningMode: string(ctx.Effective.VersioningMode),
		Increment:      string(ctx.Effective.Increment),
		Tag:            ctx.Effective.Tag,
		TagPrefix:      ctx.Effective.TagPrefix,

		IsReleaseBranch:       ctx.Effective.IsReleaseBranch,
		TracksReleaseBranches: ctx.Effective.TracksReleaseBranches,
		TrackMergeTarget:      ctx.Effective.TrackMergeTarget,
	}
	if ctx.CurrentCommitTaggedVersion != nil {
		out.TaggedVersion = ctx.CurrentCommitTaggedVersion.String()
	}
	return out
}

func printContext(ctx *gitver.Context) {
	fmt.Printf("Branch:    %s\n", ctx.CurrentBranch.FriendlyName)
	fmt.Printf("Commit:    %s\n", ctx.CurrentCommit.Hash)
	if ctx.CurrentCommitTaggedVersion != nil {
		fmt.Printf("Tagged:    %s\n", ctx.CurrentCommitTaggedVersion.String())
	} else {
		fmt.Printf("Tagged:    (none)\n")
	}
	fmt.Printf("Mode:      %s\n", ctx.Effective.VersioningMode)
	fmt.Printf("Increment: %s\n", ctx.Effective.Increment)
	if ctx.Effective.Tag != "" {
		fmt.Printf("Label:     %s\n", ctx.Effective.Tag)
	}
}

// stderrSink prints resolution diagnostics as they are emitted.
type stderrSink struct{}

func (stderrSink) Record(event gitver.Event) {
	fmt.Fprintf(os.Stderr, "%s\n", event)
}
