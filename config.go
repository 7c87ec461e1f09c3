package gitver

import (
	"fmt"
	"io"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// VersioningMode selects how versions advance between tagged releases.
type VersioningMode string

// Versioning modes.
const (
	ContinuousDelivery   VersioningMode = "ContinuousDelivery"
	ContinuousDeployment VersioningMode = "ContinuousDeployment"
	Mainline             VersioningMode = "Mainline"
)

// IncrementStrategy names which version component a branch increments.
type IncrementStrategy string

// Increment strategies.
const (
	IncrementNone    IncrementStrategy = "None"
	IncrementMajor   IncrementStrategy = "Major"
	IncrementMinor   IncrementStrategy = "Minor"
	IncrementPatch   IncrementStrategy = "Patch"
	IncrementInherit IncrementStrategy = "Inherit"
)

// AssemblyVersioningScheme controls how many version components flow into
// generated assembly versions.
type AssemblyVersioningScheme string

// Assembly versioning schemes.
const (
	AssemblyMajor              AssemblyVersioningScheme = "Major"
	AssemblyMajorMinor         AssemblyVersioningScheme = "MajorMinor"
	AssemblyMajorMinorPatch    AssemblyVersioningScheme = "MajorMinorPatch"
	AssemblyMajorMinorPatchTag AssemblyVersioningScheme = "MajorMinorPatchTag"
	AssemblyNone               AssemblyVersioningScheme = "None"
)

// CommitMessageIncrementMode controls whether commit messages can trigger
// version bumps.
type CommitMessageIncrementMode string

// Commit-message increment modes.
const (
	CommitMessageIncrementEnabled          CommitMessageIncrementMode = "Enabled"
	CommitMessageIncrementDisabled         CommitMessageIncrementMode = "Disabled"
	CommitMessageIncrementMergeMessageOnly CommitMessageIncrementMode = "MergeMessageOnly"
)

// Config is the global configuration tree. Every field is optional — nil
// means "not yet decided". Defaults are layered in by DefaultConfig and the
// branch configuration resolver before anything downstream consumes them.
type Config struct {
	AssemblyVersioningScheme     *AssemblyVersioningScheme `yaml:"assembly-versioning-scheme,omitempty"`
	AssemblyFileVersioningScheme *AssemblyVersioningScheme `yaml:"assembly-file-versioning-scheme,omitempty"`

	// TagPrefix is a regular expression fragment matched at the start of a
	// tag name, e.g. "[vV]".
	TagPrefix *string `yaml:"tag-prefix,omitempty"`

	// VersioningMode and Increment seed the per-branch defaults when a
	// branch override leaves them unset.
	VersioningMode *VersioningMode    `yaml:"mode,omitempty"`
	Increment      *IncrementStrategy `yaml:"increment,omitempty"`

	CommitMessageIncrementing *CommitMessageIncrementMode `yaml:"commit-message-incrementing,omitempty"`

	MajorVersionBumpMessage *string `yaml:"major-version-bump-message,omitempty"`
	MinorVersionBumpMessage *string `yaml:"minor-version-bump-message,omitempty"`
	PatchVersionBumpMessage *string `yaml:"patch-version-bump-message,omitempty"`
	NoBumpMessage           *string `yaml:"no-bump-message,omitempty"`

	LegacySemVerPadding              *int `yaml:"legacy-semver-padding,omitempty"`
	BuildMetaDataPadding             *int `yaml:"build-metadata-padding,omitempty"`
	CommitsSinceVersionSourcePadding *int `yaml:"commits-since-version-source-padding,omitempty"`

	Ignore IgnoreConfig `yaml:"ignore,omitempty"`

	// Branches maps a branch-pattern name to its override record.
	Branches map[string]*BranchConfig `yaml:"branches,omitempty"`
}

// BranchConfig is the override record for one branch pattern. All fields
// are optional; the branch configuration resolver completes the record
// before it reaches the merger.
type BranchConfig struct {
	// Name identifies the pattern entry; filled from the Branches map key.
	Name string `yaml:"-"`

	// Regex matches branch friendly names. Defaults to the map key.
	Regex *string `yaml:"regex,omitempty"`

	VersioningMode            *VersioningMode             `yaml:"mode,omitempty"`
	Tag                       *string                     `yaml:"tag,omitempty"`
	Increment                 *IncrementStrategy          `yaml:"increment,omitempty"`
	TagNumberPattern          *string                     `yaml:"tag-number-pattern,omitempty"`
	CommitMessageIncrementing *CommitMessageIncrementMode `yaml:"commit-message-incrementing,omitempty"`

	PreventIncrementOfMergedBranchVersion *bool `yaml:"prevent-increment-of-merged-branch-version,omitempty"`
	TrackMergeTarget                      *bool `yaml:"track-merge-target,omitempty"`
	TracksReleaseBranches                 *bool `yaml:"tracks-release-branches,omitempty"`
	IsReleaseBranch                       *bool `yaml:"is-release-branch,omitempty"`

	PreReleaseWeight *int `yaml:"pre-release-weight,omitempty"`
}

// IgnoreConfig lists commits excluded from version calculation.
type IgnoreConfig struct {
	// SHAs are exact commit hashes to ignore.
	SHAs []string `yaml:"sha,omitempty"`

	// Before excludes all commits at or before the given time.
	Before *time.Time `yaml:"commits-before,omitempty"`
}

// DefaultTagPrefix matches the conventional "v" prefix in either case.
const DefaultTagPrefix = `[vV]`

// DefaultConfig returns the built-in configuration: every global required
// field set, plus override records for the well-known branch kinds.
func DefaultConfig() *Config {
	cfg := &Config{
		AssemblyVersioningScheme:     ptr(AssemblyMajorMinorPatch),
		AssemblyFileVersioningScheme: ptr(AssemblyMajorMinorPatch),
		TagPrefix:                    ptr(DefaultTagPrefix),
		VersioningMode:               ptr(ContinuousDelivery),
		Increment:                    ptr(IncrementInherit),
		CommitMessageIncrementing:    ptr(CommitMessageIncrementEnabled),

		MajorVersionBumpMessage: ptr(`\+semver:\s?(breaking|major)`),
		MinorVersionBumpMessage: ptr(`\+semver:\s?(feature|minor)`),
		PatchVersionBumpMessage: ptr(`\+semver:\s?(fix|patch)`),
		NoBumpMessage:           ptr(`\+semver:\s?(none|skip)`),

		LegacySemVerPadding:              ptr(4),
		BuildMetaDataPadding:             ptr(4),
		CommitsSinceVersionSourcePadding: ptr(4),

		Branches: map[string]*BranchConfig{
			"master": {
				Regex:                                 ptr(`^master$|^main$`),
				Tag:                                   ptr(""),
				Increment:                             ptr(IncrementPatch),
				PreventIncrementOfMergedBranchVersion: ptr(true),
				TrackMergeTarget:                      ptr(false),
				TracksReleaseBranches:                 ptr(false),
				IsReleaseBranch:                       ptr(false),
				PreReleaseWeight:                      ptr(55000),
			},
			"develop": {
				Regex:                                 ptr(`^dev(elop)?(ment)?$`),
				VersioningMode:                        ptr(ContinuousDeployment),
				Tag:                                   ptr("alpha"),
				Increment:                             ptr(IncrementMinor),
				PreventIncrementOfMergedBranchVersion: ptr(false),
				TrackMergeTarget:                      ptr(true),
				TracksReleaseBranches:                 ptr(true),
				IsReleaseBranch:                       ptr(false),
			},
			"release": {
				Regex:                                 ptr(`^releases?[/-]`),
				Tag:                                   ptr("beta"),
				Increment:                             ptr(IncrementNone),
				PreventIncrementOfMergedBranchVersion: ptr(true),
				TrackMergeTarget:                      ptr(false),
				TracksReleaseBranches:                 ptr(false),
				IsReleaseBranch:                       ptr(true),
				PreReleaseWeight:                      ptr(30000),
			},
			"feature": {
				Regex:                                 ptr(`^features?[/-]`),
				Tag:                                   ptr("{BranchName}"),
				Increment:                             ptr(IncrementInherit),
				PreventIncrementOfMergedBranchVersion: ptr(false),
				TrackMergeTarget:                      ptr(false),
				TracksReleaseBranches:                 ptr(false),
				IsReleaseBranch:                       ptr(false),
				PreReleaseWeight:                      ptr(30000),
			},
			"hotfix": {
				Regex:                                 ptr(`^hotfix(es)?[/-]`),
				Tag:                                   ptr("beta"),
				Increment:                             ptr(IncrementPatch),
				PreventIncrementOfMergedBranchVersion: ptr(false),
				TrackMergeTarget:                      ptr(false),
				TracksReleaseBranches:                 ptr(false),
				IsReleaseBranch:                       ptr(false),
				PreReleaseWeight:                      ptr(30000),
			},
			"support": {
				Regex:                                 ptr(`^support[/-]`),
				Tag:                                   ptr(""),
				Increment:                             ptr(IncrementPatch),
				PreventIncrementOfMergedBranchVersion: ptr(true),
				TrackMergeTarget:                      ptr(false),
				TracksReleaseBranches:                 ptr(false),
				IsReleaseBranch:                       ptr(false),
				PreReleaseWeight:                      ptr(55000),
			},
		},
	}
	cfg.nameBranches()
	return cfg
}

// LoadConfig reads a YAML configuration document and layers it over the
// built-in defaults. User values win field-by-field.
func LoadConfig(r io.Reader) (*Config, error) {
	var user Config
	if err := yaml.NewDecoder(r).Decode(&user); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg := DefaultConfig()
	userBranches := user.Branches
	user.Branches = nil
	if err := mergo.Merge(cfg, &user, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging configuration: %w", err)
	}

	// Branch entries layer field-by-field over the built-in entry of the
	// same name; unknown entries are added as-is.
	for name, branch := range userBranches {
		if branch == nil {
			continue
		}
		merged := *branch
		if base, ok := cfg.Branches[name]; ok && base != nil {
			if err := mergo.Merge(&merged, base); err != nil {
				return nil, fmt.Errorf("merging branch configuration %q: %w", name, err)
			}
		}
		cfg.Branches[name] = &merged
	}

	cfg.nameBranches()
	return cfg, nil
}

// LoadConfigFile reads the configuration document at path; a missing file
// yields the built-in defaults.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening configuration %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("loading configuration %q: %w", path, err)
	}
	return cfg, nil
}

// nameBranches stamps each branch override with its map key so the record
// stays identifiable once detached from the map.
func (c *Config) nameBranches() {
	for name, branch := range c.Branches {
		if branch != nil {
			branch.Name = name
		}
	}
}

// pattern returns the regular expression used to match branch names for
// this override record.
func (b *BranchConfig) pattern() string {
	if b.Regex != nil && *b.Regex != "" {
		return *b.Regex
	}
	return b.Name
}

func ptr[T any](v T) *T {
	return &v
}
