package gitver

import (
	"fmt"
	"regexp"
	"strings"

	"dario.cat/mergo"
)

// ResolveBranchConfig selects the single branch override record that
// applies to branch and completes it with defaults, so that the fields the
// merger requires from the branch side are always set.
//
// Matching is by the override's regular expression against the branch name
// without its remote prefix. Zero matches fall back to an empty override.
// Multiple matches prefer a single entry whose name equals the branch name
// exactly; any other ambiguity is a configuration error.
func ResolveBranchConfig(cfg *Config, branch *Branch) (*BranchConfig, error) {
	matched, err := matchBranchConfig(cfg, branch)
	if err != nil {
		return nil, err
	}

	completed := *matched
	if err := mergo.Merge(&completed, cfg.branchDefaults()); err != nil {
		return nil, fmt.Errorf("applying branch defaults: %w", err)
	}
	completed.Name = matched.Name

	return &completed, nil
}

func matchBranchConfig(cfg *Config, branch *Branch) (*BranchConfig, error) {
	name := branch.NameWithoutRemote
	if name == "" {
		name = branch.FriendlyName
	}

	var matches []*BranchConfig
	for _, bc := range cfg.Branches {
		if bc == nil {
			continue
		}
		re, err := regexp.Compile(bc.pattern())
		if err != nil {
			return nil, fmt.Errorf("invalid branch pattern %q for %q: %w", bc.pattern(), bc.Name, err)
		}
		if re.MatchString(name) {
			matches = append(matches, bc)
		}
	}

	switch len(matches) {
	case 0:
		return &BranchConfig{Name: "fallback"}, nil
	case 1:
		return matches[0], nil
	}

	// Several patterns apply; an entry named exactly after the branch wins.
	var exact *BranchConfig
	for _, m := range matches {
		if m.Name == name {
			if exact != nil {
				exact = nil
				break
			}
			exact = m
		}
	}
	if exact != nil {
		return exact, nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return nil, fmt.Errorf("%w for branch %q: %s", ErrAmbiguousBranchConfig, name, strings.Join(names, ", "))
}

// branchDefaults is the record merged underneath a matched override: the
// global mode/increment seeds plus neutral classification flags.
func (c *Config) branchDefaults() *BranchConfig {
	return &BranchConfig{
		VersioningMode:                        c.VersioningMode,
		Tag:                                   ptr(""),
		Increment:                             c.Increment,
		PreventIncrementOfMergedBranchVersion: ptr(false),
		TrackMergeTarget:                      ptr(false),
		TracksReleaseBranches:                 ptr(false),
		IsReleaseBranch:                       ptr(false),
	}
}
