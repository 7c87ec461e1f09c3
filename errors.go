package gitver

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution errors. These are fatal: context construction aborts and no
// partially-built context is returned.
var (
	// ErrNoCurrentBranch indicates no current branch could be determined.
	ErrNoCurrentBranch = errors.New("could not determine the current branch")

	// ErrAmbiguousBranch indicates a requested branch name matched more
	// than one branch.
	ErrAmbiguousBranch = errors.New("branch name matches multiple branches")

	// ErrAmbiguousBranchConfig indicates more than one branch override
	// pattern matched the current branch.
	ErrAmbiguousBranchConfig = errors.New("multiple branch configurations match")
)

// ConfigurationError reports a required configuration field that remained
// unset after merging, and the branch it was being resolved for.
type ConfigurationError struct {
	// Field is the human name of the missing setting.
	Field string

	// Branch is the friendly name of the branch being configured.
	Branch string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration value %q must be set (resolving branch %q)", e.Field, e.Branch)
}

func ambiguousBranchError(name string, candidates []*Branch) error {
	names := make([]string, 0, len(candidates))
	for _, b := range candidates {
		names = append(names, b.FriendlyName)
	}
	return fmt.Errorf("%w: %q matches %s", ErrAmbiguousBranch, name, strings.Join(names, ", "))
}
