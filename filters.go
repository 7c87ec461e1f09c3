package gitver

import (
	"fmt"
	"strings"
	"time"
)

// VersionFilter excludes commits from version calculation. Exclude reports
// whether the commit is filtered out and, if so, why.
type VersionFilter interface {
	Exclude(commit *Commit) (bool, string)
}

// NewVersionFilters normalizes the raw ignore rules into filter form.
func NewVersionFilters(ignore IgnoreConfig) []VersionFilter {
	var filters []VersionFilter
	if len(ignore.SHAs) > 0 {
		filters = append(filters, shaFilter(ignore.SHAs))
	}
	if ignore.Before != nil {
		filters = append(filters, &minDateFilter{before: *ignore.Before})
	}
	return filters
}

type shaFilter []string

func (f shaFilter) Exclude(commit *Commit) (bool, string) {
	if commit == nil {
		return false, ""
	}
	for _, sha := range f {
		if strings.EqualFold(sha, commit.Hash) {
			return true, fmt.Sprintf("commit %s is ignored by configuration", commit.ShortHash())
		}
	}
	return false, ""
}

type minDateFilter struct {
	before time.Time
}

func (f *minDateFilter) Exclude(commit *Commit) (bool, string) {
	if commit == nil {
		return false, ""
	}
	if !commit.When.After(f.before) {
		return true, fmt.Sprintf("commit %s predates the commits-before cutoff", commit.ShortHash())
	}
	return false, ""
}
