package gitver

import (
	"fmt"
	"strings"
)

// ResolveTarget determines the branch and commit a resolution operates on.
//
// An explicit commitID, when it matches a known commit (case-insensitive),
// selects that commit regardless of branch; a miss is a warning and the
// branch tip is used instead. The branch is the head branch unless
// targetBranch names a different one; a detached head is re-resolved to
// the single branch containing the selected commit, when exactly one does.
func ResolveTarget(repo Repository, targetBranch, commitID string, onlyTrackedBranches bool, sink DiagnosticSink) (*Branch, *Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving head: %w", err)
	}

	branch := head
	if targetBranch != "" && targetBranch != head.CanonicalName && targetBranch != head.FriendlyName {
		found, err := findBranch(repo, targetBranch)
		if err != nil {
			return nil, nil, err
		}
		if found != nil {
			branch = found
		} else {
			warnf(sink, "branch %q not found, falling back to %q", targetBranch, head.FriendlyName)
		}
	}

	if branch == nil {
		return nil, nil, ErrNoCurrentBranch
	}

	commit, err := findCommit(repo, commitID, sink)
	if err != nil {
		return nil, nil, err
	}
	if commit == nil {
		commit = branch.Tip
	}

	if branch.IsDetached {
		resolved, err := resolveDetached(repo, commit, onlyTrackedBranches, sink)
		if err != nil {
			return nil, nil, err
		}
		if resolved != nil {
			branch = resolved
		}
	}

	return branch, commit, nil
}

// findBranch matches name against the known branches, trying canonical
// names first, then friendly names, then names without their remote
// prefix. A unique match within a tier wins; several matches within the
// same tier are ambiguous and fatal.
func findBranch(repo Repository, name string) (*Branch, error) {
	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	accessors := []func(*Branch) string{
		func(b *Branch) string { return b.CanonicalName },
		func(b *Branch) string { return b.FriendlyName },
		func(b *Branch) string { return b.NameWithoutRemote },
	}

	for _, accessor := range accessors {
		var matches []*Branch
		for _, b := range branches {
			if accessor(b) == name {
				matches = append(matches, b)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, ambiguousBranchError(name, matches)
		}
	}

	return nil, nil
}

// findCommit searches all commits for one whose hash matches commitID
// case-insensitively. A miss is recoverable: it is reported on the sink
// and nil is returned.
func findCommit(repo Repository, commitID string, sink DiagnosticSink) (*Commit, error) {
	if commitID == "" {
		return nil, nil
	}

	commits, err := repo.Commits()
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	for _, c := range commits {
		if strings.EqualFold(c.Hash, commitID) {
			return c, nil
		}
	}

	warnf(sink, "commit %q not found, using the branch tip instead", commitID)
	return nil, nil
}

// resolveDetached finds the single real branch whose ancestry contains the
// selected commit. Zero or multiple candidates keep the detached
// pseudo-branch: ambiguous containment is a deliberate "don't guess"
// fallback, not an error.
func resolveDetached(repo Repository, commit *Commit, onlyTrackedBranches bool, sink DiagnosticSink) (*Branch, error) {
	containing, err := repo.BranchesContaining(commit)
	if err != nil {
		return nil, fmt.Errorf("finding branches containing %s: %w", commit.ShortHash(), err)
	}

	var candidates []*Branch
	for _, b := range containing {
		if b.IsDetached {
			continue
		}
		if onlyTrackedBranches && !b.IsTracking {
			continue
		}
		candidates = append(candidates, b)
	}

	if len(candidates) != 1 {
		return nil, nil
	}

	infof(sink, "detached HEAD resolved to branch %q via commit %s", candidates[0].FriendlyName, commit.ShortHash())
	return candidates[0], nil
}
