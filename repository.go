package gitver

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// OpenRepository opens the Git repository at path and wraps it as a
// Repository.
func OpenRepository(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return NewRepository(repo), nil
}

// NewRepository wraps an already-open go-git repository as a Repository.
func NewRepository(repo *git.Repository) Repository {
	return &gitRepository{repo: repo}
}

type gitRepository struct {
	repo *git.Repository
}

func (g *gitRepository) Head() (*Branch, error) {
	ref, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}

	commit, err := g.commitAt(ref.Hash())
	if err != nil {
		return nil, err
	}

	if ref.Name() == plumbing.HEAD {
		// Detached: HEAD points at a commit, not a branch.
		return &Branch{
			CanonicalName:     plumbing.HEAD.String(),
			FriendlyName:      DetachedBranchName,
			NameWithoutRemote: DetachedBranchName,
			Tip:               commit,
			IsDetached:        true,
		}, nil
	}

	return g.branchFromRef(ref, commit)
}

func (g *gitRepository) Branches() ([]*Branch, error) {
	refs, err := g.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var branches []*Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() && !ref.Name().IsRemote() {
			return nil
		}
		// Skip symbolic refs such as refs/remotes/origin/HEAD.
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		commit, err := g.commitAt(ref.Hash())
		if err != nil {
			return err
		}

		branch, err := g.branchFromRef(ref, commit)
		if err != nil {
			return err
		}

		branches = append(branches, branch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return branches, nil
}

func (g *gitRepository) Commits() ([]*Commit, error) {
	iter, err := g.repo.Log(&git.LogOptions{
		All:   true,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits: %w", err)
	}

	var commits []*Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, convertCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

func (g *gitRepository) Tags() ([]*Tag, error) {
	refs, err := g.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []*Tag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		target, err := g.peelTag(ref)
		if err != nil {
			return err
		}

		tags = append(tags, &Tag{
			FriendlyName: ref.Name().Short(),
			Target:       target,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// peelTag resolves the commit a tag ultimately refers to, following
// annotated-tag indirection.
func (g *gitRepository) peelTag(ref *plumbing.Reference) (*Commit, error) {
	obj, err := g.repo.TagObject(ref.Hash())
	switch err {
	case nil:
		// Annotated tag
		return g.commitAt(obj.Target)
	case plumbing.ErrObjectNotFound:
		// Lightweight tag
		return g.commitAt(ref.Hash())
	default:
		return nil, fmt.Errorf("peeling tag %s: %w", ref.Name().Short(), err)
	}
}

func (g *gitRepository) BranchesContaining(commit *Commit) ([]*Branch, error) {
	branches, err := g.Branches()
	if err != nil {
		return nil, err
	}

	var containing []*Branch
	for _, branch := range branches {
		contains, err := g.ancestryContains(branch.Tip, commit.Hash)
		if err != nil {
			return nil, err
		}
		if contains {
			containing = append(containing, branch)
		}
	}

	return containing, nil
}

// ancestryContains walks from tip through parent links looking for hash.
func (g *gitRepository) ancestryContains(tip *Commit, hash string) (bool, error) {
	tipCommit, err := g.repo.CommitObject(plumbing.NewHash(tip.Hash))
	if err != nil {
		return false, fmt.Errorf("getting commit object: %w", err)
	}

	found := false
	walker := object.NewCommitPreorderIter(tipCommit, nil, nil)
	err = walker.ForEach(func(c *object.Commit) error {
		if c.Hash.String() == hash {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

func (g *gitRepository) branchFromRef(ref *plumbing.Reference, tip *Commit) (*Branch, error) {
	friendly := ref.Name().Short()
	isRemote := ref.Name().IsRemote()

	withoutRemote := friendly
	if isRemote {
		if _, rest, ok := strings.Cut(friendly, "/"); ok {
			withoutRemote = rest
		}
	}

	tracking := isRemote
	if !tracking {
		cfg, err := g.repo.Config()
		if err != nil {
			return nil, fmt.Errorf("reading repository config: %w", err)
		}
		if bc, ok := cfg.Branches[friendly]; ok && bc.Remote != "" {
			tracking = true
		}
	}

	return &Branch{
		CanonicalName:     ref.Name().String(),
		FriendlyName:      friendly,
		NameWithoutRemote: withoutRemote,
		Tip:               tip,
		IsRemote:          isRemote,
		IsTracking:        tracking,
	}, nil
}

func (g *gitRepository) commitAt(hash plumbing.Hash) (*Commit, error) {
	commit, err := g.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit object: %w", err)
	}
	return convertCommit(commit), nil
}

func convertCommit(c *object.Commit) *Commit {
	return &Commit{
		Hash:    c.Hash.String(),
		Message: c.Message,
		When:    c.Committer.When,
	}
}
