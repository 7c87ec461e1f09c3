package gitver

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testCommit writes a file and commits it, returning the commit hash
func testCommit(repo *git.Repository, filename, content, message string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	err = writeFile(workTree.Filesystem, filename, content)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = workTree.Add(filename)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit(message, &git.CommitOptions{Author: testSignature})
}

// testCheckoutBranch switches to the named branch, creating it at the
// current HEAD when create is true
func testCheckoutBranch(repo *git.Repository, name string, create bool) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}

	return workTree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: create,
	})
}

// testDetachHead checks out the given commit directly, leaving HEAD
// detached
func testDetachHead(repo *git.Repository, hash plumbing.Hash) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}

	return workTree.Checkout(&git.CheckoutOptions{Hash: hash})
}

// testLightweightTag creates a lightweight tag pointing at hash
func testLightweightTag(repo *git.Repository, name string, hash plumbing.Hash) error {
	_, err := repo.CreateTag(name, hash, nil)
	return err
}

// testAnnotatedTag creates an annotated tag pointing at hash
func testAnnotatedTag(repo *git.Repository, name string, hash plumbing.Hash) error {
	_, err := repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  testSignature,
		Message: "tag " + name,
	})
	return err
}

// testRemoteBranch creates a remote-tracking reference such as
// refs/remotes/origin/main pointing at hash
func testRemoteBranch(repo *git.Repository, remote, name string, hash plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, name), hash)
	return repo.Storer.SetReference(ref)
}

// testTrackBranch records an upstream for a local branch in the repository
// configuration, making it a tracked branch
func testTrackBranch(repo *git.Repository, name, remote string) error {
	cfg, err := repo.Config()
	if err != nil {
		return err
	}

	if cfg.Branches == nil {
		cfg.Branches = map[string]*gitconfig.Branch{}
	}
	cfg.Branches[name] = &gitconfig.Branch{
		Name:   name,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(name),
	}

	return repo.SetConfig(cfg)
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
