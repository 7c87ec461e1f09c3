package gitver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitRepositoryHead(t *testing.T) {
	t.Run("On a branch", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)
		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)

		head, err := NewRepository(repo).Head()
		require.NoError(t, err)
		require.Equal(t, "refs/heads/master", head.CanonicalName)
		require.Equal(t, "master", head.FriendlyName)
		require.False(t, head.IsDetached)
		require.Equal(t, hash.String(), head.Tip.Hash)
	})

	t.Run("Detached", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)
		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)
		require.NoError(t, testDetachHead(repo, hash))

		head, err := NewRepository(repo).Head()
		require.NoError(t, err)
		require.True(t, head.IsDetached)
		require.Equal(t, DetachedBranchName, head.FriendlyName)
		require.Equal(t, hash.String(), head.Tip.Hash)
	})
}

func TestGitRepositoryBranches(t *testing.T) {
	repo, err := testRepoCreate()
	require.NoError(t, err)
	first, err := testCommit(repo, "a.txt", "a", "initial")
	require.NoError(t, err)
	require.NoError(t, testCheckoutBranch(repo, "feature/cache", true))
	_, err = testCommit(repo, "b.txt", "b", "feature work")
	require.NoError(t, err)
	require.NoError(t, testRemoteBranch(repo, "origin", "master", first))
	require.NoError(t, testTrackBranch(repo, "master", "origin"))

	branches, err := NewRepository(repo).Branches()
	require.NoError(t, err)

	byName := map[string]*Branch{}
	for _, b := range branches {
		byName[b.FriendlyName] = b
	}

	require.Contains(t, byName, "master")
	require.Contains(t, byName, "feature/cache")
	require.Contains(t, byName, "origin/master")

	require.True(t, byName["master"].IsTracking)
	require.False(t, byName["feature/cache"].IsTracking)

	remote := byName["origin/master"]
	require.True(t, remote.IsRemote)
	require.True(t, remote.IsTracking)
	require.Equal(t, "master", remote.NameWithoutRemote)
}

func TestGitRepositoryCommits(t *testing.T) {
	repo, err := testRepoCreate()
	require.NoError(t, err)
	first, err := testCommit(repo, "a.txt", "a", "initial")
	require.NoError(t, err)
	second, err := testCommit(repo, "b.txt", "b", "second")
	require.NoError(t, err)

	commits, err := NewRepository(repo).Commits()
	require.NoError(t, err)
	require.Len(t, commits, 2)

	hashes := map[string]bool{}
	for _, c := range commits {
		hashes[c.Hash] = true
	}
	require.True(t, hashes[first.String()])
	require.True(t, hashes[second.String()])
}

func TestGitRepositoryTags(t *testing.T) {
	repo, err := testRepoCreate()
	require.NoError(t, err)
	hash, err := testCommit(repo, "a.txt", "a", "initial")
	require.NoError(t, err)

	require.NoError(t, testLightweightTag(repo, "v1.0.0", hash))
	require.NoError(t, testAnnotatedTag(repo, "v1.1.0", hash))

	tags, err := NewRepository(repo).Tags()
	require.NoError(t, err)
	require.Len(t, tags, 2)

	for _, tag := range tags {
		// Both the lightweight and the annotated tag peel to the commit.
		require.Equal(t, hash.String(), tag.Target.Hash, "tag %s", tag.FriendlyName)
	}
}

func TestGitRepositoryBranchesContaining(t *testing.T) {
	repo, err := testRepoCreate()
	require.NoError(t, err)
	first, err := testCommit(repo, "a.txt", "a", "initial")
	require.NoError(t, err)
	require.NoError(t, testCheckoutBranch(repo, "develop", true))
	second, err := testCommit(repo, "b.txt", "b", "develop work")
	require.NoError(t, err)

	provider := NewRepository(repo)

	t.Run("Shared ancestor is in both branches", func(t *testing.T) {
		containing, err := provider.BranchesContaining(&Commit{Hash: first.String()})
		require.NoError(t, err)

		names := map[string]bool{}
		for _, b := range containing {
			names[b.FriendlyName] = true
		}
		require.True(t, names["master"])
		require.True(t, names["develop"])
	})

	t.Run("Branch-only commit is in one branch", func(t *testing.T) {
		containing, err := provider.BranchesContaining(&Commit{Hash: second.String()})
		require.NoError(t, err)
		require.Len(t, containing, 1)
		require.Equal(t, "develop", containing[0].FriendlyName)
	})
}
