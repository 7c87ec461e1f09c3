package gitver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryParseVersion(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected string
		ok       bool
	}{
		{"v1.2.3", DefaultTagPrefix, "1.2.3", true},
		{"V1.2.3", DefaultTagPrefix, "1.2.3", true},
		{"1.2.3", DefaultTagPrefix, "1.2.3", true},
		{"v1.3.0-beta", DefaultTagPrefix, "1.3.0-beta", true},
		{"v1.2.3+build.5", DefaultTagPrefix, "1.2.3+build.5", true},
		{"not-a-version", DefaultTagPrefix, "", false},
		{"v1.2", DefaultTagPrefix, "", false},
		{"release-2.0.0", "release-", "2.0.0", true},
		{"v2.0.0", "release-", "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			version, ok := TryParseVersion(test.name, test.prefix)
			require.Equal(t, test.ok, ok)
			if test.ok {
				require.Equal(t, test.expected, version.String())
			}
		})
	}
}

func TestDetectTaggedVersion(t *testing.T) {
	t.Run("Maximum among parseable tags", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)

		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)

		require.NoError(t, testLightweightTag(repo, "v1.2.0", hash))
		require.NoError(t, testLightweightTag(repo, "v1.3.0-beta", hash))
		require.NoError(t, testLightweightTag(repo, "not-a-version", hash))

		provider := NewRepository(repo)
		version, tagged, err := DetectTaggedVersion(provider, &Commit{Hash: hash.String()}, DefaultTagPrefix)
		require.NoError(t, err)
		require.True(t, tagged)
		// 1.3.0-beta wins over 1.2.0: minor compares before pre-release.
		require.Equal(t, "1.3.0-beta", version.String())
	})

	t.Run("Release beats pre-release at equal numbers", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)

		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)

		require.NoError(t, testLightweightTag(repo, "v1.2.0", hash))
		require.NoError(t, testLightweightTag(repo, "v1.2.0-rc.1", hash))

		provider := NewRepository(repo)
		version, tagged, err := DetectTaggedVersion(provider, &Commit{Hash: hash.String()}, DefaultTagPrefix)
		require.NoError(t, err)
		require.True(t, tagged)
		require.Equal(t, "1.2.0", version.String())
	})

	t.Run("Annotated tags are peeled to their target", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)

		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)

		require.NoError(t, testAnnotatedTag(repo, "v2.0.0", hash))

		provider := NewRepository(repo)
		version, tagged, err := DetectTaggedVersion(provider, &Commit{Hash: hash.String()}, DefaultTagPrefix)
		require.NoError(t, err)
		require.True(t, tagged)
		require.Equal(t, "2.0.0", version.String())
	})

	t.Run("Tags on other commits are ignored", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)

		first, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)
		require.NoError(t, testLightweightTag(repo, "v1.0.0", first))

		second, err := testCommit(repo, "b.txt", "b", "second")
		require.NoError(t, err)

		provider := NewRepository(repo)
		_, tagged, err := DetectTaggedVersion(provider, &Commit{Hash: second.String()}, DefaultTagPrefix)
		require.NoError(t, err)
		require.False(t, tagged)
	})

	t.Run("No tags at all", func(t *testing.T) {
		repo, err := testRepoCreate()
		require.NoError(t, err)

		hash, err := testCommit(repo, "a.txt", "a", "initial")
		require.NoError(t, err)

		provider := NewRepository(repo)
		_, tagged, err := DetectTaggedVersion(provider, &Commit{Hash: hash.String()}, DefaultTagPrefix)
		require.NoError(t, err)
		require.False(t, tagged)
	})
}
