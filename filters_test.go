package gitver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewVersionFilters(t *testing.T) {
	t.Run("Empty ignore config yields no filters", func(t *testing.T) {
		require.Empty(t, NewVersionFilters(IgnoreConfig{}))
	})

	t.Run("SHA filter matches case-insensitively", func(t *testing.T) {
		filters := NewVersionFilters(IgnoreConfig{
			SHAs: []string{"ABCDEF0123456789ABCDEF0123456789ABCDEF01"},
		})
		require.Len(t, filters, 1)

		excluded, reason := filters[0].Exclude(&Commit{Hash: "abcdef0123456789abcdef0123456789abcdef01"})
		require.True(t, excluded)
		require.Contains(t, reason, "abcdef01")

		excluded, _ = filters[0].Exclude(&Commit{Hash: "1111111111111111111111111111111111111111"})
		require.False(t, excluded)
	})

	t.Run("Commits-before filter excludes old commits", func(t *testing.T) {
		cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		filters := NewVersionFilters(IgnoreConfig{Before: &cutoff})
		require.Len(t, filters, 1)

		old := &Commit{Hash: "aaaa", When: cutoff.Add(-time.Hour)}
		excluded, _ := filters[0].Exclude(old)
		require.True(t, excluded)

		recent := &Commit{Hash: "bbbb", When: cutoff.Add(time.Hour)}
		excluded, _ = filters[0].Exclude(recent)
		require.False(t, excluded)
	})

	t.Run("Both rules produce both filters", func(t *testing.T) {
		cutoff := time.Now()
		filters := NewVersionFilters(IgnoreConfig{
			SHAs:   []string{"aaaa"},
			Before: &cutoff,
		})
		require.Len(t, filters, 2)
	})
}
