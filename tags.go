package gitver

import (
	"regexp"

	"github.com/blang/semver"
)

// TryParseVersion parses a tag name as a semantic version under the given
// tag prefix, a regular expression fragment anchored at the start of the
// name (e.g. "[vV]"). It returns false for names that are not versions —
// an expected case, since most tags are unrelated.
func TryParseVersion(name, tagPrefix string) (semver.Version, bool) {
	re, err := regexp.Compile("^(?:" + tagPrefix + ")")
	if err != nil {
		return semver.Version{}, false
	}

	trimmed := re.ReplaceAllString(name, "")
	version, err := semver.Parse(trimmed)
	if err != nil {
		return semver.Version{}, false
	}
	return version, true
}

// DetectTaggedVersion scans the tags whose peeled target is the given
// commit and returns the maximum semantic version among those that parse
// under tagPrefix. The boolean is false when no tag on the commit parses.
func DetectTaggedVersion(repo Repository, commit *Commit, tagPrefix string) (semver.Version, bool, error) {
	tags, err := repo.Tags()
	if err != nil {
		return semver.Version{}, false, err
	}

	var best semver.Version
	found := false
	for _, tag := range tags {
		if tag.Target == nil || tag.Target.Hash != commit.Hash {
			continue
		}
		version, ok := TryParseVersion(tag.FriendlyName, tagPrefix)
		if !ok {
			continue
		}
		if !found || version.GT(best) {
			best = version
			found = true
		}
	}

	return best, found, nil
}
