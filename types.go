// Package gitver resolves a deterministic versioning context for a Git
// repository snapshot: the current branch and commit, any semantic version
// already tagged on that commit, and a fully merged effective configuration
// assembled from global settings and branch-specific overrides.
package gitver

import (
	"fmt"
	"time"
)

// DetachedBranchName is the friendly name reported for the pseudo-branch
// that represents a detached HEAD.
const DetachedBranchName = "(no branch)"

// Commit is an immutable snapshot of a single commit.
type Commit struct {
	// Hash is the full object hash, lower-case hex.
	Hash string

	// Message is the full commit message.
	Message string

	// When is the committer timestamp.
	When time.Time
}

func (c *Commit) String() string {
	if c == nil {
		return ""
	}
	return c.Hash
}

// ShortHash returns the abbreviated commit hash.
func (c *Commit) ShortHash() string {
	if len(c.Hash) < 8 {
		return c.Hash
	}
	return c.Hash[:8]
}

// Branch is an immutable snapshot of a branch reference, taken once per
// resolution.
type Branch struct {
	// CanonicalName is the full reference name, e.g. "refs/heads/main".
	CanonicalName string

	// FriendlyName is the short name, e.g. "main" or "origin/main".
	FriendlyName string

	// NameWithoutRemote is the friendly name with any remote segment
	// stripped, e.g. "main" for "origin/main".
	NameWithoutRemote string

	// Tip is the commit the branch currently points at.
	Tip *Commit

	// IsDetached marks the pseudo-branch synthesized for a detached HEAD.
	IsDetached bool

	// IsRemote marks a remote-tracking reference.
	IsRemote bool

	// IsTracking is true when the branch has an upstream configured, or is
	// itself a remote-tracking reference.
	IsTracking bool
}

func (b *Branch) String() string {
	if b == nil {
		return ""
	}
	return b.FriendlyName
}

// Tag is a tag reference with its peeled target: the commit the tag
// ultimately refers to after resolving annotated-tag indirection.
type Tag struct {
	// FriendlyName is the short tag name, e.g. "v1.2.3".
	FriendlyName string

	// Target is the peeled target commit.
	Target *Commit
}

// Repository is read-only access to the commit, branch, and tag graph of a
// repository. Implementations may perform I/O internally; the resolution
// core treats every call as atomic.
type Repository interface {
	// Head returns the branch the current HEAD reference points at, or the
	// detached pseudo-branch when HEAD points directly at a commit.
	Head() (*Branch, error)

	// Branches lists all local and remote-tracking branches.
	Branches() ([]*Branch, error)

	// Commits lists all commits reachable from any branch tip, most recent
	// first.
	Commits() ([]*Commit, error)

	// Tags lists all tags with their peeled targets.
	Tags() ([]*Tag, error)

	// BranchesContaining returns every branch whose ancestry includes the
	// given commit.
	BranchesContaining(commit *Commit) ([]*Branch, error)
}

// EventLevel classifies a diagnostic event.
type EventLevel string

// Diagnostic event levels.
const (
	InfoEvent EventLevel = "info"
	WarnEvent EventLevel = "warning"
)

// Event is a single structured diagnostic emitted during resolution.
// Resolution never logs through a process-wide logger; recoverable lookup
// misses surface here instead.
type Event struct {
	Level   EventLevel
	Message string
}

func (e Event) String() string {
	return string(e.Level) + ": " + e.Message
}

// DiagnosticSink receives diagnostic events during resolution.
type DiagnosticSink interface {
	Record(event Event)
}

// Recorder is a DiagnosticSink that collects events in order.
type Recorder struct {
	events []Event
}

// Record appends an event.
func (r *Recorder) Record(event Event) {
	r.events = append(r.events, event)
}

// Events returns the recorded events in emission order.
func (r *Recorder) Events() []Event {
	return r.events
}

func warnf(sink DiagnosticSink, format string, args ...interface{}) {
	if sink != nil {
		sink.Record(Event{Level: WarnEvent, Message: fmt.Sprintf(format, args...)})
	}
}

func infof(sink DiagnosticSink, format string, args ...interface{}) {
	if sink != nil {
		sink.Record(Event{Level: InfoEvent, Message: fmt.Sprintf(format, args...)})
	}
}
