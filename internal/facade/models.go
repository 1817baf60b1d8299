package facade

import "strings"

// State reports whether a repository collaborator is bound to the facade.
type State string

const (
	StateOK          State = "ok"
	StateVcsNotFound State = "vcs_not_found"
)

// Ref is a repository reference as reported by the collaborator. The facade
// never mutates a Ref, it only selects and enriches.
type Ref struct {
	Name     string `json:"name"`               // full reference name, e.g. refs/heads/main
	Hash     string `json:"hash"`               // target commit
	Upstream string `json:"upstream,omitempty"` // tracking reference, e.g. origin/main
}

// IsBranch reports whether the reference names a local branch.
func (r Ref) IsBranch() bool {
	return strings.HasPrefix(r.Name, "refs/heads/")
}

// Short returns the reference name without its refs/<kind>/ prefix.
func (r Ref) Short() string {
	for _, prefix := range []string{"refs/heads/", "refs/remotes/", "refs/tags/"} {
		if strings.HasPrefix(r.Name, prefix) {
			return strings.TrimPrefix(r.Name, prefix)
		}
	}
	return r.Name
}

// StatusEntry is one working-tree status line. Index and Worktree carry the
// single-letter porcelain codes ("M", "A", "D", "R", "?", ...); an empty
// string means unmodified on that side.
type StatusEntry struct {
	Path     string `json:"path"`
	Index    string `json:"index,omitempty"`
	Worktree string `json:"worktree,omitempty"`
	From     string `json:"from,omitempty"` // rename origin
}

// Remote is a configured remote repository.
type Remote struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

// CommitInfo carries commit-message metadata. Both fields may be empty; their
// lookups are individually failure-tolerant.
type CommitInfo struct {
	Template          string `json:"template"`
	PrevCommitMessage string `json:"prev_commit_message"`
}

// Snapshot is the aggregate repository state. It is only ever constructed by
// the status aggregation and is immutable once returned; callers request a
// new one to observe changes.
type Snapshot struct {
	Root       string        `json:"root"`
	Status     []StatusEntry `json:"status"`
	Head       *Ref          `json:"head"`
	Refs       []Ref         `json:"refs"`
	Remotes    []Remote      `json:"remotes"`
	CommitInfo *CommitInfo   `json:"commit_info,omitempty"`
}
