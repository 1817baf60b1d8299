package facade

import (
	"context"
	"io"
	"time"
)

// Repository is the collaborator that actually executes version-control
// operations. Implementations translate their own failures into this
// package's sentinel errors before returning; the facade never inspects
// collaborator-specific error shapes.
type Repository interface {
	// WorkingDir returns the path the collaborator is bound to, as
	// configured (not canonicalized).
	WorkingDir() string

	Version(ctx context.Context) (string, error)

	Status(ctx context.Context) ([]StatusEntry, error)
	Head(ctx context.Context) (*Ref, error)
	// Branch returns the named local branch enriched with tracking
	// metadata.
	Branch(ctx context.Context, name string) (*Ref, error)
	Refs(ctx context.Context) ([]Ref, error)
	Remotes(ctx context.Context) ([]Remote, error)

	Init(ctx context.Context) error
	Add(ctx context.Context, paths []string) error
	StageContent(ctx context.Context, path string, content []byte) error
	CreateBranch(ctx context.Context, name string, checkout bool) error
	Checkout(ctx context.Context, treeish string, paths []string) error
	Clean(ctx context.Context, paths []string) error
	Undo(ctx context.Context) error
	Reset(ctx context.Context, treeish string, hard bool) error
	RevertFiles(ctx context.Context, treeish string, paths []string) error
	Fetch(ctx context.Context) error
	Pull(ctx context.Context, rebase bool) error
	Push(ctx context.Context, remote, branch string, force bool) error
	Commit(ctx context.Context, message string, amend bool) error

	CommitTemplatePath(ctx context.Context) (string, error)
	LastCommitMessage(ctx context.Context) (string, error)

	// Show returns the full content of path at treeish; an empty treeish
	// selects the working tree. The content is buffered in memory.
	Show(ctx context.Context, path, treeish string) ([]byte, error)
	// OpenAtRevision opens a content stream for path at treeish.
	OpenAtRevision(ctx context.Context, path, treeish string) (io.ReadCloser, error)
}

// OutputSource is the collaborator's raw output stream. The returned cancel
// detaches the subscription; chunks produced while nothing is attached are
// dropped by the source.
type OutputSource interface {
	SubscribeOutput(fn func(chunk string)) (cancel func())
}

// ContentSniffer classifies byte content. The facade only decides which byte
// source to feed it.
type ContentSniffer interface {
	SniffFile(path string) ([]string, error)
	SniffStream(r io.Reader) ([]string, error)
}

// CommandRecord describes one dispatched mutating operation.
type CommandRecord struct {
	Op         string
	Args       []string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Recorder receives a record after every mutating operation. Implementations
// must not block the dispatch path on failure; recording errors are theirs
// to log.
type Recorder interface {
	Record(ctx context.Context, rec CommandRecord)
}
