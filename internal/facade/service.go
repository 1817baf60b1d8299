package facade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is a stateful facade over a repository collaborator. Every
// mutating operation shares one post-condition: on success the repository
// state is re-aggregated and returned as a fresh snapshot.
type Service struct {
	repo     Repository
	sniffer  ContentSniffer
	recorder Recorder

	root  *rootResolver
	relay *relay

	logger *zap.Logger
}

// NewService creates the facade. A nil repo is a valid degenerate binding:
// the service reports StateVcsNotFound and refuses operations.
func NewService(repo Repository, sniffer ContentSniffer, recorder Recorder, logger *zap.Logger) *Service {
	s := &Service{
		repo:     repo,
		sniffer:  sniffer,
		recorder: recorder,
		logger:   logger,
	}

	var source OutputSource
	if repo != nil {
		s.root = newRootResolver(repo.WorkingDir())
		if src, ok := repo.(OutputSource); ok {
			source = src
		}
	}
	s.relay = newRelay(source)

	return s
}

// State reports whether a repository collaborator is bound.
func (s *Service) State() State {
	if s.repo == nil {
		return StateVcsNotFound
	}
	return StateOK
}

// Version reports the collaborator's version string.
func (s *Service) Version(ctx context.Context) (string, error) {
	if s.repo == nil {
		return "", ErrNoRepository
	}
	return s.repo.Version(ctx)
}

// SubscribeOutput registers fn on the live output relay and returns a cancel
// function. There is no replay; chunks produced before subscribing are gone.
func (s *Service) SubscribeOutput(fn func(chunk string)) (cancel func()) {
	return s.relay.Subscribe(fn)
}

// StatusCount returns the number of working-tree status entries. With no
// bound repository it returns 0 without touching any collaborator.
func (s *Service) StatusCount(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	snapshot, err := s.Status(ctx)
	if err != nil || snapshot == nil {
		return 0, err
	}
	return len(snapshot.Status), nil
}

// Status aggregates working-tree status, HEAD, refs, remotes and the cached
// repository root into one snapshot.
//
// A nil snapshot with a nil error means the status read failed in a way
// classified as recoverable; callers cannot distinguish that from a
// repository with nothing to report.
func (s *Service) Status(ctx context.Context) (*Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	entries, statusErr := s.repo.Status(ctx)
	head := s.resolveHead(ctx)

	var (
		root    string
		refs    []Ref
		remotes []Remote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		root, err = s.root.Root(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		refs, err = s.repo.Refs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		remotes, err = s.repo.Remotes(gctx)
		return err
	})
	joinErr := g.Wait()

	// The status read decides the snapshot's fate; joined results are
	// discarded on any failure.
	if statusErr != nil {
		if c := classifyStatus(statusErr); c.Outcome == OutcomeFatal {
			return nil, c.Cause
		}
		s.logger.Debug("status read failed, returning empty snapshot", zap.Error(statusErr))
		return nil, nil
	}
	if joinErr != nil {
		if c := classifyStatus(joinErr); c.Outcome == OutcomeFatal {
			return nil, c.Cause
		}
		s.logger.Debug("status join failed, returning empty snapshot", zap.Error(joinErr))
		return nil, nil
	}

	return &Snapshot{
		Root:    root,
		Status:  entries,
		Head:    head,
		Refs:    refs,
		Remotes: remotes,
	}, nil
}

// resolveHead resolves the current reference, enriching branch heads with
// tracking metadata. Enrichment failure falls back to the bare head; head
// resolution failure yields nil rather than failing the snapshot.
func (s *Service) resolveHead(ctx context.Context) *Ref {
	head, err := s.repo.Head(ctx)
	if err != nil {
		s.logger.Debug("head resolution failed", zap.Error(err))
		return nil
	}
	if head == nil || !head.IsBranch() {
		return head
	}
	enriched, err := s.repo.Branch(ctx, head.Short())
	if err != nil || enriched == nil {
		return head
	}
	return enriched
}

// Init initializes a repository at the bound working directory.
func (s *Service) Init(ctx context.Context) (*Snapshot, error) {
	return s.dispatch(ctx, "init", nil, func(ctx context.Context) error {
		return s.repo.Init(ctx)
	})
}

// Add stages the given paths; no paths stages everything.
func (s *Service) Add(ctx context.Context, paths []string) (*Snapshot, error) {
	return s.dispatch(ctx, "add", paths, func(ctx context.Context) error {
		return s.repo.Add(ctx, paths)
	})
}

// Stage stages the given content for path, regardless of what is on disk.
func (s *Service) Stage(ctx context.Context, path string, content []byte) (*Snapshot, error) {
	return s.dispatch(ctx, "stage", []string{path}, func(ctx context.Context) error {
		return s.repo.StageContent(ctx, path, content)
	})
}

// Branch creates a branch, optionally checking it out.
func (s *Service) Branch(ctx context.Context, name string, checkout bool) (*Snapshot, error) {
	args := []string{name, "checkout=" + strconv.FormatBool(checkout)}
	return s.dispatch(ctx, "branch", args, func(ctx context.Context) error {
		return s.repo.CreateBranch(ctx, name, checkout)
	})
}

// Checkout checks out a treeish, or restores the given paths from it.
func (s *Service) Checkout(ctx context.Context, treeish string, paths []string) (*Snapshot, error) {
	return s.dispatch(ctx, "checkout", append([]string{treeish}, paths...), func(ctx context.Context) error {
		return s.repo.Checkout(ctx, treeish, paths)
	})
}

// Clean removes the given untracked paths from the working tree.
func (s *Service) Clean(ctx context.Context, paths []string) (*Snapshot, error) {
	return s.dispatch(ctx, "clean", paths, func(ctx context.Context) error {
		return s.repo.Clean(ctx, paths)
	})
}

// Undo discards the most recent commit, keeping its changes staged.
func (s *Service) Undo(ctx context.Context) (*Snapshot, error) {
	return s.dispatch(ctx, "undo", nil, func(ctx context.Context) error {
		return s.repo.Undo(ctx)
	})
}

// Reset resets the current branch to treeish.
func (s *Service) Reset(ctx context.Context, treeish string, hard bool) (*Snapshot, error) {
	args := []string{treeish, "hard=" + strconv.FormatBool(hard)}
	return s.dispatch(ctx, "reset", args, func(ctx context.Context) error {
		return s.repo.Reset(ctx, treeish, hard)
	})
}

// RevertFiles restores the given paths to their state at treeish.
func (s *Service) RevertFiles(ctx context.Context, treeish string, paths []string) (*Snapshot, error) {
	return s.dispatch(ctx, "revert", append([]string{treeish}, paths...), func(ctx context.Context) error {
		return s.repo.RevertFiles(ctx, treeish, paths)
	})
}

// Fetch fetches from the default remote. A repository with no remotes is a
// successful no-op.
func (s *Service) Fetch(ctx context.Context) (*Snapshot, error) {
	return s.dispatch(ctx, "fetch", nil, func(ctx context.Context) error {
		err := s.repo.Fetch(ctx)
		if err == nil {
			return nil
		}
		if c := classifyFetch(err); c.Outcome == OutcomeSuppressed {
			s.logger.Debug("fetch suppressed", zap.Error(err))
			return nil
		}
		return err
	})
}

// Pull pulls from the upstream of the current branch.
func (s *Service) Pull(ctx context.Context, rebase bool) (*Snapshot, error) {
	args := []string{"rebase=" + strconv.FormatBool(rebase)}
	return s.dispatch(ctx, "pull", args, func(ctx context.Context) error {
		return s.repo.Pull(ctx, rebase)
	})
}

// Push pushes the given branch to the given remote; empty values select the
// collaborator's defaults.
func (s *Service) Push(ctx context.Context, remote, branch string, force bool) (*Snapshot, error) {
	args := []string{remote, branch, "force=" + strconv.FormatBool(force)}
	return s.dispatch(ctx, "push", args, func(ctx context.Context) error {
		return s.repo.Push(ctx, remote, branch, force)
	})
}

// Sync pulls and then pushes the current branch.
func (s *Service) Sync(ctx context.Context) (*Snapshot, error) {
	return s.dispatch(ctx, "sync", nil, func(ctx context.Context) error {
		if err := s.repo.Pull(ctx, false); err != nil {
			return err
		}
		return s.repo.Push(ctx, "", "", false)
	})
}

// Commit records a commit. With stageAll set, everything is staged first.
func (s *Service) Commit(ctx context.Context, message string, amend, stageAll bool) (*Snapshot, error) {
	args := []string{"amend=" + strconv.FormatBool(amend), "stage=" + strconv.FormatBool(stageAll)}
	return s.dispatch(ctx, "commit", args, func(ctx context.Context) error {
		if stageAll {
			if err := s.repo.Add(ctx, nil); err != nil {
				return err
			}
		}
		return s.repo.Commit(ctx, message, amend)
	})
}

// dispatch wraps a mutating operation with the shared post-condition: record
// the outcome, then on success re-aggregate and return the fresh snapshot.
func (s *Service) dispatch(
	ctx context.Context,
	op string,
	args []string,
	fn func(context.Context) error,
) (*Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	started := time.Now()
	err := fn(ctx)
	s.record(ctx, op, args, err, started)
	if err != nil {
		s.logger.Warn("command failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}

	s.logger.Debug("command succeeded", zap.String("op", op))
	return s.Status(ctx)
}

func (s *Service) record(ctx context.Context, op string, args []string, err error, started time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, CommandRecord{
		Op:         op,
		Args:       args,
		Err:        err,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
}

// CommitInfo returns a fresh snapshot with commit-message metadata attached.
// The template and previous-message lookups are individually tolerant; the
// status aggregation keeps its normal failure semantics.
func (s *Service) CommitInfo(ctx context.Context) (*Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	var (
		templatePath string
		prevMessage  string
		snapshot     *Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := s.repo.CommitTemplatePath(gctx)
		if err != nil {
			s.logger.Debug("commit template lookup failed", zap.Error(err))
			return nil
		}
		templatePath = path
		return nil
	})
	g.Go(func() error {
		message, err := s.repo.LastCommitMessage(gctx)
		if err != nil {
			s.logger.Debug("previous commit lookup failed", zap.Error(err))
			return nil
		}
		prevMessage = message
		return nil
	})
	g.Go(func() error {
		var err error
		snapshot, err = s.Status(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info := &CommitInfo{PrevCommitMessage: prevMessage}
	if templatePath != "" {
		info.Template = s.readTemplate(templatePath)
	}

	if snapshot == nil {
		snapshot = &Snapshot{}
	}
	snapshot.CommitInfo = info
	return snapshot, nil
}

// readTemplate resolves a commit-template path to its content. The literal
// path is tried first, then the path with `~` replaced by the repository's
// .git directory. Every failure, at every step, yields an empty template.
func (s *Service) readTemplate(path string) string {
	if content, err := os.ReadFile(filepath.FromSlash(path)); err == nil {
		return string(content)
	}
	if strings.Contains(path, "~") {
		substituted := strings.Replace(path, "~", s.repo.WorkingDir()+"/.git", 1)
		if content, err := os.ReadFile(filepath.FromSlash(substituted)); err == nil {
			return string(content)
		}
	}
	// Global git config template lookup is not implemented.
	return ""
}

// Show returns the content of path at treeish, buffered entirely in memory.
// An empty or "~" treeish selects the working tree. Paths absent at the
// revision yield an empty string.
func (s *Service) Show(ctx context.Context, path, treeish string) (string, error) {
	if s.repo == nil {
		return "", ErrNoRepository
	}
	content, err := s.repo.Show(ctx, path, normalizeTreeish(treeish))
	if err != nil {
		if c := classifyContent(err); c.Outcome == OutcomeSuppressed {
			return "", nil
		}
		return "", err
	}
	return string(content), nil
}

// DetectMimetypes sniffs the content type of path. A file present in the
// working tree is sniffed on disk; otherwise a content stream at treeish is
// sniffed instead.
func (s *Service) DetectMimetypes(ctx context.Context, path, treeish string) ([]string, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	root, err := s.root.Root(ctx)
	if err != nil {
		return nil, err
	}
	onDisk := path
	if !filepath.IsAbs(onDisk) {
		onDisk = filepath.Join(root, path)
	}
	if _, statErr := os.Stat(onDisk); statErr == nil {
		return s.sniffer.SniffFile(onDisk)
	}

	stream, err := s.repo.OpenAtRevision(ctx, path, normalizeTreeish(treeish))
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return s.sniffer.SniffStream(stream)
}

// normalizeTreeish maps the "working tree" aliases to the empty revision.
func normalizeTreeish(treeish string) string {
	if treeish == "~" {
		return ""
	}
	return treeish
}
