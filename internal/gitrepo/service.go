package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-billy/v6/util"
	git "github.com/go-git/go-git/v6"
	gitconfig "github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/format/index"
	"github.com/go-git/go-git/v6/plumbing/object"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/facade"
)

// agent identifies the embedded git implementation; there is no git binary
// behind this collaborator.
const agent = "go-git/v6"

// Service implements facade.Repository on an embedded go-git repository.
// All collaborator failures are translated into the facade's sentinel errors
// here, at this single boundary.
type Service struct {
	config Config
	hub    *outputHub

	logger *zap.Logger
}

var _ facade.Repository = (*Service)(nil)
var _ facade.OutputSource = (*Service)(nil)

func NewService(config Config, logger *zap.Logger) *Service {
	return &Service{
		config: config,
		hub:    newOutputHub(),
		logger: logger,
	}
}

// WorkingDir implements facade.Repository.
func (s *Service) WorkingDir() string {
	return s.config.Path
}

// Version implements facade.Repository.
func (s *Service) Version(_ context.Context) (string, error) {
	return agent, nil
}

// SubscribeOutput implements facade.OutputSource.
func (s *Service) SubscribeOutput(fn func(chunk string)) (cancel func()) {
	return s.hub.SubscribeOutput(fn)
}

// open opens the repository at the bound path. A repository found above the
// bound path (via .git discovery) means the caller is bound to a
// subdirectory, which is rejected; an unreadable configuration file is
// likewise surfaced as its own condition.
func (s *Service) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(s.config.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	if _, cfgErr := repo.Config(); cfgErr != nil {
		return nil, fmt.Errorf("%w: %w", facade.ErrBadConfigFile, cfgErr)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	if !samePath(worktree.Filesystem.Root(), s.config.Path) {
		return nil, fmt.Errorf("%w: bound to %s, repository root is %s",
			facade.ErrOutsideWorkingTree, s.config.Path, worktree.Filesystem.Root())
	}

	return repo, nil
}

func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = a
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = b
	}
	return filepath.Clean(ra) == filepath.Clean(rb)
}

// Status implements facade.Repository. Entries are ordered by path.
func (s *Service) Status(_ context.Context) ([]facade.StatusEntry, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	entries := make([]facade.StatusEntry, 0, len(status))
	for path, file := range status {
		if file.Staging == git.Unmodified && file.Worktree == git.Unmodified {
			continue
		}
		entries = append(entries, facade.StatusEntry{
			Path:     path,
			Index:    statusCode(file.Staging),
			Worktree: statusCode(file.Worktree),
			From:     file.Extra,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return entries, nil
}

func statusCode(code git.StatusCode) string {
	if code == git.Unmodified {
		return ""
	}
	return string(rune(code))
}

// Head implements facade.Repository. A detached HEAD is reported under the
// name "HEAD".
func (s *Service) Head(_ context.Context) (*facade.Ref, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return &facade.Ref{
		Name: head.Name().String(),
		Hash: head.Hash().String(),
	}, nil
}

// Branch implements facade.Repository: the named local branch with its
// tracking reference, when one is configured.
func (s *Service) Branch(_ context.Context, name string) (*facade.Ref, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", name, err)
	}

	result := &facade.Ref{
		Name: plumbing.NewBranchReferenceName(name).String(),
		Hash: ref.Hash().String(),
	}
	if branch, cfgErr := repo.Branch(name); cfgErr == nil && branch.Remote != "" {
		result.Upstream = branch.Remote + "/" + branch.Merge.Short()
	}
	return result, nil
}

// Refs implements facade.Repository.
func (s *Service) Refs(_ context.Context) ([]facade.Ref, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var refs []facade.Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		refs = append(refs, facade.Ref{
			Name: ref.Name().String(),
			Hash: ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	return refs, nil
}

// Remotes implements facade.Repository.
func (s *Service) Remotes(_ context.Context) ([]facade.Remote, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	result := make([]facade.Remote, 0, len(remotes))
	for _, remote := range remotes {
		cfg := remote.Config()
		result = append(result, facade.Remote{
			Name: cfg.Name,
			URLs: cfg.URLs,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// Init implements facade.Repository.
func (s *Service) Init(_ context.Context) error {
	s.logger.Info("initializing repository", zap.String("path", s.config.Path))

	if err := os.MkdirAll(s.config.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	if _, err := git.PlainInit(s.config.Path, false); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// Add implements facade.Repository; no paths stages the whole tree.
func (s *Service) Add(_ context.Context, paths []string) error {
	worktree, err := s.worktree()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return fmt.Errorf("failed to stage all: %w", err)
		}
		return nil
	}
	for _, path := range paths {
		if _, err := worktree.Add(path); err != nil {
			return fmt.Errorf("failed to stage %s: %w", path, err)
		}
	}
	return nil
}

// StageContent implements facade.Repository: the content is written as a
// blob and the index entry is pointed at it directly, without touching the
// working tree.
func (s *Service) StageContent(_ context.Context, path string, content []byte) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	blob := repo.Storer.NewEncodedObject()
	blob.SetType(plumbing.BlobObject)
	writer, err := blob.Writer()
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err = writer.Write(content); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close blob: %w", err)
	}
	hash, err := repo.Storer.SetEncodedObject(blob)
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	entry, err := idx.Entry(path)
	if errors.Is(err, index.ErrEntryNotFound) {
		entry = idx.Add(path)
	} else if err != nil {
		return fmt.Errorf("failed to look up index entry: %w", err)
	}
	entry.Hash = hash
	entry.Mode = filemode.Regular
	entry.Size = uint32(len(content))
	entry.ModifiedAt = time.Now()

	if err := repo.Storer.SetIndex(idx); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// CreateBranch implements facade.Repository.
func (s *Service) CreateBranch(_ context.Context, name string, checkout bool) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	if checkout {
		worktree, wtErr := repo.Worktree()
		if wtErr != nil {
			return fmt.Errorf("failed to get worktree: %w", wtErr)
		}
		if err := worktree.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(name),
			Create: true,
		}); err != nil {
			return fmt.Errorf("failed to create and checkout branch %s: %w", name, err)
		}
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Checkout implements facade.Repository. Without paths the treeish is
// checked out; with paths they are restored from the treeish instead.
func (s *Service) Checkout(ctx context.Context, treeish string, paths []string) error {
	if len(paths) > 0 {
		return s.RevertFiles(ctx, treeish, paths)
	}

	repo, err := s.open()
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	options := &git.CheckoutOptions{}
	branchRef := plumbing.NewBranchReferenceName(treeish)
	if _, refErr := repo.Reference(branchRef, false); refErr == nil {
		options.Branch = branchRef
	} else {
		hash, resErr := repo.ResolveRevision(plumbing.Revision(treeish))
		if resErr != nil {
			return fmt.Errorf("failed to resolve %s: %w", treeish, resErr)
		}
		options.Hash = *hash
	}
	if err := worktree.Checkout(options); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", treeish, err)
	}
	return nil
}

// Clean implements facade.Repository: the given untracked paths are removed
// from the working tree; no paths removes every untracked file.
func (s *Service) Clean(_ context.Context, paths []string) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	requested := make(map[string]bool, len(paths))
	for _, path := range paths {
		requested[filepath.ToSlash(path)] = true
	}

	for path, file := range status {
		if file.Worktree != git.Untracked {
			continue
		}
		if len(requested) > 0 && !requested[path] {
			continue
		}
		if err := worktree.Filesystem.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Undo implements facade.Repository: the last commit is discarded, its
// changes stay staged.
func (s *Service) Undo(_ context.Context) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	parent, err := repo.ResolveRevision(plumbing.Revision("HEAD~1"))
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD~1: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := worktree.Reset(&git.ResetOptions{Commit: *parent, Mode: git.SoftReset}); err != nil {
		return fmt.Errorf("failed to undo last commit: %w", err)
	}
	return nil
}

// Reset implements facade.Repository.
func (s *Service) Reset(_ context.Context, treeish string, hard bool) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(treeish))
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", treeish, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	mode := git.MixedReset
	if hard {
		mode = git.HardReset
	}
	if err := worktree.Reset(&git.ResetOptions{Commit: *hash, Mode: mode}); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", treeish, err)
	}
	return nil
}

// RevertFiles implements facade.Repository: each path is rewritten in the
// working tree and the index from its content at treeish. An empty treeish
// reverts to HEAD.
func (s *Service) RevertFiles(ctx context.Context, treeish string, paths []string) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if treeish == "" {
		treeish = "HEAD"
	}
	commit, err := s.commitAt(repo, treeish)
	if err != nil {
		return err
	}

	for _, path := range paths {
		file, fileErr := commit.File(filepath.ToSlash(path))
		if fileErr != nil {
			return fmt.Errorf("failed to read %s at %s: %w", path, treeish, fileErr)
		}
		content, contErr := file.Contents()
		if contErr != nil {
			return fmt.Errorf("failed to read %s at %s: %w", path, treeish, contErr)
		}
		mode, modeErr := file.Mode.ToOSFileMode()
		if modeErr != nil {
			mode = 0o644
		}
		if err := util.WriteFile(worktree.Filesystem, path, []byte(content), mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if _, err := worktree.Add(path); err != nil {
			return fmt.Errorf("failed to stage %s: %w", path, err)
		}
	}
	return nil
}

// Fetch implements facade.Repository. A repository with no remotes is
// surfaced as ErrNoRemote for the facade to classify.
func (s *Service) Fetch(ctx context.Context) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if len(remotes) == 0 {
		return facade.ErrNoRemote
	}

	s.logger.Info("fetching", zap.String("remote", s.config.remote("")))
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: s.config.remote(""),
		Progress:   s.hub,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// Pull implements facade.Repository. The embedded implementation always
// fast-forwards, so the rebase flag selects the same behavior.
func (s *Service) Pull(ctx context.Context, rebase bool) error {
	worktree, err := s.worktree()
	if err != nil {
		return err
	}
	if rebase {
		s.logger.Debug("pull with rebase requested, fast-forward pull applies")
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName: s.config.remote(""),
		Progress:   s.hub,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}

// Push implements facade.Repository. Empty remote and branch select the
// default remote and the full branch set.
func (s *Service) Push(ctx context.Context, remote, branch string, force bool) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	options := &git.PushOptions{
		RemoteName: s.config.remote(remote),
		Force:      force,
		Progress:   s.hub,
	}
	if branch != "" {
		spec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
		options.RefSpecs = []gitconfig.RefSpec{gitconfig.RefSpec(spec)}
	}

	s.logger.Info("pushing", zap.String("remote", options.RemoteName), zap.String("branch", branch))
	err = repo.PushContext(ctx, options)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// Commit implements facade.Repository.
func (s *Service) Commit(_ context.Context, message string, amend bool) error {
	worktree, err := s.worktree()
	if err != nil {
		return err
	}
	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: s.signature(),
		Amend:  amend,
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CommitTemplatePath implements facade.Repository: the commit.template value
// from the repository configuration, empty when unset.
func (s *Service) CommitTemplatePath(_ context.Context) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	cfg, err := repo.Config()
	if err != nil {
		return "", fmt.Errorf("%w: %w", facade.ErrBadConfigFile, err)
	}
	return cfg.Raw.Section("commit").Option("template"), nil
}

// LastCommitMessage implements facade.Repository.
func (s *Service) LastCommitMessage(_ context.Context) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	return commit.Message, nil
}

// Show implements facade.Repository. Absent paths, on disk or at the
// revision, are surfaced as ErrNotFoundAtRevision.
func (s *Service) Show(ctx context.Context, path, treeish string) ([]byte, error) {
	stream, err := s.OpenAtRevision(ctx, path, treeish)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}

// OpenAtRevision implements facade.Repository. An empty treeish opens the
// working-tree file.
func (s *Service) OpenAtRevision(_ context.Context, path, treeish string) (io.ReadCloser, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}

	if treeish == "" {
		worktree, wtErr := repo.Worktree()
		if wtErr != nil {
			return nil, fmt.Errorf("failed to get worktree: %w", wtErr)
		}
		file, openErr := worktree.Filesystem.Open(path)
		if openErr != nil {
			if os.IsNotExist(openErr) {
				return nil, fmt.Errorf("%w: %s", facade.ErrNotFoundAtRevision, path)
			}
			return nil, fmt.Errorf("failed to open %s: %w", path, openErr)
		}
		return file, nil
	}

	commit, err := s.commitAt(repo, treeish)
	if err != nil {
		return nil, err
	}
	file, err := commit.File(filepath.ToSlash(path))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s at %s", facade.ErrNotFoundAtRevision, path, treeish)
		}
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, treeish, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s at %s: %w", path, treeish, err)
	}
	return reader, nil
}

func (s *Service) commitAt(repo *git.Repository, treeish string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(treeish))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", treeish, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commit, nil
}

func (s *Service) worktree() (*git.Worktree, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return worktree, nil
}

func (s *Service) signature() *object.Signature {
	name := s.config.AuthorName
	if name == "" {
		name = "gitbridge"
	}
	email := s.config.AuthorEmail
	if email == "" {
		email = "gitbridge@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}
