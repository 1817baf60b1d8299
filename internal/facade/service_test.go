package facade

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

// fakeRepo is a scriptable Repository. Zero value behaves like a healthy
// empty repository rooted at workingDir.
type fakeRepo struct {
	workingDir string

	statusEntries []StatusEntry
	statusErr     error
	head          *Ref
	headErr       error
	branch        *Ref
	branchErr     error
	refs          []Ref
	refsErr       error
	remotes       []Remote
	remotesErr    error

	fetchErr  error
	commitErr error

	templatePath string
	templateErr  error
	lastMessage  string
	lastMsgErr   error

	showContent map[string]string
	streams     map[string]string

	calls []string
}

func (f *fakeRepo) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeRepo) WorkingDir() string { return f.workingDir }

func (f *fakeRepo) Version(context.Context) (string, error) { return "fake/1.0", nil }

func (f *fakeRepo) Status(context.Context) ([]StatusEntry, error) {
	f.record("status")
	return f.statusEntries, f.statusErr
}

func (f *fakeRepo) Head(context.Context) (*Ref, error) { return f.head, f.headErr }

func (f *fakeRepo) Branch(_ context.Context, name string) (*Ref, error) {
	f.record("branch:" + name)
	return f.branch, f.branchErr
}

func (f *fakeRepo) Refs(context.Context) ([]Ref, error)       { return f.refs, f.refsErr }
func (f *fakeRepo) Remotes(context.Context) ([]Remote, error) { return f.remotes, f.remotesErr }

func (f *fakeRepo) Init(context.Context) error { f.record("init"); return nil }

func (f *fakeRepo) Add(_ context.Context, paths []string) error {
	f.record(fmt.Sprintf("add:%d", len(paths)))
	return nil
}

func (f *fakeRepo) StageContent(_ context.Context, path string, _ []byte) error {
	f.record("stage:" + path)
	return nil
}

func (f *fakeRepo) CreateBranch(_ context.Context, name string, _ bool) error {
	f.record("create-branch:" + name)
	return nil
}

func (f *fakeRepo) Checkout(_ context.Context, treeish string, _ []string) error {
	f.record("checkout:" + treeish)
	return nil
}

func (f *fakeRepo) Clean(context.Context, []string) error { f.record("clean"); return nil }
func (f *fakeRepo) Undo(context.Context) error            { f.record("undo"); return nil }

func (f *fakeRepo) Reset(_ context.Context, treeish string, _ bool) error {
	f.record("reset:" + treeish)
	return nil
}

func (f *fakeRepo) RevertFiles(context.Context, string, []string) error {
	f.record("revert")
	return nil
}

func (f *fakeRepo) Fetch(context.Context) error { f.record("fetch"); return f.fetchErr }

func (f *fakeRepo) Pull(context.Context, bool) error { f.record("pull"); return nil }

func (f *fakeRepo) Push(context.Context, string, string, bool) error {
	f.record("push")
	return nil
}

func (f *fakeRepo) Commit(_ context.Context, message string, _ bool) error {
	f.record("commit:" + message)
	return f.commitErr
}

func (f *fakeRepo) CommitTemplatePath(context.Context) (string, error) {
	return f.templatePath, f.templateErr
}

func (f *fakeRepo) LastCommitMessage(context.Context) (string, error) {
	return f.lastMessage, f.lastMsgErr
}

func (f *fakeRepo) Show(_ context.Context, path, treeish string) ([]byte, error) {
	content, ok := f.showContent[treeish+":"+path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundAtRevision, path)
	}
	return []byte(content), nil
}

func (f *fakeRepo) OpenAtRevision(_ context.Context, path, treeish string) (io.ReadCloser, error) {
	content, ok := f.streams[treeish+":"+path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundAtRevision, path)
	}
	return io.NopCloser(bytes.NewReader([]byte(content))), nil
}

type fakeSniffer struct {
	fileTypes   []string
	streamTypes []string
	sniffedFile string
	sniffedData string
}

func (s *fakeSniffer) SniffFile(path string) ([]string, error) {
	s.sniffedFile = path
	return s.fileTypes, nil
}

func (s *fakeSniffer) SniffStream(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.sniffedData = string(data)
	return s.streamTypes, nil
}

type fakeRecorder struct {
	records []CommandRecord
}

func (r *fakeRecorder) Record(_ context.Context, rec CommandRecord) {
	r.records = append(r.records, rec)
}

func newTestService(t *testing.T, repo Repository, sniffer ContentSniffer, recorder Recorder) *Service {
	t.Helper()
	return NewService(repo, sniffer, recorder, zaptest.NewLogger(t))
}

func TestService_UnboundRepository(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	if svc.State() != StateVcsNotFound {
		t.Errorf("Expected state %s, got %s", StateVcsNotFound, svc.State())
	}

	count, err := svc.StatusCount(context.Background())
	if err != nil {
		t.Fatalf("StatusCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0 without a repository, got %d", count)
	}

	if _, err := svc.Status(context.Background()); !errors.Is(err, ErrNoRepository) {
		t.Errorf("Expected ErrNoRepository from Status, got %v", err)
	}
	if _, err := svc.Commit(context.Background(), "msg", false, false); !errors.Is(err, ErrNoRepository) {
		t.Errorf("Expected ErrNoRepository from Commit, got %v", err)
	}
	if _, err := svc.Show(context.Background(), "a.txt", ""); !errors.Is(err, ErrNoRepository) {
		t.Errorf("Expected ErrNoRepository from Show, got %v", err)
	}
}

func TestService_StatusAggregation(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeRepo{
		workingDir:    dir,
		statusEntries: []StatusEntry{{Path: "a.txt", Worktree: "M"}},
		head:          &Ref{Name: "refs/heads/main", Hash: "abc"},
		branch:        &Ref{Name: "refs/heads/main", Hash: "abc", Upstream: "origin/main"},
		refs:          []Ref{{Name: "refs/heads/main", Hash: "abc"}},
		remotes:       []Remote{{Name: "origin", URLs: []string{"https://example.com/repo.git"}}},
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snapshot == nil {
		t.Fatal("Expected a snapshot")
	}

	if len(snapshot.Status) != 1 || snapshot.Status[0].Path != "a.txt" {
		t.Errorf("Unexpected status entries: %v", snapshot.Status)
	}
	if snapshot.Head == nil || snapshot.Head.Upstream != "origin/main" {
		t.Errorf("Expected head enriched with tracking metadata, got %v", snapshot.Head)
	}
	if len(snapshot.Refs) != 1 || len(snapshot.Remotes) != 1 {
		t.Errorf("Unexpected refs/remotes: %v / %v", snapshot.Refs, snapshot.Remotes)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if snapshot.Root != resolved {
		t.Errorf("Expected root %s, got %s", resolved, snapshot.Root)
	}
}

func TestService_StatusHeadEnrichmentFallback(t *testing.T) {
	repo := &fakeRepo{
		workingDir: t.TempDir(),
		head:       &Ref{Name: "refs/heads/main", Hash: "abc"},
		branchErr:  errors.New("no tracking configuration"),
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snapshot.Head == nil || snapshot.Head.Hash != "abc" || snapshot.Head.Upstream != "" {
		t.Errorf("Expected bare head on enrichment failure, got %v", snapshot.Head)
	}
}

func TestService_StatusFatalFailure(t *testing.T) {
	repo := &fakeRepo{
		workingDir: t.TempDir(),
		statusErr:  fmt.Errorf("open config: %w", ErrBadConfigFile),
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.Status(context.Background())
	if !errors.Is(err, ErrBadConfigFile) {
		t.Fatalf("Expected ErrBadConfigFile, got %v", err)
	}
	if snapshot != nil {
		t.Error("Expected no snapshot on fatal failure")
	}
}

func TestService_StatusRecoverableFailure(t *testing.T) {
	repo := &fakeRepo{
		workingDir: t.TempDir(),
		statusErr:  errors.New("index locked"),
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Expected recoverable failure to yield nil error, got %v", err)
	}
	if snapshot != nil {
		t.Error("Expected nil snapshot for recoverable failure")
	}
}

func TestService_DispatchRecordsAndRefreshes(t *testing.T) {
	repo := &fakeRepo{workingDir: t.TempDir()}
	recorder := &fakeRecorder{}
	svc := newTestService(t, repo, nil, recorder)

	snapshot, err := svc.Checkout(context.Background(), "main", nil)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if snapshot == nil {
		t.Fatal("Expected a fresh snapshot after a successful command")
	}

	if len(recorder.records) != 1 {
		t.Fatalf("Expected one record, got %d", len(recorder.records))
	}
	rec := recorder.records[0]
	if rec.Op != "checkout" || rec.Err != nil {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.FinishedAt.Before(rec.StartedAt) {
		t.Error("Expected FinishedAt to be at or after StartedAt")
	}
}

func TestService_DispatchFailureIsRecordedAndWrapped(t *testing.T) {
	boom := errors.New("nothing to commit")
	repo := &fakeRepo{workingDir: t.TempDir(), commitErr: boom}
	recorder := &fakeRecorder{}
	svc := newTestService(t, repo, nil, recorder)

	snapshot, err := svc.Commit(context.Background(), "msg", false, false)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the cause to survive wrapping, got %v", err)
	}
	if snapshot != nil {
		t.Error("Expected no snapshot on failure")
	}
	if len(recorder.records) != 1 || recorder.records[0].Err == nil {
		t.Errorf("Expected the failure to be recorded, got %+v", recorder.records)
	}
}

func TestService_CommitStagesAllFirst(t *testing.T) {
	repo := &fakeRepo{workingDir: t.TempDir()}
	svc := newTestService(t, repo, nil, nil)

	if _, err := svc.Commit(context.Background(), "msg", false, true); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	var ops []string
	for _, call := range repo.calls {
		if call == "add:0" || call == "commit:msg" {
			ops = append(ops, call)
		}
	}
	if len(ops) != 2 || ops[0] != "add:0" || ops[1] != "commit:msg" {
		t.Errorf("Expected stage-all before commit, got %v", repo.calls)
	}
}

func TestService_FetchSuppressesMissingRemote(t *testing.T) {
	repo := &fakeRepo{workingDir: t.TempDir(), fetchErr: ErrNoRemote}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected missing remote to be a successful no-op, got %v", err)
	}
	if snapshot == nil {
		t.Error("Expected a snapshot after a suppressed fetch")
	}
}

func TestService_FetchPropagatesOtherFailures(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &fakeRepo{workingDir: t.TempDir(), fetchErr: boom}
	svc := newTestService(t, repo, nil, nil)

	if _, err := svc.Fetch(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected fetch failure to propagate, got %v", err)
	}
}

func TestService_CommitInfoTemplateSubstitution(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	template := "subject line\n\nbody"
	if err := os.WriteFile(filepath.Join(gitDir, "commit-template.txt"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{
		workingDir:   dir,
		templatePath: "~/commit-template.txt",
		lastMessage:  "previous commit",
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.CommitInfo(context.Background())
	if err != nil {
		t.Fatalf("CommitInfo failed: %v", err)
	}
	if snapshot.CommitInfo == nil {
		t.Fatal("Expected commit info to be attached")
	}
	if snapshot.CommitInfo.Template != template {
		t.Errorf("Expected template content %q, got %q", template, snapshot.CommitInfo.Template)
	}
	if snapshot.CommitInfo.PrevCommitMessage != "previous commit" {
		t.Errorf("Unexpected previous message: %q", snapshot.CommitInfo.PrevCommitMessage)
	}
}

func TestService_CommitInfoTolerantLookups(t *testing.T) {
	repo := &fakeRepo{
		workingDir:  t.TempDir(),
		templateErr: errors.New("no config"),
		lastMsgErr:  errors.New("no commits yet"),
	}
	svc := newTestService(t, repo, nil, nil)

	snapshot, err := svc.CommitInfo(context.Background())
	if err != nil {
		t.Fatalf("CommitInfo failed: %v", err)
	}
	if snapshot.CommitInfo == nil {
		t.Fatal("Expected commit info even when both lookups fail")
	}
	if snapshot.CommitInfo.Template != "" || snapshot.CommitInfo.PrevCommitMessage != "" {
		t.Errorf("Expected empty commit info, got %+v", snapshot.CommitInfo)
	}
}

func TestService_Show(t *testing.T) {
	repo := &fakeRepo{
		workingDir: t.TempDir(),
		showContent: map[string]string{
			":a.txt":     "working tree content",
			"HEAD:a.txt": "committed content",
		},
	}
	svc := newTestService(t, repo, nil, nil)

	// "~" selects the working tree.
	content, err := svc.Show(context.Background(), "a.txt", "~")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if content != "working tree content" {
		t.Errorf("Unexpected content: %q", content)
	}

	content, err = svc.Show(context.Background(), "a.txt", "HEAD")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if content != "committed content" {
		t.Errorf("Unexpected content: %q", content)
	}

	// Absent paths read as empty, not as errors.
	content, err = svc.Show(context.Background(), "missing.txt", "HEAD")
	if err != nil {
		t.Fatalf("Expected absent path to be suppressed, got %v", err)
	}
	if content != "" {
		t.Errorf("Expected empty content, got %q", content)
	}
}

func TestService_DetectMimetypesPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{workingDir: dir}
	sniffer := &fakeSniffer{fileTypes: []string{"text/plain"}}
	svc := newTestService(t, repo, sniffer, nil)

	types, err := svc.DetectMimetypes(context.Background(), "a.txt", "")
	if err != nil {
		t.Fatalf("DetectMimetypes failed: %v", err)
	}
	if len(types) != 1 || types[0] != "text/plain" {
		t.Errorf("Unexpected types: %v", types)
	}
	if sniffer.sniffedFile == "" {
		t.Error("Expected the on-disk file to be sniffed")
	}
}

func TestService_DetectMimetypesFallsBackToRevision(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeRepo{
		workingDir: dir,
		streams:    map[string]string{"HEAD:deleted.txt": "old content"},
	}
	sniffer := &fakeSniffer{streamTypes: []string{"text/plain; charset=utf-8", "text/plain"}}
	svc := newTestService(t, repo, sniffer, nil)

	types, err := svc.DetectMimetypes(context.Background(), "deleted.txt", "HEAD")
	if err != nil {
		t.Fatalf("DetectMimetypes failed: %v", err)
	}
	if len(types) != 2 {
		t.Errorf("Unexpected types: %v", types)
	}
	if sniffer.sniffedData != "old content" {
		t.Errorf("Expected the revision stream to be sniffed, got %q", sniffer.sniffedData)
	}
}
