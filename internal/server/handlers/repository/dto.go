package repository

import (
	"github.com/samber/lo"

	"github.com/gitbridge/gitbridge/internal/facade"
)

// StateResponse reports whether a repository is bound and which engine
// backs it.
type StateResponse struct {
	State   string `json:"state"`
	Version string `json:"version,omitempty"`
}

type RefResponse struct {
	Name     string `json:"name"`
	Hash     string `json:"hash"`
	Upstream string `json:"upstream,omitempty"`
}

type StatusEntryResponse struct {
	Path     string `json:"path"`
	Index    string `json:"index"`
	Worktree string `json:"worktree"`
	From     string `json:"from,omitempty"`
}

type RemoteResponse struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

type CommitInfoResponse struct {
	Template          string `json:"template,omitempty"`
	PrevCommitMessage string `json:"prev_commit_message,omitempty"`
}

// SnapshotResponse is the aggregated repository state returned by every
// successful command.
type SnapshotResponse struct {
	Root    string                `json:"root"`
	Head    *RefResponse          `json:"head,omitempty"`
	Status  []StatusEntryResponse `json:"status"`
	Refs    []RefResponse         `json:"refs"`
	Remotes []RemoteResponse      `json:"remotes"`

	CommitInfo *CommitInfoResponse `json:"commit_info,omitempty"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type ContentResponse struct {
	Content string `json:"content"`
}

type MimetypesResponse struct {
	Mimetypes []string `json:"mimetypes"`
}

type AddRequest struct {
	Paths []string `json:"paths,omitempty"`
}

type StageRequest struct {
	Path    string `json:"path"    validate:"required,min=1"`
	Content string `json:"content"`
}

type BranchRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=255"`
	Checkout bool   `json:"checkout"`
}

// CheckoutRequest switches to a treeish or restores paths from one. Both
// fields are optional; an empty treeish restores paths from HEAD, and an
// unresolvable combination is rejected downstream.
type CheckoutRequest struct {
	Treeish string   `json:"treeish,omitempty" validate:"omitempty,min=1"`
	Paths   []string `json:"paths,omitempty"`
}

type CleanRequest struct {
	Paths []string `json:"paths" validate:"required,min=1"`
}

type ResetRequest struct {
	Treeish string `json:"treeish" validate:"required,min=1"`
	Hard    bool   `json:"hard"`
}

type RevertRequest struct {
	Treeish string   `json:"treeish" validate:"required,min=1"`
	Paths   []string `json:"paths"   validate:"required,min=1"`
}

type PullRequest struct {
	Rebase bool `json:"rebase"`
}

type PushRequest struct {
	Remote string `json:"remote,omitempty" validate:"omitempty,min=1,max=255"`
	Branch string `json:"branch,omitempty" validate:"omitempty,min=1,max=255"`
	Force  bool   `json:"force"`
}

type CommitRequest struct {
	Message  string `json:"message"   validate:"required,min=1"`
	Amend    bool   `json:"amend"`
	StageAll bool   `json:"stage_all"`
}

func toRefResponse(ref facade.Ref) RefResponse {
	return RefResponse{
		Name:     ref.Name,
		Hash:     ref.Hash,
		Upstream: ref.Upstream,
	}
}

func toSnapshotResponse(snapshot *facade.Snapshot) SnapshotResponse {
	response := SnapshotResponse{
		Root: snapshot.Root,
		Status: lo.Map(snapshot.Status, func(entry facade.StatusEntry, _ int) StatusEntryResponse {
			return StatusEntryResponse{
				Path:     entry.Path,
				Index:    entry.Index,
				Worktree: entry.Worktree,
				From:     entry.From,
			}
		}),
		Refs: lo.Map(snapshot.Refs, func(ref facade.Ref, _ int) RefResponse {
			return toRefResponse(ref)
		}),
		Remotes: lo.Map(snapshot.Remotes, func(remote facade.Remote, _ int) RemoteResponse {
			return RemoteResponse{Name: remote.Name, URLs: remote.URLs}
		}),
	}

	if snapshot.Head != nil {
		head := toRefResponse(*snapshot.Head)
		response.Head = &head
	}
	if snapshot.CommitInfo != nil {
		response.CommitInfo = &CommitInfoResponse{
			Template:          snapshot.CommitInfo.Template,
			PrevCommitMessage: snapshot.CommitInfo.PrevCommitMessage,
		}
	}

	return response
}
