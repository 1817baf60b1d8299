package repository

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/facade"
	"github.com/gitbridge/gitbridge/internal/server/validation"
)

const outputFlushInterval = 15 * time.Second

type Handler struct {
	facadeSvc *facade.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(facadeSvc *facade.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		facadeSvc: facadeSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/repository")

	r.Use(h.errorsHandler)
	r.Get("/", h.get)
	r.Get("/status", h.status)
	r.Get("/status/count", h.statusCount)
	r.Get("/commit-info", h.commitInfo)
	r.Get("/content", h.content)
	r.Get("/mimetypes", h.mimetypes)
	r.Get("/output", h.output)

	r.Post("/init", h.init)
	r.Post("/add", validation.DecorateWithBodyEx(h.validator, h.add))
	r.Post("/stage", validation.DecorateWithBodyEx(h.validator, h.stage))
	r.Post("/branch", validation.DecorateWithBodyEx(h.validator, h.branch))
	r.Post("/checkout", validation.DecorateWithBodyEx(h.validator, h.checkout))
	r.Post("/clean", validation.DecorateWithBodyEx(h.validator, h.clean))
	r.Post("/undo", h.undo)
	r.Post("/reset", validation.DecorateWithBodyEx(h.validator, h.reset))
	r.Post("/revert", validation.DecorateWithBodyEx(h.validator, h.revert))
	r.Post("/fetch", h.fetch)
	r.Post("/pull", validation.DecorateWithBodyEx(h.validator, h.pull))
	r.Post("/push", validation.DecorateWithBodyEx(h.validator, h.push))
	r.Post("/sync", h.sync)
	r.Post("/commit", validation.DecorateWithBodyEx(h.validator, h.commit))
}

func (h *Handler) get(c *fiber.Ctx) error {
	response := StateResponse{State: string(h.facadeSvc.State())}

	if response.State == string(facade.StateOK) {
		version, err := h.facadeSvc.Version(c.Context())
		if err != nil {
			h.logger.Warn("failed to resolve engine version", zap.Error(err))
		}
		response.Version = version
	}

	return c.JSON(response)
}

func (h *Handler) status(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.Status(c.Context())
	if err != nil {
		return fmt.Errorf("failed to aggregate status: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) statusCount(c *fiber.Ctx) error {
	count, err := h.facadeSvc.StatusCount(c.Context())
	if err != nil {
		return fmt.Errorf("failed to count status entries: %w", err)
	}
	return c.JSON(CountResponse{Count: count})
}

func (h *Handler) commitInfo(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.CommitInfo(c.Context())
	if err != nil {
		return fmt.Errorf("failed to resolve commit info: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) content(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path is required")
	}

	content, err := h.facadeSvc.Show(c.Context(), path, c.Query("treeish"))
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	return c.JSON(ContentResponse{Content: content})
}

func (h *Handler) mimetypes(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path is required")
	}

	mimetypes, err := h.facadeSvc.DetectMimetypes(c.Context(), path, c.Query("treeish"))
	if err != nil {
		return fmt.Errorf("failed to detect mimetypes: %w", err)
	}
	return c.JSON(MimetypesResponse{Mimetypes: mimetypes})
}

// output streams live command output as chunked plain text. Nothing is
// replayed; the stream starts with whatever the next command produces.
func (h *Handler) output(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		chunks := make(chan string, 64)
		cancel := h.facadeSvc.SubscribeOutput(func(chunk string) {
			select {
			case chunks <- chunk:
			default:
				// Slow consumers lose chunks instead of blocking commands.
			}
		})
		defer cancel()

		ticker := time.NewTicker(outputFlushInterval)
		defer ticker.Stop()

		for {
			select {
			case chunk := <-chunks:
				if _, err := w.WriteString(chunk); err != nil {
					return
				}
			case <-ticker.C:
				// Periodic flush detects a gone client between chunks.
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}

func (h *Handler) init(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.Init(c.Context())
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) add(c *fiber.Ctx, req *AddRequest) error {
	snapshot, err := h.facadeSvc.Add(c.Context(), req.Paths)
	if err != nil {
		return fmt.Errorf("failed to add paths: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) stage(c *fiber.Ctx, req *StageRequest) error {
	snapshot, err := h.facadeSvc.Stage(c.Context(), req.Path, []byte(req.Content))
	if err != nil {
		return fmt.Errorf("failed to stage content: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) branch(c *fiber.Ctx, req *BranchRequest) error {
	snapshot, err := h.facadeSvc.Branch(c.Context(), req.Name, req.Checkout)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) checkout(c *fiber.Ctx, req *CheckoutRequest) error {
	snapshot, err := h.facadeSvc.Checkout(c.Context(), req.Treeish, req.Paths)
	if err != nil {
		return fmt.Errorf("failed to checkout: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) clean(c *fiber.Ctx, req *CleanRequest) error {
	snapshot, err := h.facadeSvc.Clean(c.Context(), req.Paths)
	if err != nil {
		return fmt.Errorf("failed to clean paths: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) undo(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.Undo(c.Context())
	if err != nil {
		return fmt.Errorf("failed to undo last commit: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) reset(c *fiber.Ctx, req *ResetRequest) error {
	snapshot, err := h.facadeSvc.Reset(c.Context(), req.Treeish, req.Hard)
	if err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) revert(c *fiber.Ctx, req *RevertRequest) error {
	snapshot, err := h.facadeSvc.RevertFiles(c.Context(), req.Treeish, req.Paths)
	if err != nil {
		return fmt.Errorf("failed to revert files: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) fetch(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.Fetch(c.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) pull(c *fiber.Ctx, req *PullRequest) error {
	snapshot, err := h.facadeSvc.Pull(c.Context(), req.Rebase)
	if err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) push(c *fiber.Ctx, req *PushRequest) error {
	snapshot, err := h.facadeSvc.Push(c.Context(), req.Remote, req.Branch, req.Force)
	if err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) sync(c *fiber.Ctx) error {
	snapshot, err := h.facadeSvc.Sync(c.Context())
	if err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

func (h *Handler) commit(c *fiber.Ctx, req *CommitRequest) error {
	snapshot, err := h.facadeSvc.Commit(c.Context(), req.Message, req.Amend, req.StageAll)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return h.sendSnapshot(c, snapshot)
}

// sendSnapshot renders a snapshot, mapping the nil snapshot (empty outcome)
// to 204 so clients can tell it apart from a populated one.
func (h *Handler) sendSnapshot(c *fiber.Ctx, snapshot *facade.Snapshot) error {
	if snapshot == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toSnapshotResponse(snapshot))
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, facade.ErrNoRepository):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, facade.ErrBadConfigFile), errors.Is(err, facade.ErrOutsideWorkingTree):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, facade.ErrNotFoundAtRevision):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
