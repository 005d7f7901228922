package model

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"model-sync/core/logger"
	"model-sync/core/reconcile"
	"model-sync/feature/model/session"
)

// Handler handles HTTP requests for sync sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/fetch", h.HandleFetch)
	group.Get("/status", h.HandleStatus)
	group.Post("/apply", h.HandleApply)
	group.Post("/cancel", h.HandleCancel)
	group.Get("/snapshots", h.HandleListSnapshots)
}

// FetchRequest is the body of a fetch call.
type FetchRequest struct {
	Kind        string `json:"kind"`
	SnapshotRef string `json:"snapshotRef"`
}

// ApplyRequest is the body of an apply call.
type ApplyRequest struct {
	Confirm bool `json:"confirm"`
}

// HandleFetch fetches the source model and computes a sync plan.
// @Summary Fetch and diff
// @Description Fetch the source model, diff it against the store and leave the plan pending confirmation.
// @Tags sync
// @Accept json
// @Produce json
// @Param scope query string false "Sync scope (defaults to the configured scope)"
// @Param request body FetchRequest false "Entity kind and snapshot reference"
// @Success 200 {object} session.Status "Computed plan summary"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} session.Status "A session is already in progress"
// @Failure 502 {object} session.Status "Source fetch failed"
// @Router /sync/fetch [post]
func (h *Handler) HandleFetch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	scope := h.scope(c)

	var req FetchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	status, err := h.service.Fetch(c.Context(), scope, req.Kind, req.SnapshotRef)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionBusy):
			return c.Status(fiber.StatusConflict).JSON(status)
		case isUpstream(err):
			l.Error("Source fetch failed", zap.String("scope", scope), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(status)
		case status.State == session.StateFailed:
			l.Error("Sync fetch failed", zap.String("scope", scope), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(status)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(status)
}

// HandleStatus returns the scope's session snapshot.
// @Summary Session status
// @Description Get the current sync session of a scope.
// @Tags sync
// @Produce json
// @Param scope query string false "Sync scope (defaults to the configured scope)"
// @Success 200 {object} session.Status "Session snapshot"
// @Failure 404 {object} map[string]string "No session"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(h.scope(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleApply executes the pending plan.
// @Summary Apply plan
// @Description Apply the pending sync plan. Requires confirm=true in the body.
// @Tags sync
// @Accept json
// @Produce json
// @Param scope query string false "Sync scope (defaults to the configured scope)"
// @Param request body ApplyRequest true "Confirmation"
// @Success 200 {object} session.Status "Apply outcome"
// @Failure 400 {object} map[string]string "Confirmation missing"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} session.Status "No pending plan or session busy"
// @Router /sync/apply [post]
func (h *Handler) HandleApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	scope := h.scope(c)

	var req ApplyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	status, err := h.service.Apply(c.Context(), scope, req.Confirm)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, session.ErrConfirmRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, session.ErrSessionBusy), errors.Is(err, session.ErrNotDiffed):
			return c.Status(fiber.StatusConflict).JSON(status)
		case errors.Is(err, context.Canceled):
			// A cancelled apply is a client decision, not a server error. The
			// status carries the failed state and the partial result.
			return c.JSON(status)
		default:
			l.Error("Sync apply failed", zap.String("scope", scope), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(status)
		}
	}
	return c.JSON(status)
}

// HandleCancel aborts the scope's session.
// @Summary Cancel session
// @Description Discard a pending plan or stop an apply between batches.
// @Tags sync
// @Produce json
// @Param scope query string false "Sync scope (defaults to the configured scope)"
// @Success 200 {object} session.Status "Session snapshot after cancel"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} session.Status "Session not cancellable"
// @Router /sync/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	status, err := h.service.Cancel(h.scope(c))
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusConflict).JSON(status)
	}
	return c.JSON(status)
}

// HandleListSnapshots lists the scope's archived session snapshots.
// @Summary List snapshots
// @Description List archived session snapshots of a scope, newest first.
// @Tags sync
// @Produce json
// @Param scope query string false "Sync scope (defaults to the configured scope)"
// @Success 200 {array} archive.Entry "Archived snapshots"
// @Failure 500 {object} map[string]string "Listing failed"
// @Router /sync/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	scope := h.scope(c)

	entries, err := h.service.ListSnapshots(c.Context(), scope)
	if err != nil {
		l.Error("Snapshot listing failed", zap.String("scope", scope), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

func (h *Handler) scope(c *fiber.Ctx) string {
	return c.Query("scope", h.service.DefaultScope())
}

// isUpstream reports whether err is a source API failure carrying an HTTP
// status.
func isUpstream(err error) bool {
	var sc reconcile.StatusCoder
	return errors.As(err, &sc)
}
