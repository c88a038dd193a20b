package handlers

import (
	"errors"

	"cardfields/internal/frames"
	"cardfields/internal/models"
	"cardfields/internal/repositories"
	"cardfields/internal/services/session"
	"cardfields/internal/services/submit"
	"cardfields/internal/utils/pagination"
	"cardfields/internal/utils/response"
	"cardfields/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SessionHandler struct {
	sessions    session.Service
	submissions repositories.SubmissionRepository
	logger      logrus.FieldLogger
}

func NewSessionHandler(sessions session.Service, submissions repositories.SubmissionRepository, logger logrus.FieldLogger) *SessionHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SessionHandler{
		sessions:    sessions,
		submissions: submissions,
		logger:      logger,
	}
}

// Create registers a card fields session for the authenticated merchant
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	merchantID := c.Locals("merchantID").(string)

	var input models.CreateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if v := validation.SessionConfig(input.SessionConfig); !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": v.Errors,
		})
	}

	sess, err := h.sessions.Create(c.UserContext(), merchantID, input.SessionConfig)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, "Session created", sess)
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	merchantID := c.Locals("merchantID").(string)

	sess, err := h.sessions.Get(c.UserContext(), merchantID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Session retrieved", sess)
}

func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	merchantID := c.Locals("merchantID").(string)

	if err := h.sessions.Delete(c.UserContext(), merchantID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSubmissions pages through the audit trail of a merchant's session
func (h *SessionHandler) ListSubmissions(c *fiber.Ctx) error {
	merchantID := c.Locals("merchantID").(string)
	id := c.Params("id")

	if _, err := h.sessions.Get(c.UserContext(), merchantID, id); err != nil {
		return h.fail(c, err)
	}

	p := pagination.ParseFromRequest(c)
	items, total, err := h.submissions.ListBySession(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", id).Error("failed to list submissions")
		return response.ServerError(c, "Failed to list submissions")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

// UpdateFrame stores the snapshot a frame host reports for one field
func (h *SessionHandler) UpdateFrame(c *fiber.Ctx) error {
	var snap frames.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.sessions.UpdateFrame(c.UserContext(), c.Params("id"), c.Params("frame"), snap); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) RemoveFrame(c *fiber.Ctx) error {
	if err := h.sessions.RemoveFrame(c.UserContext(), c.Params("id"), c.Params("frame")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) State(c *fiber.Ctx) error {
	st, err := h.sessions.State(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "Session state", st)
}

// Submit runs the card fields submission for the session
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	id := c.Params("id")

	res, err := h.sessions.Submit(c.UserContext(), id)
	if err != nil {
		entry := h.logger.WithError(err).WithField("session_id", id)
		if submit.IsCallerError(err) {
			entry.Info("submission rejected")
		} else {
			entry.Error("submission failed")
		}
		return h.fail(c, err)
	}
	return response.Success(c, "Submission complete", res)
}

func (h *SessionHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return response.NotFound(c, "Session not found")
	case errors.Is(err, session.ErrForbidden):
		return response.Forbidden(c, "Session belongs to another merchant")
	case errors.Is(err, session.ErrUnknownFrame):
		return response.NotFound(c, "Unknown frame")
	case errors.Is(err, session.ErrInvalidCallback):
		return response.BadRequest(c, err.Error())
	}

	status := response.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		h.logger.WithError(err).Error("unhandled session error")
		return response.ServerError(c, "Internal server error")
	}
	return response.DomainError(c, err)
}
