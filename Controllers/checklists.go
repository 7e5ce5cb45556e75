package Controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"Checkpoint/History"
	"Checkpoint/Models"
	"Checkpoint/SheetApi"
	"Checkpoint/Submission"
	"Checkpoint/middleware"
)

// ChecklistController handles checklist submission, history and supervisor
// verification.
type ChecklistController struct {
	Service *Submission.Service
	Source  *History.RemoteSource
	Client  *SheetApi.Client
}

func NewChecklistController(service *Submission.Service, source *History.RemoteSource, client *SheetApi.Client) *ChecklistController {
	return &ChecklistController{Service: service, Source: source, Client: client}
}

// GetTemplate returns the fixed task list for a checklist type.
func (h *ChecklistController) GetTemplate(c *fiber.Ctx) error {
	checklistType := c.Params("type")
	tasks, ok := Models.Checklists[checklistType]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown checklist type"})
	}
	return c.JSON(fiber.Map{"checklistType": checklistType, "tasks": tasks})
}

// Submit runs a checklist submission through the service. Duplicates are a
// blocking but normal outcome; a queued submission is still a success from
// the user's point of view.
func (h *ChecklistController) Submit(c *fiber.Ctx) error {
	var req Submission.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := middleware.CurrentUser(c)
	outcome, err := h.Service.Submit(c.UserContext(), user, req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	switch outcome {
	case Submission.RejectedDuplicate:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  outcome.String(),
			"message": "You have already submitted this checklist today.",
		})
	case Submission.AcceptedQueued:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":  outcome.String(),
			"message": "Saved offline. It will sync when the connection returns.",
		})
	default:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  outcome.String(),
			"message": "Checklist submitted.",
		})
	}
}

// historyError maps remote failures onto responses that never leave the user
// stuck: local-only mode degrades to an empty history with a warning.
func historyError(c *fiber.Ctx, err error) error {
	if errors.Is(err, SheetApi.ErrNotConfigured) {
		return c.JSON(fiber.Map{
			"entries": []Models.ChecklistSubmission{},
			"warning": "Sheet endpoint not configured; history unavailable in local-only mode.",
		})
	}
	var malformed *SheetApi.MalformedResponseError
	if errors.As(err, &malformed) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": malformed.Error()})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch history: " + err.Error()})
}

func (h *ChecklistController) GetHistory(c *fiber.Ctx) error {
	subs, err := h.Source.History(c.UserContext())
	if err != nil {
		return historyError(c, err)
	}
	if subs == nil {
		subs = []Models.ChecklistSubmission{}
	}
	return c.JSON(fiber.Map{"entries": subs})
}

// GetDetail fetches one submission. Older script deployments do not implement
// getDetail, so a miss falls back to searching the grouped history by id.
func (h *ChecklistController) GetDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	if entry, err := h.Client.FetchDetail(c.UserContext(), id); err == nil && entry != nil {
		subs := History.Normalize([]SheetApi.RawEntry{*entry})
		if len(subs) > 0 {
			return c.JSON(subs[0])
		}
	}

	subs, err := h.Source.History(c.UserContext())
	if err != nil {
		return historyError(c, err)
	}
	for _, sub := range subs {
		if sub.ID == id {
			return c.JSON(sub)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checklist not found"})
}

type verifyRequest struct {
	ChecklistType    string                 `json:"checklistType"`
	Date             string                 `json:"date"`
	Time             string                 `json:"time"`
	Name             string                 `json:"name"`
	Tasks            []Models.ChecklistTask `json:"tasks"`
	SupervisorReview string                 `json:"supervisorReview"`
}

// Verify attaches a supervisor review to an existing submission. The update
// is dispatched fire-and-forget; 202 means the request was sent, not that the
// sheet applied it.
func (h *ChecklistController) Verify(c *fiber.Ctx) error {
	id := c.Params("id")

	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	supervisor := middleware.CurrentUser(c)
	stamp := h.Service.Now().Format("01/02/2006 15:04:05")
	completed, total, percentage := Models.ComputeStats(req.Tasks)

	payload := fiber.Map{
		"checklistId":          id,
		"action":               "update",
		"user":                 req.Name,
		"name":                 req.Name,
		"role":                 Models.RoleSupervisor,
		"checklistType":        req.ChecklistType,
		"tasks":                req.Tasks,
		"supervisor":           supervisor.Name,
		"supervisorTimestamp":  stamp,
		"supervisorRemarks":    req.SupervisorReview,
		"date":                 req.Date,
		"time":                 req.Time,
		"completedTasks":       completed,
		"totalTasks":           total,
		"completionPercentage": percentage,
		"supervisorVerified":   "Yes",
	}

	if err := h.Client.Dispatch(c.UserContext(), payload); err != nil {
		if errors.Is(err, SheetApi.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Sheet endpoint not configured; verification cannot be forwarded.",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to send verification: " + err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Verification request sent"})
}

// Delete forwards a delete action for one submission, fire-and-forget.
func (h *ChecklistController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing checklist id"})
	}

	payload := fiber.Map{"action": "delete", "id": id}
	if err := h.Client.Dispatch(c.UserContext(), payload); err != nil {
		if errors.Is(err, SheetApi.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Sheet endpoint not configured; delete cannot be forwarded.",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to send delete: " + err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Delete request sent"})
}

// Summary rolls the remote history up into dashboard counters.
func (h *ChecklistController) Summary(c *fiber.Ctx) error {
	subs, err := h.Source.History(c.UserContext())
	if err != nil {
		return historyError(c, err)
	}
	return c.JSON(History.Summarize(subs))
}
