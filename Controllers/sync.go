package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Checkpoint/OfflineQueue"
)

// SyncController exposes the manual "sync now" action and the queue status.
type SyncController struct {
	Coordinator *OfflineQueue.Coordinator
	Store       *OfflineQueue.Store
	Online      func() bool
}

func NewSyncController(coordinator *OfflineQueue.Coordinator, store *OfflineQueue.Store, online func() bool) *SyncController {
	return &SyncController{Coordinator: coordinator, Store: store, Online: online}
}

// SyncNow drains the offline queue once. Partial results are normal and
// reported as-is; the client may simply invoke sync again later.
func (s *SyncController) SyncNow(c *fiber.Ctx) error {
	result, err := s.Coordinator.Drain(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read offline queue"})
	}
	return c.JSON(result)
}

func (s *SyncController) Status(c *fiber.Ctx) error {
	pending, err := s.Store.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read offline queue"})
	}
	return c.JSON(fiber.Map{
		"pending": pending,
		"online":  s.Online(),
	})
}
