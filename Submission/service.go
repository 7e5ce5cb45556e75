package Submission

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"Checkpoint/Guard"
	"Checkpoint/Models"
	"Checkpoint/OfflineQueue"
)

type Outcome int

const (
	OutcomeInvalid Outcome = iota
	AcceptedOnline
	AcceptedQueued
	RejectedDuplicate
)

func (o Outcome) String() string {
	switch o {
	case AcceptedOnline:
		return "accepted"
	case AcceptedQueued:
		return "queued_offline"
	case RejectedDuplicate:
		return "already_submitted"
	}
	return "unknown"
}

// SubmitRequest is the inbound checklist form state.
type SubmitRequest struct {
	ChecklistType string      `json:"checklistType" validate:"required,oneof=opening closing"`
	Tasks         []TaskInput `json:"tasks" validate:"required,min=1,dive"`
}

type TaskInput struct {
	TaskName  string `json:"taskName" validate:"required"`
	Completed bool   `json:"completed"`
	Remarks   string `json:"remarks"`
}

// sheetPayload is the body the spreadsheet script expects for a create, one
// request per whole checklist. Field names follow the deployed script.
type sheetPayload struct {
	User                 string                 `json:"user"`
	Role                 string                 `json:"role"`
	ChecklistType        string                 `json:"checklistType"`
	Tasks                []Models.ChecklistTask `json:"tasks"`
	Timestamp            string                 `json:"timestamp"`
	CompletedTasks       int                    `json:"completedTasks"`
	TotalTasks           int                    `json:"totalTasks"`
	CompletionPercentage int                    `json:"completionPercentage"`
	LoginTime            string                 `json:"loginTime"`
	Supervisor           string                 `json:"supervisor"`
	SupervisorTimestamp  string                 `json:"supervisorTimestamp"`
}

// Service is the single entry point for checklist submission: guard, bounded
// network attempt, offline fallback, marker recording. User-facing messaging
// is the caller's job.
type Service struct {
	Guard      *Guard.SubmissionGuard
	Store      *OfflineQueue.Store
	Dispatcher OfflineQueue.Dispatcher

	// Online reports the last known connectivity state. When it says no, the
	// network attempt is skipped entirely instead of waiting out a doomed
	// timeout.
	Online func() bool

	// Timeout bounds the delivery attempt. Once it fires the in-flight
	// request is abandoned and the offline path taken; the abandoned request
	// may still have succeeded server-side.
	Timeout time.Duration

	Now      func() time.Time
	validate *validator.Validate
}

func NewService(guard *Guard.SubmissionGuard, store *OfflineQueue.Store, dispatcher OfflineQueue.Dispatcher, online func() bool) *Service {
	return &Service{
		Guard:      guard,
		Store:      store,
		Dispatcher: dispatcher,
		Online:     online,
		Timeout:    10 * time.Second,
		Now:        time.Now,
		validate:   validator.New(),
	}
}

// Submit runs the full submission flow for the given user. The returned error
// reports invalid input or local storage failure; duplicate submissions are a
// normal outcome, not an error.
func (s *Service) Submit(ctx context.Context, user Models.User, req SubmitRequest) (Outcome, error) {
	if err := s.validate.Struct(req); err != nil {
		return OutcomeInvalid, fmt.Errorf("invalid submission: %w", err)
	}

	seen := make(map[string]bool, len(req.Tasks))
	tasks := make([]Models.ChecklistTask, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		if seen[t.TaskName] {
			return OutcomeInvalid, fmt.Errorf("invalid submission: duplicate task %q", t.TaskName)
		}
		seen[t.TaskName] = true

		status := Models.StatusPending
		if t.Completed {
			status = Models.StatusCompleted
		}
		tasks = append(tasks, Models.ChecklistTask{
			TaskName: t.TaskName,
			Status:   status,
			Remarks:  t.Remarks,
		})
	}

	now := s.Now()
	completed, total, percentage := Models.ComputeStats(tasks)

	decision, err := s.Guard.Check(ctx, user.Name, user.Role, req.ChecklistType, now)
	if err != nil {
		return OutcomeInvalid, err
	}
	if decision == Guard.AlreadySubmitted {
		return RejectedDuplicate, nil
	}

	stamp := now.Format("01/02/2006 15:04:05")
	payload := sheetPayload{
		User:                 user.Name,
		Role:                 user.Role,
		ChecklistType:        req.ChecklistType,
		Tasks:                tasks,
		Timestamp:            stamp,
		CompletedTasks:       completed,
		TotalTasks:           total,
		CompletionPercentage: percentage,
		LoginTime:            stamp,
	}
	if user.Role == Models.RoleSupervisor {
		payload.Supervisor = user.Name
		payload.SupervisorTimestamp = stamp
	}

	outcome := AcceptedOnline
	if s.Online == nil || !s.Online() {
		// Known-offline: skip straight to the queue.
		if _, err := s.Store.Enqueue(payload); err != nil {
			return OutcomeInvalid, err
		}
		outcome = AcceptedQueued
	} else {
		dispatchCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		err := s.Dispatcher.Dispatch(dispatchCtx, payload)
		cancel()
		if err != nil {
			log.Printf("Delivery failed for %s/%s, queuing offline: %v", user.Name, req.ChecklistType, err)
			if _, err := s.Store.Enqueue(payload); err != nil {
				return OutcomeInvalid, err
			}
			outcome = AcceptedQueued
		}
	}

	// The marker is set on the queued path too; without it a disconnected
	// user could stack duplicate submissions in the queue.
	if err := s.Guard.Record(user.Name, req.ChecklistType, now); err != nil {
		log.Printf("Failed to record submission marker for %s/%s: %v", user.Name, req.ChecklistType, err)
	}

	return outcome, nil
}
