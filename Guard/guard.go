package Guard

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Checkpoint/Models"
)

type Decision int

const (
	Allowed Decision = iota
	AlreadySubmitted
)

func (d Decision) String() string {
	if d == AlreadySubmitted {
		return "AlreadySubmitted"
	}
	return "Allowed"
}

// HistoryFetcher provides the remote submission history, already normalized.
type HistoryFetcher interface {
	History(ctx context.Context) ([]Models.ChecklistSubmission, error)
}

// SubmissionGuard blocks a second same-day submission of the same checklist
// type by the same Officeboy. Supervisors review rather than submit and are
// never blocked.
type SubmissionGuard struct {
	DB      *gorm.DB
	History HistoryFetcher
}

func NewSubmissionGuard(db *gorm.DB, history HistoryFetcher) *SubmissionGuard {
	return &SubmissionGuard{DB: db, History: history}
}

// Check decides whether a submission is permitted. The local marker table is
// consulted first; on a miss the remote history is searched and a hit heals
// the local marker. Any remote failure is swallowed and treated as Allowed:
// a duplicate slipping through is preferred over refusing a legitimate
// submission during an outage. The returned error covers local storage
// failures only.
func (g *SubmissionGuard) Check(ctx context.Context, name, role, checklistType string, today time.Time) (Decision, error) {
	if role == Models.RoleSupervisor {
		return Allowed, nil
	}

	day := today.Format("2006-01-02")

	var count int64
	err := g.DB.Model(&Models.SubmissionMarker{}).
		Where("name = ? AND checklist_type = ? AND day = ?", name, checklistType, day).
		Count(&count).Error
	if err != nil {
		return Allowed, err
	}
	if count > 0 {
		return AlreadySubmitted, nil
	}

	if g.History == nil {
		return Allowed, nil
	}

	submissions, err := g.History.History(ctx)
	if err != nil {
		// Fail open: never block a submission because the network is down.
		log.Printf("Guard remote check skipped: %v", err)
		return Allowed, nil
	}

	for _, sub := range submissions {
		if !strings.EqualFold(strings.TrimSpace(sub.Name), strings.TrimSpace(name)) {
			continue
		}
		if sub.ChecklistType != checklistType {
			continue
		}
		if !Models.SameCalendarDay(sub.Date, day) {
			continue
		}
		if err := g.Record(name, checklistType, today); err != nil {
			log.Printf("Failed to heal marker for %s/%s/%s: %v", name, checklistType, day, err)
		}
		return AlreadySubmitted, nil
	}

	return Allowed, nil
}

// Record sets the marker for (name, checklistType, today). It must be called
// for queued submissions too, otherwise a disconnected user could stack
// duplicate entries in the offline queue.
func (g *SubmissionGuard) Record(name, checklistType string, today time.Time) error {
	marker := Models.SubmissionMarker{
		Name:          name,
		ChecklistType: checklistType,
		Day:           today.Format("2006-01-02"),
	}
	return g.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error
}

// EvictBefore drops markers for days older than the cutoff. Past-day markers
// are inert but the source never purged them; the janitor calls this daily.
func (g *SubmissionGuard) EvictBefore(cutoff time.Time) (int64, error) {
	day := cutoff.Format("2006-01-02")
	result := g.DB.Unscoped().Where("day < ?", day).Delete(&Models.SubmissionMarker{})
	return result.RowsAffected, result.Error
}
