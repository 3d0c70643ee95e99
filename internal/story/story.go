// Package story hands out per-project story numbers and formats them as
// human readable codes such as US234567.
package story

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/metrics"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSequenceMissing = errors.New("story sequence row missing after initialization")

// Story is an allocated identifier.
type Story struct {
	Num  int64
	Code string
}

// Allocator issues story numbers from the story_sequences table. Numbers are
// never reused; a rolled back transaction may leave a gap.
type Allocator struct {
	Prefix string
	Base   int64
}

func NewAllocator(prefix string, base int64) *Allocator {
	return &Allocator{Prefix: prefix, Base: base}
}

// Format renders a story number with the allocator's prefix.
func (a *Allocator) Format(num int64) string {
	return a.Prefix + strconv.FormatInt(num, 10)
}

// Init creates the sequence row for a project at the base value. Calling it
// for a project that already has a row is a no-op.
func (a *Allocator) Init(tx *gorm.DB, projectID uuid.UUID) error {
	seq := models.StorySequence{ProjectID: projectID, NextNum: a.Base}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return fmt.Errorf("failed to initialize story sequence: %w", err)
	}
	return nil
}

// Next allocates the next story of a project. It must run inside the
// caller's transaction: the UPDATE takes the row lock, so concurrent
// allocations for the same project are serialized until that transaction ends.
func (a *Allocator) Next(tx *gorm.DB, projectID uuid.UUID) (Story, error) {
	affected, err := a.bump(tx, projectID)
	if err != nil {
		return Story{}, err
	}
	if affected == 0 {
		if err := a.Init(tx, projectID); err != nil {
			return Story{}, err
		}
		if affected, err = a.bump(tx, projectID); err != nil {
			return Story{}, err
		}
		if affected == 0 {
			return Story{}, ErrSequenceMissing
		}
	}

	var next []int64
	if err := tx.Model(&models.StorySequence{}).
		Where("project_id = ?", projectID).
		Pluck("next_num", &next).Error; err != nil {
		return Story{}, fmt.Errorf("failed to read story sequence: %w", err)
	}
	if len(next) == 0 {
		return Story{}, ErrSequenceMissing
	}

	num := next[0] - 1
	metrics.StoriesAllocated.Inc()
	return Story{Num: num, Code: a.Format(num)}, nil
}

func (a *Allocator) bump(tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	res := tx.Model(&models.StorySequence{}).
		Where("project_id = ?", projectID).
		UpdateColumn("next_num", gorm.Expr("next_num + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to advance story sequence: %w", res.Error)
	}
	return res.RowsAffected, nil
}
