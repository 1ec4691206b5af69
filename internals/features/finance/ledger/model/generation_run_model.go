// file: internals/features/finance/ledger/model/generation_run_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RunTriggerStartup   = "startup"
	RunTriggerScheduled = "scheduled"
	RunTriggerManual    = "manual"
)

// GenerationRunModel records the outcome of one generator pass.
type GenerationRunModel struct {
	GenerationRunID      uuid.UUID `gorm:"column:generation_run_id;type:uuid;primaryKey" json:"generation_run_id"`
	GenerationRunPeriod  string    `gorm:"column:generation_run_period;type:varchar(32);not null;index:idx_generation_runs_period" json:"generation_run_period"`
	GenerationRunTrigger string    `gorm:"column:generation_run_trigger;type:varchar(16);not null" json:"generation_run_trigger"`

	GenerationRunFeesCreated     int `gorm:"column:generation_run_fees_created;not null;default:0" json:"generation_run_fees_created"`
	GenerationRunSalariesCreated int `gorm:"column:generation_run_salaries_created;not null;default:0" json:"generation_run_salaries_created"`
	GenerationRunSkipped         int `gorm:"column:generation_run_skipped;not null;default:0" json:"generation_run_skipped"`

	// Full summary (skip reasons, overdue watch list)
	GenerationRunSummary datatypes.JSON `gorm:"column:generation_run_summary" json:"generation_run_summary"`

	GenerationRunStartedAt  time.Time `gorm:"column:generation_run_started_at;not null" json:"generation_run_started_at"`
	GenerationRunFinishedAt time.Time `gorm:"column:generation_run_finished_at;not null" json:"generation_run_finished_at"`
}

func (GenerationRunModel) TableName() string { return "generation_runs" }

func (m *GenerationRunModel) BeforeCreate(*gorm.DB) error {
	if m.GenerationRunID == uuid.Nil {
		m.GenerationRunID = uuid.New()
	}
	return nil
}
