package storage

import (
	"context"
	"time"

	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// HistoryStore keeps one row per exported record per run, so price movement
// can be tracked across daily runs.
type HistoryStore interface {
	SaveRun(ctx context.Context, runAt time.Time, records []models.Record) error
	Close() error
}
