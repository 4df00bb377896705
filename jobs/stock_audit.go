package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stokpintar/stokpintar/internal/observability"
)

// StockAuditJob membandingkan stok tercatat dengan saldo pergerakan per barang.
type StockAuditJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *observability.Metrics
	clock   func() time.Time
}

// NewStockAuditJob initialises the stock audit handler.
func NewStockAuditJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *observability.Metrics) *StockAuditJob {
	return &StockAuditJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type stockDrift struct {
	ItemID   string
	Code     string
	Recorded int
	Derived  int
}

// Handle executes the stock audit logic.
func (j *StockAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("stock audit: handler not configured")
	}
	var payload StockAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	logger := j.logger()
	logger.Info("starting stock audit")

	checked, drifts, err := j.scan(ctx)
	if err != nil {
		j.Metrics.ObserveJob(TaskStockAudit, "error")
		logger.Error("audit failed", slog.Any("error", err))
		return err
	}

	for _, d := range drifts {
		logger.Warn("stock drift detected",
			slog.String("item_id", d.ItemID),
			slog.String("code", d.Code),
			slog.Int("recorded", d.Recorded),
			slog.Int("derived", d.Derived),
			slog.Int("delta", d.Recorded-d.Derived),
		)
	}

	if len(drifts) > 0 {
		j.Metrics.ObserveJob(TaskStockAudit, "drift")
	} else {
		j.Metrics.ObserveJob(TaskStockAudit, "ok")
	}

	logger.Info("completed stock audit",
		slog.Int("items", checked),
		slog.Int("drifts", len(drifts)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// scan menghitung saldo bertanda dari seluruh pergerakan dan mencocokkannya
// dengan kolom stok pada tabel items.
func (j *StockAuditJob) scan(ctx context.Context) (int, []stockDrift, error) {
	if j.Pool == nil {
		return 0, nil, errors.New("stock audit: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT i.id, i.code, i.stock,
		       i.initial_stock + COALESCE(SUM(CASE WHEN m.kind = 'PURCHASE' THEN m.quantity ELSE -m.quantity END), 0) AS derived
		FROM items i
		LEFT JOIN movements m ON m.item_id = i.id
		GROUP BY i.id, i.code, i.stock, i.initial_stock
		ORDER BY i.code`)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	checked := 0
	drifts := make([]stockDrift, 0)
	for rows.Next() {
		var d stockDrift
		if err := rows.Scan(&d.ItemID, &d.Code, &d.Recorded, &d.Derived); err != nil {
			return checked, nil, err
		}
		checked++
		if d.Recorded != d.Derived {
			drifts = append(drifts, d)
		}
	}
	if err := rows.Err(); err != nil {
		return checked, nil, err
	}
	return checked, drifts, nil
}

func (j *StockAuditJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStockAudit))
	}
	return slog.Default().With(slog.String("job", TaskStockAudit))
}

func (j *StockAuditJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
