package forecast

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// RepositoryPort abstracts the read-only queries the planner needs.
type RepositoryPort interface {
	ListItems(ctx context.Context) ([]CatalogItem, error)
	ListSales(ctx context.Context, itemID string, from, to time.Time) ([]Sale, error)
}

// Request carries the validated forecasting parameters.
type Request struct {
	Start           time.Time
	End             time.Time
	DefaultLeadTime int
}

// Service orchestrates the per-item replenishment computation.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Plan evaluates every catalog item independently against the requested
// range. Items only read movement history, so they are processed
// concurrently; the first failure cancels the batch.
func (s *Service) Plan(ctx context.Context, req Request) (Plan, error) {
	if req.End.Before(req.Start) {
		return Plan{}, fmt.Errorf("forecast: start date after end date")
	}
	leadTime := req.DefaultLeadTime
	if leadTime <= 0 {
		leadTime = 7
	}

	// The range is end-of-day inclusive.
	end := endOfDay(req.End)
	window := WindowFromRange(req.Start, end)
	days := DaysInRange(req.Start, end)

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("forecast: list items: %w", err)
	}

	rows := make([]Row, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			sales, err := s.repo.ListSales(gctx, item.ID, req.Start, end)
			if err != nil {
				return fmt.Errorf("forecast: sales for %s: %w", item.Code, err)
			}
			rows[i] = evaluateItem(i+1, item, sales, window, days, leadTime)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	return Plan{
		Period: Period{
			Start: req.Start.Format("2006-01-02"),
			End:   req.End.Format("2006-01-02"),
		},
		Parameters: Parameters{WindowWeeks: window, LeadTimeDays: leadTime},
		Rows:       rows,
	}, nil
}

// evaluateItem is the pure per-item mapping (item, sales, parameters) -> Row.
func evaluateItem(no int, item CatalogItem, sales []Sale, window, daysInRange, defaultLeadTime int) Row {
	row := Row{
		No:           no,
		Code:         item.Code,
		Name:         item.Name,
		CategoryName: categoryOrDash(item.CategoryName),
		Unit:         unitOrDefault(item.Unit),
		CurrentStock: item.Stock,
	}

	if len(sales) == 0 {
		row.Note = NoteNoSales
		return row
	}

	buckets := AggregateWeekly(sales)
	effective := EffectiveWindow(window, len(buckets))
	if effective == 0 {
		row.Note = NoteInsufficientData
		return row
	}

	totalSold := 0
	for _, s := range sales {
		totalSold += s.Quantity
	}

	leadTime := defaultLeadTime
	if item.LeadTimeDays != nil && *item.LeadTimeDays > 0 {
		leadTime = *item.LeadTimeDays
	}

	row.Forecast = SMA(buckets, effective)
	row.SafetyStock = SafetyStock(totalSold, daysInRange, PeakWeekly(buckets), leadTime)
	row.RecommendedPurchase = RecommendedPurchase(row.Forecast, row.SafetyStock, item.Stock)
	row.MAPE = MAPE(buckets, effective)

	if row.RecommendedPurchase > 0 {
		row.Note = NoteRestock
	} else {
		row.Note = NoteStockSufficient
	}
	return row
}

func categoryOrDash(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "Pcs"
	}
	return unit
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
