package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	items []CatalogItem
	sales map[string][]Sale
}

func (s stubRepo) ListItems(context.Context) ([]CatalogItem, error) {
	return s.items, nil
}

func (s stubRepo) ListSales(_ context.Context, itemID string, from, to time.Time) ([]Sale, error) {
	var in []Sale
	for _, sale := range s.sales[itemID] {
		if !sale.OccurredAt.Before(from) && !sale.OccurredAt.After(to) {
			in = append(in, sale)
		}
	}
	return in, nil
}

func intPtr(v int) *int { return &v }

func fourWeeklySales(quantities ...int) []Sale {
	sales := make([]Sale, len(quantities))
	for i, q := range quantities {
		// Consecutive Mondays starting 2024-01-01 (ISO week 1).
		sales[i] = Sale{OccurredAt: date(2024, time.January, 1+7*i), Quantity: q}
	}
	return sales
}

func TestPlanComputesRecommendation(t *testing.T) {
	repo := stubRepo{
		items: []CatalogItem{
			{ID: "a", Code: "BRG001", Name: "Beras 5kg", CategoryName: "Sembako", Unit: "Karung", Stock: 5},
		},
		sales: map[string][]Sale{"a": fourWeeklySales(10, 12, 9, 11)},
	}
	svc := NewService(repo)

	plan, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 4, plan.Parameters.WindowWeeks)
	require.Equal(t, 7, plan.Parameters.LeadTimeDays)
	require.Equal(t, Period{Start: "2024-01-01", End: "2024-01-28"}, plan.Period)

	require.Len(t, plan.Rows, 1)
	row := plan.Rows[0]
	require.Equal(t, 1, row.No)
	require.Equal(t, "BRG001", row.Code)
	require.Equal(t, "Sembako", row.CategoryName)
	require.Equal(t, 11, row.Forecast)
	require.Equal(t, 2, row.SafetyStock)
	require.Equal(t, 5, row.CurrentStock)
	require.Equal(t, 8, row.RecommendedPurchase)
	require.Equal(t, 13, row.MAPE)
	require.Equal(t, NoteRestock, row.Note)
}

func TestPlanClampsWindowToHistory(t *testing.T) {
	repo := stubRepo{
		items: []CatalogItem{{ID: "a", Code: "BRG001", Name: "Beras", Stock: 5}},
		sales: map[string][]Sale{"a": fourWeeklySales(10, 12, 9, 11)},
	}
	svc := NewService(repo)

	// Six-week range but only four weeks of history: the SMA still uses
	// all four buckets and produces the same forecast.
	plan, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.February, 11, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 6, plan.Parameters.WindowWeeks)
	require.Equal(t, 11, plan.Rows[0].Forecast)
}

func TestPlanItemWithoutSales(t *testing.T) {
	repo := stubRepo{
		items: []CatalogItem{{ID: "b", Code: "BRG002", Name: "Gula", Stock: 12}},
		sales: map[string][]Sale{},
	}
	svc := NewService(repo)

	plan, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	row := plan.Rows[0]
	require.Equal(t, NoteNoSales, row.Note)
	require.Zero(t, row.Forecast)
	require.Zero(t, row.SafetyStock)
	require.Zero(t, row.RecommendedPurchase)
	require.Zero(t, row.MAPE)
	require.Equal(t, 12, row.CurrentStock)
	require.Equal(t, "-", row.CategoryName)
	require.Equal(t, "Pcs", row.Unit)
}

func TestPlanUsesItemLeadTime(t *testing.T) {
	repo := stubRepo{
		items: []CatalogItem{
			{ID: "a", Code: "BRG001", Name: "Beras", Stock: 100, LeadTimeDays: intPtr(14)},
		},
		sales: map[string][]Sale{"a": fourWeeklySales(10, 12, 9, 11)},
	}
	svc := NewService(repo)

	plan, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	row := plan.Rows[0]
	require.Equal(t, 3, row.SafetyStock)
	require.Zero(t, row.RecommendedPurchase)
	require.Equal(t, NoteStockSufficient, row.Note)
}

func TestPlanRejectsInvertedRange(t *testing.T) {
	svc := NewService(stubRepo{})
	_, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}

func TestPlanKeepsCatalogOrder(t *testing.T) {
	repo := stubRepo{
		items: []CatalogItem{
			{ID: "a", Code: "BRG001", Name: "Beras"},
			{ID: "b", Code: "BRG002", Name: "Gula"},
			{ID: "c", Code: "BRG003", Name: "Kopi"},
		},
		sales: map[string][]Sale{"b": fourWeeklySales(5, 5, 5, 5)},
	}
	svc := NewService(repo)

	plan, err := svc.Plan(context.Background(), Request{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, plan.Rows, 3)
	for i, code := range []string{"BRG001", "BRG002", "BRG003"} {
		require.Equal(t, i+1, plan.Rows[i].No)
		require.Equal(t, code, plan.Rows[i].Code)
	}
	require.Equal(t, 5, plan.Rows[1].Forecast)
}
