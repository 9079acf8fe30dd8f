package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Trend depth limits for the trends endpoint.
const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24
)

// AnalyticsService computes dashboard aggregates, forecasts and savings
// advice on top of the transaction store. It holds no state of its own;
// every call reads the store fresh so deletions are visible immediately.
type AnalyticsService struct {
	reader  store.TransactionReader
	budgets store.BudgetStore
	now     func() time.Time
}

func NewAnalyticsService(reader store.TransactionReader, budgets store.BudgetStore) *AnalyticsService {
	return &AnalyticsService{
		reader:  reader,
		budgets: budgets,
		now:     time.Now,
	}
}

// GetMonthlySummary returns per-category expense totals and overall
// income/expense for one calendar month.
func (s *AnalyticsService) GetMonthlySummary(ctx context.Context, owner string, month core.MonthKey) (analytics.MonthlySummary, error) {
	start, end := analytics.MonthWindow(month)
	txs, err := s.reader.Query(ctx, owner, store.Filter{From: start, To: end})
	if err != nil {
		return analytics.MonthlySummary{}, &core.UpstreamError{Op: "monthly summary", Err: err}
	}
	return analytics.SummarizeMonth(txs, month), nil
}

// GetTrends returns income and expense totals for the last months
// calendar months, oldest first, zero-filled.
func (s *AnalyticsService) GetTrends(ctx context.Context, owner string, months int) (core.TrendSeries, error) {
	if months < 1 {
		return nil, core.NewValidationError("months must be at least 1, got %d", months)
	}
	if months > MaxTrendMonths {
		return nil, core.NewValidationError("months must be at most %d, got %d", MaxTrendMonths, months)
	}

	now := s.now()
	start, end := analytics.TrailingMonthsWindow(now, months)
	txs, err := s.reader.Query(ctx, owner, store.Filter{From: start, To: end})
	if err != nil {
		return nil, &core.UpstreamError{Op: "trends", Err: err}
	}
	return analytics.BuildTrend(txs, now, months), nil
}

// GetBudgetAlert evaluates the owner's spending for the month against
// their monthly budget. A missing budget is not an error; it yields the
// informational "no budget set" alert.
func (s *AnalyticsService) GetBudgetAlert(ctx context.Context, owner string, month core.MonthKey) (core.BudgetAlert, error) {
	budget, err := s.budgets.MonthlyBudget(ctx, owner)
	if err != nil {
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			return core.BudgetAlert{}, &core.UpstreamError{Op: "budget alert", Err: err}
		}
		budget = core.Money{}
	}

	start, end := analytics.MonthWindow(month)
	txs, err := s.reader.Query(ctx, owner, store.Filter{From: start, To: end, Kind: core.Expense})
	if err != nil {
		return core.BudgetAlert{}, &core.UpstreamError{Op: "budget alert", Err: err}
	}

	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
	}
	return analytics.EvaluateBudget(core.Money{Cents: total}, budget), nil
}

// GetForecast predicts next month's expense total from the trailing
// six months via least-squares regression.
func (s *AnalyticsService) GetForecast(ctx context.Context, owner string) (core.Forecast, error) {
	now := s.now()
	start, end := analytics.TrailingMonthsWindow(now, analytics.ForecastMonths)
	txs, err := s.reader.Query(ctx, owner, store.Filter{From: start, To: end, Kind: core.Expense})
	if err != nil {
		return core.Forecast{}, &core.UpstreamError{Op: "forecast", Err: err}
	}

	history := analytics.MonthlyExpenseTotals(txs, now, analytics.ForecastMonths)
	return analytics.ForecastExpenses(history), nil
}

// GetSavingsTip analyses the trailing thirty days of spending and
// suggests the category with the most room to cut.
func (s *AnalyticsService) GetSavingsTip(ctx context.Context, owner string) (core.SavingsTip, error) {
	start, end := analytics.RollingDaysWindow(s.now(), analytics.AdvisorWindowDays)
	txs, err := s.reader.Query(ctx, owner, store.Filter{From: start, To: end, Kind: core.Expense})
	if err != nil {
		return core.SavingsTip{}, &core.UpstreamError{Op: "savings tip", Err: err}
	}
	return analytics.Advise(analytics.RankCategorySpend(txs)), nil
}

// Dashboard bundles all analytics views for one owner.
type Dashboard struct {
	Summary     analytics.MonthlySummary `json:"summary"`
	Trends      core.TrendSeries         `json:"trends"`
	BudgetAlert core.BudgetAlert         `json:"budgetAlert"`
	Forecast    core.Forecast            `json:"forecast"`
	SavingsTip  core.SavingsTip          `json:"savingsTip"`
}

// GetDashboard fetches every analytics view concurrently for the
// current month.
func (s *AnalyticsService) GetDashboard(ctx context.Context, owner string) (Dashboard, error) {
	month := core.MonthKeyOf(s.now())

	var dash Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		dash.Summary, err = s.GetMonthlySummary(gctx, owner, month)
		return err
	})
	g.Go(func() error {
		var err error
		dash.Trends, err = s.GetTrends(gctx, owner, DefaultTrendMonths)
		return err
	})
	g.Go(func() error {
		var err error
		dash.BudgetAlert, err = s.GetBudgetAlert(gctx, owner, month)
		return err
	})
	g.Go(func() error {
		var err error
		dash.Forecast, err = s.GetForecast(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		dash.SavingsTip, err = s.GetSavingsTip(gctx, owner)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

// SetBudget stores or clears the owner's monthly budget. A zero amount
// clears it.
func (s *AnalyticsService) SetBudget(ctx context.Context, owner string, amount core.Money) error {
	if amount.Cents < 0 {
		return core.NewValidationError("budget must not be negative")
	}
	if err := s.budgets.SetMonthlyBudget(ctx, owner, amount); err != nil {
		return &core.UpstreamError{Op: "set budget", Err: err}
	}
	return nil
}
