package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finboard/internal/api"
	"finboard/internal/core"
	applog "finboard/internal/log"
	"finboard/internal/services"
)

// Deps are the remote collaborators of the controller.
type Deps struct {
	Summary  api.SummaryReader
	Health   api.HealthReader
	Reports  api.ReportReader
	Loans    api.LoanCalculator
	Gateways *services.Gateways
}

type Options struct {
	WindowMonths int
	Concurrency  int
	Now          func() time.Time
	Logger       *applog.Logger
}

// Controller owns the State: it routes navigation, runs loaders and
// performs mutations followed by the refreshes they require.
type Controller struct {
	*Router

	state  *State
	deps   Deps
	window int
	conc   int
	now    func() time.Time
	logger *applog.Logger
}

func NewController(state *State, deps Deps, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = 6
	}
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	c := &Controller{
		state:  state,
		deps:   deps,
		window: opts.WindowMonths,
		conc:   opts.Concurrency,
		now:    opts.Now,
		logger: opts.Logger.WithComponent(applog.ComponentDashboard),
	}
	c.Router = NewRouter(state, c, opts.Logger)
	return c
}

func (c *Controller) State() *State {
	return c.state
}

// Load runs the loader of sec and commits under gen.
func (c *Controller) Load(ctx context.Context, sec Section, gen uint64) {
	switch sec {
	case Dashboard:
		c.loadDashboard(ctx, gen)
	case Expenses:
		loadTable(ctx, c, sec, gen, c.deps.Gateways.Expenses, func(t Table[core.Expense]) { c.state.expenses = t })
	case Assets:
		loadTable(ctx, c, sec, gen, c.deps.Gateways.Assets, func(t Table[core.Asset]) { c.state.assets = t })
	case Liabilities:
		loadTable(ctx, c, sec, gen, c.deps.Gateways.Liabilities, func(t Table[core.Liability]) { c.state.liabilities = t })
	case Reports:
		c.loadReports(ctx, gen)
	case LoanCalculator:
		// Nothing to load; quotes are requested explicitly.
	}
}

// reload starts a new generation for sec and loads it without changing the
// active section.
func (c *Controller) reload(ctx context.Context, sec Section) {
	c.Load(ctx, sec, c.state.begin(sec))
}

func (c *Controller) AddExpense(ctx context.Context, d core.ExpenseDraft) error {
	_, err := c.deps.Gateways.Expenses.Create(ctx, d)
	return c.afterMutation(ctx, Expenses, "Expense added successfully!", "Error adding expense", err)
}

func (c *Controller) AddAsset(ctx context.Context, d core.AssetDraft) error {
	_, err := c.deps.Gateways.Assets.Create(ctx, d)
	return c.afterMutation(ctx, Assets, "Asset added successfully!", "Error adding asset", err)
}

func (c *Controller) AddLiability(ctx context.Context, d core.LiabilityDraft) error {
	_, err := c.deps.Gateways.Liabilities.Create(ctx, d)
	return c.afterMutation(ctx, Liabilities, "Liability added successfully!", "Error adding liability", err)
}

func (c *Controller) DeleteExpense(ctx context.Context, id int64, confirm services.Confirmer) error {
	err := c.deps.Gateways.Expenses.Delete(ctx, id, confirm)
	return c.afterMutation(ctx, Expenses, "Expense deleted.", "Error deleting expense", err)
}

func (c *Controller) DeleteAsset(ctx context.Context, id int64, confirm services.Confirmer) error {
	err := c.deps.Gateways.Assets.Delete(ctx, id, confirm)
	return c.afterMutation(ctx, Assets, "Asset deleted.", "Error deleting asset", err)
}

func (c *Controller) DeleteLiability(ctx context.Context, id int64, confirm services.Confirmer) error {
	err := c.deps.Gateways.Liabilities.Delete(ctx, id, confirm)
	return c.afterMutation(ctx, Liabilities, "Liability deleted.", "Error deleting liability", err)
}

// afterMutation reports the outcome and, on success, re-lists sec and
// reloads the dashboard summary. A declined confirmation is not an error.
func (c *Controller) afterMutation(ctx context.Context, sec Section, okText, failText string, err error) error {
	if errors.Is(err, services.ErrNotConfirmed) {
		return nil
	}
	if err != nil {
		c.state.notify(NoticeError, fmt.Sprintf("%s: %s", failText, userMessage(err)))
		return err
	}
	c.state.notify(NoticeSuccess, okText)
	c.reload(ctx, sec)
	c.reload(ctx, Dashboard)
	return nil
}

// CalculateLoan asks the service for a quote and shows it. Only the latest
// request's quote is kept.
func (c *Controller) CalculateLoan(ctx context.Context, req core.LoanRequest) error {
	gen := c.state.begin(LoanCalculator)
	quote, err := c.deps.Loans.CalculateLoan(ctx, req)
	if err != nil {
		c.logFailure(ctx, LoanCalculator, gen, "Loan calculation failed", err)
		c.state.notify(NoticeError, "Error calculating loan. Please check your inputs.")
		return err
	}
	c.state.commit(LoanCalculator, gen, func() {
		c.state.loan = LoanView{Request: req, Quote: &quote}
	})
	return nil
}

func (c *Controller) logFailure(ctx context.Context, sec Section, gen uint64, msg string, err error) {
	fields := applog.NewFields().
		WithOperation(applog.OpLoad).
		WithSection(sec.String(), gen).
		WithErrorType(api.ErrorType(err)).
		WithError(err)
	c.logger.WarnContext(ctx, msg, fields.ToSlice()...)
}

func (c *Controller) logStale(ctx context.Context, sec Section, gen uint64) {
	c.logger.DebugContext(ctx, "Discarded stale load",
		applog.NewFields().WithOperation(applog.OpLoad).WithSection(sec.String(), gen).ToSlice()...)
}

// userMessage picks the part of err worth showing in a notification.
func userMessage(err error) string {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var serr *api.StatusError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	var terr *api.TransportError
	if errors.As(err, &terr) {
		return "service unreachable"
	}
	return err.Error()
}
