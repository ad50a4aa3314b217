package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finboard/internal/api"
	"finboard/internal/core"
	applog "finboard/internal/log"
)

// ErrNotConfirmed is returned by Delete when the user answers no.
var ErrNotConfirmed = errors.New("delete not confirmed")

// Draft is a record that has not been created yet.
type Draft interface {
	Validate() error
}

// Confirmer is the yes/no gate in front of every delete.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Gateway shapes list, create and delete calls for one resource kind. The
// service is the authority: nothing is cached between calls.
type Gateway[R any, D Draft] struct {
	coll   api.Collection[R, D]
	del    api.Deleter
	logger *applog.Logger
}

func NewGateway[R any, D Draft](coll api.Collection[R, D], del api.Deleter, logger *applog.Logger) *Gateway[R, D] {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Gateway[R, D]{
		coll:   coll,
		del:    del,
		logger: logger.WithComponent(applog.ComponentGateway),
	}
}

func (g *Gateway[R, D]) Kind() core.ResourceKind {
	return g.coll.Kind()
}

// List fetches the current records.
func (g *Gateway[R, D]) List(ctx context.Context) ([]R, error) {
	start := time.Now()
	items, err := g.coll.List(ctx)
	if err != nil {
		g.logFailure(ctx, applog.OpList, 0, err)
		return nil, fmt.Errorf("list %s: %w", g.Kind(), err)
	}
	g.logger.DebugContext(ctx, "Records listed",
		applog.FieldResource, g.Kind().String(),
		applog.FieldCount, len(items),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return items, nil
}

// Create validates draft locally and sends it. Drafts that fail validation
// never reach the service.
func (g *Gateway[R, D]) Create(ctx context.Context, draft D) (R, error) {
	var zero R
	if err := draft.Validate(); err != nil {
		verr := &api.ValidationError{Field: fieldFor(err), Err: err}
		g.logFailure(ctx, applog.OpValidate, 0, verr)
		return zero, verr
	}
	created, err := g.coll.Create(ctx, draft)
	if err != nil {
		g.logFailure(ctx, applog.OpCreate, 0, err)
		return zero, fmt.Errorf("create %s: %w", g.Kind(), err)
	}
	g.logger.InfoContext(ctx, "Record created", applog.FieldResource, g.Kind().String())
	return created, nil
}

// Delete asks confirm first and only then removes the record. A "no"
// returns ErrNotConfirmed without contacting the service.
func (g *Gateway[R, D]) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil {
		return fmt.Errorf("delete %s %d: %w", g.Kind(), id, ErrNotConfirmed)
	}
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", g.Kind()))
	if err != nil {
		return fmt.Errorf("confirm delete %s %d: %w", g.Kind(), id, err)
	}
	if !ok {
		return ErrNotConfirmed
	}
	if err := g.del.Delete(ctx, g.Kind(), id); err != nil {
		g.logFailure(ctx, applog.OpDelete, id, err)
		return fmt.Errorf("delete %s %d: %w", g.Kind(), id, err)
	}
	g.logger.InfoContext(ctx, "Record deleted",
		applog.FieldResource, g.Kind().String(),
		applog.FieldRecordID, id)
	return nil
}

func (g *Gateway[R, D]) logFailure(ctx context.Context, op string, id int64, err error) {
	fields := applog.NewFields().
		WithOperation(op).
		WithResource(g.Kind().String(), id).
		WithErrorType(api.ErrorType(err)).
		WithError(err)
	g.logger.WarnContext(ctx, "Gateway call failed", fields.ToSlice()...)
}

// fieldFor names the draft field a core validation error refers to.
func fieldFor(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount"
	case errors.Is(err, core.ErrInvalidDate):
		return "date"
	case errors.Is(err, core.ErrInvalidPeriod):
		return "month"
	case errors.Is(err, core.ErrEmptyCategory):
		return "category"
	case errors.Is(err, core.ErrEmptyName):
		return "name"
	case errors.Is(err, core.ErrEmptyDescription):
		return "description"
	}
	return ""
}

// Gateways bundles the three resource gateways.
type Gateways struct {
	Expenses    *Gateway[core.Expense, core.ExpenseDraft]
	Assets      *Gateway[core.Asset, core.AssetDraft]
	Liabilities *Gateway[core.Liability, core.LiabilityDraft]
}

func NewGateways(c *api.Client, logger *applog.Logger) *Gateways {
	return &Gateways{
		Expenses:    NewGateway(c.Expenses(), c, logger),
		Assets:      NewGateway(c.Assets(), c, logger),
		Liabilities: NewGateway(c.Liabilities(), c, logger),
	}
}
