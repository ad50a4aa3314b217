package dashboard

import (
	"context"

	applog "finboard/internal/log"
)

// Loader fetches and commits the data of one section. gen is the load
// generation the results must be committed under.
type Loader interface {
	Load(ctx context.Context, sec Section, gen uint64)
}

// Router switches the active section and runs its loader.
type Router struct {
	state  *State
	loader Loader
	logger *applog.Logger
}

func NewRouter(state *State, loader Loader, logger *applog.Logger) *Router {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Router{state: state, loader: loader, logger: logger.WithComponent(applog.ComponentDashboard)}
}

// Activate makes the section named id the only visible one, sets the title
// and runs the section's loader. An unknown id returns a
// *ConfigurationError and leaves the state untouched.
func (r *Router) Activate(ctx context.Context, id string) error {
	sec, err := ParseSection(id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Navigation to unknown section",
			applog.FieldSection, id,
			applog.FieldOperation, applog.OpActivate,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		return err
	}
	r.ActivateSection(ctx, sec)
	return nil
}

// ActivateSection is Activate for an already resolved section.
func (r *Router) ActivateSection(ctx context.Context, sec Section) {
	gen := r.state.activate(sec)
	r.logger.DebugContext(ctx, "Section activated",
		applog.NewFields().WithOperation(applog.OpActivate).WithSection(sec.String(), gen).ToSlice()...)
	if sec.HasLoader() && r.loader != nil {
		r.loader.Load(ctx, sec, gen)
	}
}

// Refresh reloads the active section.
func (r *Router) Refresh(ctx context.Context) {
	r.ActivateSection(ctx, r.state.Active())
}
