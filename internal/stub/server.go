package stub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"finboard/internal/core"
	applog "finboard/internal/log"
)

// Server serves the finance endpoints from a Store.
type Server struct {
	http.Server
	store   *Store
	logger  *applog.Logger
	now     func() time.Time
	limiter *writeLimiter
}

// NewServer wires the routes, returning a ready-to-run http.Server.
func NewServer(addr string, store *Store, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &Server{
		store:  store,
		logger: logger.WithComponent(applog.ComponentStub),
		now:    time.Now,
	}
	s.limiter = newWriteLimiter(DefaultWritesPerMinute, s.now)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes returns the router on its own, for httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.withRequestLog)
	r.Use(apiHeaders)

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/expenses", s.handleListExpenses)
		r.With(s.limitWrites).Post("/expenses", s.handleCreateExpense)
		r.Get("/expenses/total/{month}", s.handleExpenseTotal)
		r.Get("/expenses/category/{month}", s.handleByCategory)

		r.Get("/assets", s.handleListAssets)
		r.With(s.limitWrites).Post("/assets", s.handleCreateAsset)

		r.Get("/liabilities", s.handleListLiabilities)
		r.With(s.limitWrites).Post("/liabilities", s.handleCreateLiability)

		r.Get("/networth/{month}", s.handleNetWorth)
		r.Get("/financial-health", s.handleHealth)
		r.Post("/loan/calculate", s.handleLoan)

		r.Get("/reports/yearly", s.handleYearly)
		r.Get("/reports/monthly", s.handleMonthly)

		r.With(s.limitWrites).Delete("/admin/delete/{kind}/{id}", s.handleDelete)
	})
	return r
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stub service shutting down", applog.FieldOperation, applog.OpShutdown)
	return s.Server.Shutdown(ctx)
}

// withRequestLog tags each request with an id and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(applog.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := applog.WithRequestID(r.Context(), requestID)
		w.Header().Set(applog.RequestIDHeader, requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.DebugContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, ww.Status(),
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Expenses())
}

func (s *Server) handleListAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Assets())
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Liabilities())
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category    string     `json:"category"`
		Description string     `json:"description"`
		Amount      core.Money `json:"amount"`
		Date        string     `json:"date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	date, err := core.ParseDate(body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	created, err := s.store.AddExpense(core.ExpenseDraft{Date: date, Category: body.Category, Description: body.Description, Amount: body.Amount})
	s.respondCreated(w, r, core.ExpenseResource, created, err)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string     `json:"name"`
		Category string     `json:"category"`
		Value    core.Money `json:"value"`
		Month    string     `json:"month"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	month, err := core.ParsePeriod(body.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	created, err := s.store.AddAsset(core.AssetDraft{Name: body.Name, Category: body.Category, Value: body.Value, Month: month})
	s.respondCreated(w, r, core.AssetResource, created, err)
}

func (s *Server) handleCreateLiability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string     `json:"name"`
		Category string     `json:"category"`
		Amount   core.Money `json:"amount"`
		Month    string     `json:"month"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	month, err := core.ParsePeriod(body.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	created, err := s.store.AddLiability(core.LiabilityDraft{Name: body.Name, Category: body.Category, Amount: body.Amount, Month: month})
	s.respondCreated(w, r, core.LiabilityResource, created, err)
}

func (s *Server) respondCreated(w http.ResponseWriter, r *http.Request, kind core.ResourceKind, created any, err error) {
	if err != nil {
		s.logger.WarnContext(r.Context(), "Rejected record",
			applog.FieldResource, kind.String(),
			applog.FieldError, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleExpenseTotal(w http.ResponseWriter, r *http.Request) {
	p, ok := monthParam(w, chi.URLParam(r, "month"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": s.store.ExpenseTotal(p)})
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := monthParam(w, chi.URLParam(r, "month"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.ByCategory(p))
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	p, ok := monthParam(w, chi.URLParam(r, "month"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.NetWorth(p))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Health(s.now()))
}

func (s *Server) handleLoan(w http.ResponseWriter, r *http.Request) {
	var req core.LoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Principal.Validate() != nil || req.RatePercent.IsNegative() || req.Months <= 0 {
		writeError(w, http.StatusBadRequest, "principal and months must be positive, rate must not be negative")
		return
	}
	writeJSON(w, http.StatusOK, Loan(req))
}

func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	year := s.now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, s.store.Yearly(year))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		v = core.PeriodOf(s.now()).String()
	}
	p, ok := monthParam(w, v)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.Monthly(p))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var kind core.ResourceKind
	switch chi.URLParam(r, "kind") {
	case core.ExpenseResource.Path():
		kind = core.ExpenseResource
	case core.AssetResource.Path():
		kind = core.AssetResource
	case core.LiabilityResource.Path():
		kind = core.LiabilityResource
	default:
		writeError(w, http.StatusBadRequest, "Invalid table name")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !s.store.Delete(kind, id) {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	s.logger.InfoContext(r.Context(), "Record deleted",
		applog.FieldResource, kind.String(),
		applog.FieldRecordID, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted successfully"})
}

func monthParam(w http.ResponseWriter, v string) (core.Period, bool) {
	p, err := core.ParsePeriod(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return core.Period{}, false
	}
	return p, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
