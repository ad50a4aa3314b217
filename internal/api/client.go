package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finboard/internal/core"
	applog "finboard/internal/log"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client talks JSON over HTTP to the finance service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *applog.Logger
}

// Ensure interface conformance
var (
	_ SummaryReader  = (*Client)(nil)
	_ HealthReader   = (*Client)(nil)
	_ ReportReader   = (*Client)(nil)
	_ LoanCalculator = (*Client)(nil)
	_ Deleter        = (*Client)(nil)
)

// NewClient validates baseURL and builds a client. When httpClient is nil a
// client with a logging transport and the given timeout is created; timeouts
// and retries otherwise belong to httpClient.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *applog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = applog.Discard()
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: applog.NewTransport(nil, logger),
			Timeout:   timeout,
		}
	}
	return &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		http:    httpClient,
		logger:  logger.WithComponent(applog.ComponentAPI),
	}, nil
}

// NetWorth returns the balance sheet snapshot for p.
func (c *Client) NetWorth(ctx context.Context, p core.Period) (core.NetWorthSnapshot, error) {
	var snap core.NetWorthSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/networth/"+p.String(), nil, nil, &snap); err != nil {
		return core.NetWorthSnapshot{}, err
	}
	if snap.Period.IsZero() {
		snap.Period = p
	}
	return snap, nil
}

// ExpenseTotal returns the sum of expenses recorded in p.
func (c *Client) ExpenseTotal(ctx context.Context, p core.Period) (core.Money, error) {
	var body struct {
		Total *core.Money `json:"total"`
	}
	path := "/api/expenses/total/" + p.String()
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &body); err != nil {
		return core.Money{}, err
	}
	if body.Total == nil {
		return core.Money{}, &ParseError{Op: "GET " + path, URL: c.baseURL + path, Err: errors.New("missing total")}
	}
	return *body.Total, nil
}

// ExpensesByCategory returns per-category totals for p, in service order.
func (c *Client) ExpensesByCategory(ctx context.Context, p core.Period) ([]core.CategoryAmount, error) {
	var out []core.CategoryAmount
	if err := c.do(ctx, http.MethodGet, "/api/expenses/category/"+p.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FinancialHealth(ctx context.Context) (core.HealthReport, error) {
	var report core.HealthReport
	if err := c.do(ctx, http.MethodGet, "/api/financial-health", nil, nil, &report); err != nil {
		return core.HealthReport{}, err
	}
	return report, nil
}

func (c *Client) YearlyReport(ctx context.Context, year int) (core.YearlyReport, error) {
	var report core.YearlyReport
	q := url.Values{"year": {strconv.Itoa(year)}}
	if err := c.do(ctx, http.MethodGet, "/api/reports/yearly", q, nil, &report); err != nil {
		return core.YearlyReport{}, err
	}
	return report, nil
}

func (c *Client) MonthlyReport(ctx context.Context, p core.Period) (core.MonthlyReport, error) {
	var report core.MonthlyReport
	q := url.Values{"month": {p.String()}}
	if err := c.do(ctx, http.MethodGet, "/api/reports/monthly", q, nil, &report); err != nil {
		return core.MonthlyReport{}, err
	}
	if report.Period.IsZero() {
		report.Period = p
	}
	return report, nil
}

// CalculateLoan asks the service to amortize req. The arithmetic is the service's.
func (c *Client) CalculateLoan(ctx context.Context, req core.LoanRequest) (core.LoanQuote, error) {
	if err := req.Principal.Validate(); err != nil {
		return core.LoanQuote{}, &ValidationError{Field: "principal", Err: err}
	}
	if req.RatePercent.IsNegative() {
		return core.LoanQuote{}, &ValidationError{Field: "rate", Message: "must not be negative"}
	}
	if req.Months <= 0 {
		return core.LoanQuote{}, &ValidationError{Field: "months", Message: "must be positive"}
	}
	body := loanBody{Principal: req.Principal, Rate: json.Number(req.RatePercent.String()), Months: req.Months}
	var quote core.LoanQuote
	if err := c.do(ctx, http.MethodPost, "/api/loan/calculate", nil, body, &quote); err != nil {
		return core.LoanQuote{}, err
	}
	return quote, nil
}

// Delete removes one record through the admin endpoint.
func (c *Client) Delete(ctx context.Context, kind core.ResourceKind, id int64) error {
	if kind.Path() == "" {
		return fmt.Errorf("delete: unknown resource kind %d", int(kind))
	}
	path := fmt.Sprintf("/api/admin/delete/%s/%d", kind.Path(), id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Expenses returns the expense collection.
func (c *Client) Expenses() Collection[core.Expense, core.ExpenseDraft] {
	return &collection[core.Expense, core.ExpenseDraft]{c: c, kind: core.ExpenseResource, encode: func(d core.ExpenseDraft) any {
		return expenseBody{Category: d.Category, Description: d.Description, Amount: d.Amount, Date: d.Date.String()}
	}}
}

func (c *Client) Assets() Collection[core.Asset, core.AssetDraft] {
	return &collection[core.Asset, core.AssetDraft]{c: c, kind: core.AssetResource, encode: func(d core.AssetDraft) any {
		return assetBody{Name: d.Name, Category: d.Category, Value: d.Value, Month: d.Month.String()}
	}}
}

func (c *Client) Liabilities() Collection[core.Liability, core.LiabilityDraft] {
	return &collection[core.Liability, core.LiabilityDraft]{c: c, kind: core.LiabilityResource, encode: func(d core.LiabilityDraft) any {
		return liabilityBody{Name: d.Name, Category: d.Category, Amount: d.Amount, Month: d.Month.String()}
	}}
}

// Request bodies, shaped as the service expects them.
type (
	expenseBody struct {
		Category    string     `json:"category"`
		Description string     `json:"description"`
		Amount      core.Money `json:"amount"`
		Date        string     `json:"date"`
	}

	assetBody struct {
		Name     string     `json:"name"`
		Category string     `json:"category"`
		Value    core.Money `json:"value"`
		Month    string     `json:"month"`
	}

	liabilityBody struct {
		Name     string     `json:"name"`
		Category string     `json:"category"`
		Amount   core.Money `json:"amount"`
		Month    string     `json:"month"`
	}

	loanBody struct {
		Principal core.Money  `json:"principal"`
		Rate      json.Number `json:"rate"`
		Months    int         `json:"months"`
	}

	errorBody struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
)

type collection[R, D any] struct {
	c      *Client
	kind   core.ResourceKind
	encode func(D) any
}

func (col *collection[R, D]) Kind() core.ResourceKind { return col.kind }

func (col *collection[R, D]) List(ctx context.Context) ([]R, error) {
	var out []R
	if err := col.c.do(ctx, http.MethodGet, "/api/"+col.kind.Path(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (col *collection[R, D]) Create(ctx context.Context, draft D) (R, error) {
	var created R
	if err := col.c.do(ctx, http.MethodPost, "/api/"+col.kind.Path(), nil, col.encode(draft), &created); err != nil {
		var zero R
		return zero, err
	}
	return created, nil
}

// do performs one request. A nil out means the body is not needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	op := method + " " + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw)
		if method != http.MethodGet && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity) {
			return &ValidationError{Message: msg, Err: &StatusError{Op: op, URL: target, Code: resp.StatusCode, Message: msg}}
		}
		return &StatusError{Op: op, URL: target, Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ParseError{Op: op, URL: target, Err: errors.New("empty body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Op: op, URL: target, Err: err}
	}
	return nil
}

func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
