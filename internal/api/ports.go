package api

import (
	"context"

	"finboard/internal/core"
)

// Ports the dashboard consumes; *Client implements all of them.
type (
	SummaryReader interface {
		NetWorth(ctx context.Context, p core.Period) (core.NetWorthSnapshot, error)
		ExpenseTotal(ctx context.Context, p core.Period) (core.Money, error)
		ExpensesByCategory(ctx context.Context, p core.Period) ([]core.CategoryAmount, error)
	}

	HealthReader interface {
		FinancialHealth(ctx context.Context) (core.HealthReport, error)
	}

	ReportReader interface {
		YearlyReport(ctx context.Context, year int) (core.YearlyReport, error)
		MonthlyReport(ctx context.Context, p core.Period) (core.MonthlyReport, error)
	}

	LoanCalculator interface {
		CalculateLoan(ctx context.Context, req core.LoanRequest) (core.LoanQuote, error)
	}

	// Collection lists and creates records of one kind.
	Collection[R, D any] interface {
		Kind() core.ResourceKind
		List(ctx context.Context) ([]R, error)
		Create(ctx context.Context, draft D) (R, error)
	}

	Deleter interface {
		Delete(ctx context.Context, kind core.ResourceKind, id int64) error
	}
)
