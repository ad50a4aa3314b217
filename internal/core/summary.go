package core

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// NetWorthSnapshot is the service's balance sheet for one period.
// NetWorth is taken as reported, never recomputed here.
type NetWorthSnapshot struct {
	Period           Period `json:"month"`
	TotalAssets      Money  `json:"total_assets"`
	TotalLiabilities Money  `json:"total_liabilities"`
	NetWorth         Money  `json:"net_worth"`
}

type HealthReport struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// LoanRequest asks the service to amortize a loan. RatePercent is the
// nominal annual rate, e.g. 5.5 for 5.5%.
type LoanRequest struct {
	Principal   Money           `json:"principal"`
	RatePercent decimal.Decimal `json:"rate"`
	Months      int             `json:"months"`
}

// LoanForYears builds a request for a term given in whole years.
func LoanForYears(principal Money, ratePercent decimal.Decimal, years int) LoanRequest {
	return LoanRequest{Principal: principal, RatePercent: ratePercent, Months: years * 12}
}

type LoanQuote struct {
	MonthlyPayment Money     `json:"monthly_payment"`
	TotalPayment   Money     `json:"total_payment"`
	TotalInterest  Money     `json:"total_interest"`
	Tips           []LoanTip `json:"tips"`
}

// LoanTip is one payoff suggestion. The optional fields are presented
// independently of each other.
type LoanTip struct {
	Type             string `json:"type,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Savings          *Money `json:"savings,omitempty"`
	PotentialSavings *Money `json:"potential_savings,omitempty"`
	Impact           string `json:"impact,omitempty"`
}

// MonthFigures is one row of the yearly report.
type MonthFigures struct {
	Period      Period `json:"month"`
	MonthName   string `json:"month_name"`
	Expenses    Money  `json:"expenses"`
	Assets      Money  `json:"assets"`
	Liabilities Money  `json:"liabilities"`
	NetWorth    Money  `json:"net_worth"`
}

type YearSummary struct {
	TotalExpenses      Money `json:"total_expenses"`
	FinalAssets        Money `json:"final_assets"`
	FinalLiabilities   Money `json:"final_liabilities"`
	FinalNetWorth      Money `json:"final_net_worth"`
	AvgMonthlyExpenses Money `json:"avg_monthly_expenses"`
}

type YearlyReport struct {
	Year    FlexInt        `json:"year"`
	Months  []MonthFigures `json:"monthly_data"`
	Summary YearSummary    `json:"summary"`
}

type MonthSummary struct {
	TotalExpenses    Money `json:"total_expenses"`
	TotalAssets      Money `json:"total_assets"`
	TotalLiabilities Money `json:"total_liabilities"`
	NetWorth         Money `json:"net_worth"`
	ExpenseCount     int   `json:"expense_count"`
	AssetCount       int   `json:"asset_count"`
	LiabilityCount   int   `json:"liability_count"`
}

type MonthlyReport struct {
	Period     Period           `json:"month"`
	ByCategory []CategoryAmount `json:"expenses_by_category"`
	Summary    MonthSummary     `json:"summary"`
}

// FlexInt decodes integers the service sometimes sends as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}
