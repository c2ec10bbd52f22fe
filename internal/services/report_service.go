package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/money"
)

// UncategorizedName labels the by-category row for transactions without a category.
const UncategorizedName = "(Uncategorized)"

type Balance struct {
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Net     money.Amount `json:"net"`
}

type MonthlyReport struct {
	Year    int          `json:"year"`
	Month   int          `json:"month"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Net     money.Amount `json:"net"`
}

type CategoryReportRow struct {
	CategoryID   *uint        `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Income       money.Amount `json:"income"`
	Expense      money.Amount `json:"expense"`
	Total        money.Amount `json:"total"`
}

// ReportService computes aggregates from live ledger data on every call.
type ReportService struct {
	scope LedgerScopeFunc
	now   func() time.Time
}

func NewReportService(scope LedgerScopeFunc) *ReportService {
	return &ReportService{scope: scope, now: time.Now}
}

func (service *ReportService) Balance(userID uint) (Balance, error) {
	totals, err := service.scope(userID).Totals(db.TotalsFilter{})
	if err != nil {
		return Balance{}, fmt.Errorf("balance totals: %w", err)
	}
	return Balance{
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Income.Sub(totals.Expense),
	}, nil
}

// Monthly sums the half-open UTC window [first day of month, first day of
// next month). A nil year or month defaults to the current one.
func (service *ReportService) Monthly(userID uint, year *int, month *int) (MonthlyReport, error) {
	now := service.now().UTC()
	resolvedYear := now.Year()
	resolvedMonth := int(now.Month())
	if year != nil {
		resolvedYear = *year
	}
	if month != nil {
		resolvedMonth = *month
	}
	if resolvedMonth < 1 || resolvedMonth > 12 {
		return MonthlyReport{}, ErrInvalidMonth
	}
	if resolvedYear < 1 || resolvedYear > 9999 {
		return MonthlyReport{}, ErrInvalidYear
	}

	start, next := MonthWindow(resolvedYear, time.Month(resolvedMonth))
	totals, err := service.scope(userID).Totals(db.TotalsFilter{From: &start, Before: &next})
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly totals: %w", err)
	}
	return MonthlyReport{
		Year:    resolvedYear,
		Month:   resolvedMonth,
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Income.Sub(totals.Expense),
	}, nil
}

func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ByCategory returns one row per owned category ordered by name, followed by
// an uncategorized row when it has any income or expense.
func (service *ReportService) ByCategory(userID uint) ([]CategoryReportRow, error) {
	scope := service.scope(userID)

	categoryTotals, err := scope.CategoryTotals()
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}

	rows := make([]CategoryReportRow, 0, len(categoryTotals)+1)
	for _, entry := range categoryTotals {
		categoryID := entry.CategoryID
		rows = append(rows, CategoryReportRow{
			CategoryID:   &categoryID,
			CategoryName: entry.CategoryName,
			Income:       entry.Income,
			Expense:      entry.Expense,
			Total:        entry.Income.Sub(entry.Expense),
		})
	}

	uncategorized, err := scope.Totals(db.TotalsFilter{UncategorizedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("uncategorized totals: %w", err)
	}
	if !uncategorized.Income.IsZero() || !uncategorized.Expense.IsZero() {
		rows = append(rows, CategoryReportRow{
			CategoryName: UncategorizedName,
			Income:       uncategorized.Income,
			Expense:      uncategorized.Expense,
			Total:        uncategorized.Income.Sub(uncategorized.Expense),
		})
	}
	return rows, nil
}
