package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/models"
)

func seedReportScenario(t *testing.T, now time.Time) (*stubLedger, uint) {
	t.Helper()

	ledger := newStubLedger()
	ledger.transactions = []models.Transaction{
		{ID: 100, UserID: 1, Type: models.TransactionIncome, Amount: mustAmount("3000.00"), Date: now},
		{ID: 101, UserID: 1, Type: models.TransactionExpense, Amount: mustAmount("120.55"), Date: now},
		{ID: 102, UserID: 1, Type: models.TransactionExpense, Amount: mustAmount("200.00"), Date: now.AddDate(0, -1, 0)},
		{ID: 103, UserID: 2, Type: models.TransactionIncome, Amount: mustAmount("77.00"), Date: now},
	}
	return ledger, 1
}

func TestReportServiceBalanceAndMonthly(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	ledger, userID := seedReportScenario(t, now)
	service := NewReportService(ledger.scopeFunc())
	service.now = fixedClock(now)

	balance, err := service.Balance(userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Income.String() != "3000.00" || balance.Expense.String() != "320.55" || balance.Net.String() != "2679.45" {
		t.Fatalf("unexpected balance %+v", balance)
	}

	monthly, err := service.Monthly(userID, nil, nil)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly.Year != 2024 || monthly.Month != 6 {
		t.Fatalf("expected current year/month defaults, got %d-%d", monthly.Year, monthly.Month)
	}
	if monthly.Income.String() != "3000.00" || monthly.Expense.String() != "120.55" || monthly.Net.String() != "2879.45" {
		t.Fatalf("unexpected monthly %+v", monthly)
	}
}

func TestReportServiceMonthlyWindowIsHalfOpen(t *testing.T) {
	t.Parallel()

	start, next := MonthWindow(2024, time.February)
	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) || !next.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window %s - %s", start, next)
	}

	ledger := newStubLedger()
	ledger.transactions = []models.Transaction{
		{ID: 1, UserID: 1, Type: models.TransactionIncome, Amount: mustAmount("10.00"), Date: start},
		{ID: 2, UserID: 1, Type: models.TransactionIncome, Amount: mustAmount("99.00"), Date: next},
		{ID: 3, UserID: 1, Type: models.TransactionExpense, Amount: mustAmount("1.00"), Date: next.Add(-time.Nanosecond)},
	}
	service := NewReportService(ledger.scopeFunc())

	year, month := 2024, 2
	report, err := service.Monthly(1, &year, &month)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if report.Income.String() != "10.00" || report.Expense.String() != "1.00" {
		t.Fatalf("expected start included and next month excluded, got %+v", report)
	}

	december := 12
	if _, err := service.Monthly(1, &year, &december); err != nil {
		t.Fatalf("december window: %v", err)
	}
	filter := ledger.lastTotals[len(ledger.lastTotals)-1]
	if !filter.Before.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected december window to end at next year, got %s", filter.Before)
	}
}

func TestReportServiceMonthlyRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	service := NewReportService(newStubLedger().scopeFunc())
	for _, month := range []int{0, 13, -1} {
		value := month
		if _, err := service.Monthly(1, nil, &value); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("expected ErrInvalidMonth for %d, got %v", month, err)
		}
	}
	year := 0
	if _, err := service.Monthly(1, &year, nil); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}

func TestReportServiceByCategory(t *testing.T) {
	t.Parallel()

	ledger := newStubLedger()
	service := NewReportService(ledger.scopeFunc())
	ledgerService := NewLedgerService(ledger.scopeFunc())

	salary, err := ledgerService.CreateCategory(1, CategoryInput{Name: "Salary"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	food, err := ledgerService.CreateCategory(1, CategoryInput{Name: "Food"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := ledgerService.CreateCategory(1, CategoryInput{Name: "Empty"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	inputs := []TransactionInput{
		{CategoryID: &salary.ID, Type: "income", Amount: mustAmount("3000.00")},
		{CategoryID: &food.ID, Type: "expense", Amount: mustAmount("120.55")},
		{Type: "expense", Amount: mustAmount("200.00")},
	}
	for _, input := range inputs {
		if _, err := ledgerService.CreateTransaction(1, input); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	rows, err := service.ByCategory(1)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 3 category rows plus uncategorized, got %d", len(rows))
	}
	wantNames := []string{"Empty", "Food", "Salary", UncategorizedName}
	for index, name := range wantNames {
		if rows[index].CategoryName != name {
			t.Fatalf("row %d name = %q, want %q", index, rows[index].CategoryName, name)
		}
	}
	if rows[0].Total.String() != "0.00" {
		t.Fatalf("expected zero total for empty category, got %s", rows[0].Total)
	}
	if rows[3].CategoryID != nil || rows[3].Expense.String() != "200.00" || rows[3].Total.String() != "-200.00" {
		t.Fatalf("unexpected uncategorized row %+v", rows[3])
	}

	balance, err := service.Balance(1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	var income, expense = rows[0].Income, rows[0].Expense
	for _, row := range rows[1:] {
		income = income.Add(row.Income)
		expense = expense.Add(row.Expense)
	}
	if income != balance.Income || expense != balance.Expense {
		t.Fatalf("by-category sums %s/%s differ from balance %s/%s", income, expense, balance.Income, balance.Expense)
	}
}

func TestReportServiceByCategoryOmitsEmptyUncategorizedRow(t *testing.T) {
	t.Parallel()

	ledger := newStubLedger()
	service := NewReportService(ledger.scopeFunc())
	if _, err := NewLedgerService(ledger.scopeFunc()).CreateCategory(1, CategoryInput{Name: "Only"}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	rows, err := service.ByCategory(1)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(rows) != 1 || rows[0].CategoryName != "Only" {
		t.Fatalf("expected a single category row, got %+v", rows)
	}
}
