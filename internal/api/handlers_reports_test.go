package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/money"
)

func TestBalanceAndMonthlyScenario(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "reports@example.com")

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := monthStart.AddDate(0, 0, -1)

	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "3000.00", "date": now.Format(time.RFC3339)})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "120.55", "date": now.Format(time.RFC3339)})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "200.00", "date": lastMonth.Format(time.RFC3339)})

	balanceResponse := env.do(t, http.MethodGet, "/api/reports/balance", token, nil)
	expectStatus(t, balanceResponse, http.StatusOK)
	var balance totalsView
	decodeJSON(t, balanceResponse, &balance)
	if balance.Income != "3000.00" || balance.Expense != "320.55" || balance.Net != "2679.45" {
		t.Fatalf("unexpected balance %+v", balance)
	}

	monthlyResponse := env.do(t, http.MethodGet, "/api/reports/monthly", token, nil)
	expectStatus(t, monthlyResponse, http.StatusOK)
	var monthly totalsView
	decodeJSON(t, monthlyResponse, &monthly)
	if monthly.Year != now.Year() || monthly.Month != int(now.Month()) {
		t.Fatalf("expected current month defaults, got %d-%d", monthly.Year, monthly.Month)
	}
	if monthly.Income != "3000.00" || monthly.Expense != "120.55" || monthly.Net != "2879.45" {
		t.Fatalf("unexpected monthly report %+v", monthly)
	}
}

func TestMonthlyWindowIsHalfOpen(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "window@example.com")

	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "10.00", "date": "2024-02-01T00:00:00Z"})
	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "1.00", "date": "2024-02-29T23:59:59Z"})
	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "500.00", "date": "2024-03-01T00:00:00Z"})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "7.00", "date": "2024-01-31T23:59:59Z"})

	response := env.do(t, http.MethodGet, "/api/reports/monthly?year=2024&month=2", token, nil)
	expectStatus(t, response, http.StatusOK)
	var monthly totalsView
	decodeJSON(t, response, &monthly)
	if monthly.Income != "11.00" || monthly.Expense != "0.00" || monthly.Net != "11.00" {
		t.Fatalf("unexpected February report %+v", monthly)
	}

	for _, query := range []string{"?month=13", "?month=0", "?year=2024&month=-1"} {
		invalid := env.do(t, http.MethodGet, "/api/reports/monthly"+query, token, nil)
		expectStatus(t, invalid, http.StatusBadRequest)
		if payload := readAPIError(t, invalid); payload.Error != "invalid_month" {
			t.Fatalf("%s: expected invalid_month, got %+v", query, payload)
		}
	}
	notNumber := env.do(t, http.MethodGet, "/api/reports/monthly?month=may", token, nil)
	expectStatus(t, notNumber, http.StatusBadRequest)
}

func TestByCategoryMatchesBalance(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "bycat@example.com")

	salary := env.createCategory(t, token, "Wypłata")
	food := env.createCategory(t, token, "Jedzenie")
	env.createCategory(t, token, "Transport")

	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "3000.00", "category_id": salary.ID})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "120.55", "category_id": food.ID})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "0.10"})
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "0.20"})
	env.createTransaction(t, token, map[string]any{"type": "income", "amount": "0.05"})

	response := env.do(t, http.MethodGet, "/api/reports/by-category", token, nil)
	expectStatus(t, response, http.StatusOK)
	var rows []categoryReportView
	decodeJSON(t, response, &rows)

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.CategoryName)
	}
	if fmt.Sprint(names) != fmt.Sprint([]string{"Jedzenie", "Transport", "Wypłata", "(Uncategorized)"}) {
		t.Fatalf("unexpected row order %v", names)
	}
	last := rows[len(rows)-1]
	if last.CategoryID != nil || last.Income != "0.05" || last.Expense != "0.30" || last.Total != "-0.25" {
		t.Fatalf("unexpected uncategorized row %+v", last)
	}
	if rows[1].Income != "0.00" || rows[1].Expense != "0.00" || rows[1].Total != "0.00" {
		t.Fatalf("expected zero row for empty category, got %+v", rows[1])
	}

	var income, expense money.Amount
	for _, row := range rows {
		rowIncome, err := money.Parse(row.Income)
		if err != nil {
			t.Fatalf("parse income %q: %v", row.Income, err)
		}
		rowExpense, err := money.Parse(row.Expense)
		if err != nil {
			t.Fatalf("parse expense %q: %v", row.Expense, err)
		}
		income = income.Add(rowIncome)
		expense = expense.Add(rowExpense)
	}

	balanceResponse := env.do(t, http.MethodGet, "/api/reports/balance", token, nil)
	expectStatus(t, balanceResponse, http.StatusOK)
	var balance totalsView
	decodeJSON(t, balanceResponse, &balance)
	if income.String() != balance.Income || expense.String() != balance.Expense {
		t.Fatalf("category sums %s/%s differ from balance %+v", income, expense, balance)
	}
}

func TestByCategoryOmitsEmptyUncategorizedRow(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "nouncat@example.com")

	food := env.createCategory(t, token, "Food")
	env.createTransaction(t, token, map[string]any{"type": "expense", "amount": "4.00", "category_id": food.ID})

	response := env.do(t, http.MethodGet, "/api/reports/by-category", token, nil)
	expectStatus(t, response, http.StatusOK)
	var rows []categoryReportView
	decodeJSON(t, response, &rows)
	if len(rows) != 1 || rows[0].CategoryName != "Food" || rows[0].Total != "-4.00" {
		t.Fatalf("expected a single Food row, got %+v", rows)
	}
}
