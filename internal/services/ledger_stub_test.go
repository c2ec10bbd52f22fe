package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/money"
	"gorm.io/gorm"
)

// stubLedger keeps rows for every user in memory; stubLedgerScope filters by owner.
type stubLedger struct {
	categories   []models.Category
	transactions []models.Transaction
	nextID       uint
	lastFilter   db.TransactionFilter
	lastTotals   []db.TotalsFilter
}

func newStubLedger() *stubLedger {
	return &stubLedger{nextID: 1}
}

func (ledger *stubLedger) scopeFunc() LedgerScopeFunc {
	return func(userID uint) LedgerScope {
		return &stubLedgerScope{ledger: ledger, userID: userID}
	}
}

type stubLedgerScope struct {
	ledger *stubLedger
	userID uint
}

func (scope *stubLedgerScope) ListCategories() ([]models.Category, error) {
	result := make([]models.Category, 0)
	for _, category := range scope.ledger.categories {
		if category.UserID == scope.userID {
			result = append(result, category)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (scope *stubLedgerScope) FindCategory(categoryID uint) (models.Category, error) {
	for _, category := range scope.ledger.categories {
		if category.ID == categoryID && category.UserID == scope.userID {
			return category, nil
		}
	}
	return models.Category{}, gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) FindCategoryByName(name string) (models.Category, error) {
	for _, category := range scope.ledger.categories {
		if category.Name == name && category.UserID == scope.userID {
			return category, nil
		}
	}
	return models.Category{}, gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) CategoryExists(categoryID uint) (bool, error) {
	_, err := scope.FindCategory(categoryID)
	return err == nil, nil
}

func (scope *stubLedgerScope) CreateCategory(category *models.Category) error {
	category.ID = scope.ledger.nextID
	scope.ledger.nextID++
	category.UserID = scope.userID
	scope.ledger.categories = append(scope.ledger.categories, *category)
	return nil
}

func (scope *stubLedgerScope) SaveCategory(category *models.Category) error {
	for index, existing := range scope.ledger.categories {
		if existing.ID == category.ID && existing.UserID == scope.userID {
			category.UserID = scope.userID
			scope.ledger.categories[index] = *category
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) DeleteCategoryDetachingTransactions(categoryID uint) error {
	if _, err := scope.FindCategory(categoryID); err != nil {
		return err
	}
	for index, transaction := range scope.ledger.transactions {
		if transaction.UserID == scope.userID && transaction.CategoryID != nil && *transaction.CategoryID == categoryID {
			scope.ledger.transactions[index].CategoryID = nil
		}
	}
	kept := scope.ledger.categories[:0]
	for _, category := range scope.ledger.categories {
		if category.ID != categoryID {
			kept = append(kept, category)
		}
	}
	scope.ledger.categories = kept
	return nil
}

func (scope *stubLedgerScope) ListTransactions(filter db.TransactionFilter) ([]models.Transaction, error) {
	scope.ledger.lastFilter = filter
	result := make([]models.Transaction, 0)
	for _, transaction := range scope.ledger.transactions {
		if transaction.UserID == scope.userID {
			result = append(result, transaction)
		}
	}
	return result, nil
}

func (scope *stubLedgerScope) FindTransaction(transactionID uint) (models.Transaction, error) {
	for _, transaction := range scope.ledger.transactions {
		if transaction.ID == transactionID && transaction.UserID == scope.userID {
			return transaction, nil
		}
	}
	return models.Transaction{}, gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) CreateTransaction(transaction *models.Transaction) error {
	transaction.ID = scope.ledger.nextID
	scope.ledger.nextID++
	transaction.UserID = scope.userID
	scope.ledger.transactions = append(scope.ledger.transactions, *transaction)
	return nil
}

func (scope *stubLedgerScope) CreateTransactions(transactions []models.Transaction) error {
	for index := range transactions {
		if err := scope.CreateTransaction(&transactions[index]); err != nil {
			return err
		}
	}
	return nil
}

func (scope *stubLedgerScope) SaveTransaction(transaction *models.Transaction) error {
	for index, existing := range scope.ledger.transactions {
		if existing.ID == transaction.ID && existing.UserID == scope.userID {
			transaction.UserID = scope.userID
			scope.ledger.transactions[index] = *transaction
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) DeleteTransaction(transactionID uint) error {
	for index, existing := range scope.ledger.transactions {
		if existing.ID == transactionID && existing.UserID == scope.userID {
			scope.ledger.transactions = append(scope.ledger.transactions[:index], scope.ledger.transactions[index+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (scope *stubLedgerScope) ClearAll() (db.ClearResult, error) {
	result := db.ClearResult{}
	keptTransactions := make([]models.Transaction, 0)
	for _, transaction := range scope.ledger.transactions {
		if transaction.UserID == scope.userID {
			result.TransactionsDeleted++
			continue
		}
		keptTransactions = append(keptTransactions, transaction)
	}
	keptCategories := make([]models.Category, 0)
	for _, category := range scope.ledger.categories {
		if category.UserID == scope.userID {
			result.CategoriesDeleted++
			continue
		}
		keptCategories = append(keptCategories, category)
	}
	scope.ledger.transactions = keptTransactions
	scope.ledger.categories = keptCategories
	return result, nil
}

func (scope *stubLedgerScope) Totals(filter db.TotalsFilter) (db.Totals, error) {
	scope.ledger.lastTotals = append(scope.ledger.lastTotals, filter)
	totals := db.Totals{}
	for _, transaction := range scope.ledger.transactions {
		if transaction.UserID != scope.userID {
			continue
		}
		if filter.From != nil && transaction.Date.Before(*filter.From) {
			continue
		}
		if filter.Before != nil && !transaction.Date.Before(*filter.Before) {
			continue
		}
		if filter.UncategorizedOnly && transaction.CategoryID != nil {
			continue
		}
		addToTotals(&totals.Income, &totals.Expense, transaction)
	}
	return totals, nil
}

func (scope *stubLedgerScope) CategoryTotals() ([]db.CategoryTotal, error) {
	categories, _ := scope.ListCategories()
	rows := make([]db.CategoryTotal, 0, len(categories))
	for _, category := range categories {
		row := db.CategoryTotal{CategoryID: category.ID, CategoryName: category.Name}
		for _, transaction := range scope.ledger.transactions {
			if transaction.UserID == scope.userID && transaction.CategoryID != nil && *transaction.CategoryID == category.ID {
				addToTotals(&row.Income, &row.Expense, transaction)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func addToTotals(income *money.Amount, expense *money.Amount, transaction models.Transaction) {
	if transaction.Type == models.TransactionIncome {
		*income = income.Add(transaction.Amount)
		return
	}
	*expense = expense.Add(transaction.Amount)
}

func fixedClock(value time.Time) func() time.Time {
	return func() time.Time { return value }
}

func mustAmount(raw string) money.Amount {
	amount, err := money.Parse(raw)
	if err != nil {
		panic(err)
	}
	return amount
}
