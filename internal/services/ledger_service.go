package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/money"
	"gorm.io/gorm"
)

// LedgerScope is the per-user view of the ledger store. Implementations must
// never return or modify rows owned by another user.
type LedgerScope interface {
	ListCategories() ([]models.Category, error)
	FindCategory(categoryID uint) (models.Category, error)
	FindCategoryByName(name string) (models.Category, error)
	CategoryExists(categoryID uint) (bool, error)
	CreateCategory(category *models.Category) error
	SaveCategory(category *models.Category) error
	DeleteCategoryDetachingTransactions(categoryID uint) error

	ListTransactions(filter db.TransactionFilter) ([]models.Transaction, error)
	FindTransaction(transactionID uint) (models.Transaction, error)
	CreateTransaction(transaction *models.Transaction) error
	CreateTransactions(transactions []models.Transaction) error
	SaveTransaction(transaction *models.Transaction) error
	DeleteTransaction(transactionID uint) error

	ClearAll() (db.ClearResult, error)
	Totals(filter db.TotalsFilter) (db.Totals, error)
	CategoryTotals() ([]db.CategoryTotal, error)
}

// LedgerScopeFunc builds the scope for one authenticated user.
type LedgerScopeFunc func(userID uint) LedgerScope

func ScopeLedger(repo *db.LedgerRepository) LedgerScopeFunc {
	return func(userID uint) LedgerScope {
		return repo.Scope(userID)
	}
}

type LedgerService struct {
	scope LedgerScopeFunc
	now   func() time.Time
}

func NewLedgerService(scope LedgerScopeFunc) *LedgerService {
	return &LedgerService{scope: scope, now: time.Now}
}

type CategoryInput struct {
	Name  string
	Color *string
}

// CategoryPatch overwrites only the non-nil fields.
type CategoryPatch struct {
	Name  *string
	Color *string
}

func (service *LedgerService) ListCategories(userID uint) ([]models.Category, error) {
	categories, err := service.scope(userID).ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (service *LedgerService) CreateCategory(userID uint, input CategoryInput) (models.Category, error) {
	name, err := normalizeCategoryName(input.Name)
	if err != nil {
		return models.Category{}, err
	}
	color, err := normalizeCategoryColor(input.Color)
	if err != nil {
		return models.Category{}, err
	}

	category := models.Category{Name: name, Color: color}
	if err := service.scope(userID).CreateCategory(&category); err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (service *LedgerService) GetCategory(userID uint, categoryID uint) (models.Category, error) {
	category, err := service.scope(userID).FindCategory(categoryID)
	if err != nil {
		return models.Category{}, notFoundOr(err, "load category")
	}
	return category, nil
}

func (service *LedgerService) UpdateCategory(userID uint, categoryID uint, patch CategoryPatch) (models.Category, error) {
	scope := service.scope(userID)
	category, err := scope.FindCategory(categoryID)
	if err != nil {
		return models.Category{}, notFoundOr(err, "load category")
	}

	if patch.Name != nil {
		name, err := normalizeCategoryName(*patch.Name)
		if err != nil {
			return models.Category{}, err
		}
		category.Name = name
	}
	if patch.Color != nil {
		color, err := normalizeCategoryColor(patch.Color)
		if err != nil {
			return models.Category{}, err
		}
		category.Color = color
	}

	if err := scope.SaveCategory(&category); err != nil {
		return models.Category{}, notFoundOr(err, "update category")
	}
	return category, nil
}

// DeleteCategory detaches the owner's transactions from the category and
// removes it. Transactions are never deleted here.
func (service *LedgerService) DeleteCategory(userID uint, categoryID uint) error {
	if err := service.scope(userID).DeleteCategoryDetachingTransactions(categoryID); err != nil {
		return notFoundOr(err, "delete category")
	}
	return nil
}

type TransactionInput struct {
	CategoryID  *uint
	Type        string
	Amount      money.Amount
	Description *string
	Date        *time.Time
	IsPlanned   bool
}

// TransactionPatch overwrites only the fields that were supplied. CategoryIDSet
// with a nil CategoryID detaches the transaction from its category.
type TransactionPatch struct {
	CategoryIDSet bool
	CategoryID    *uint
	Type          *string
	Amount        *money.Amount
	Description   *string
	Date          *time.Time
	IsPlanned     *bool
}

type TransactionQuery struct {
	Type       string
	CategoryID *uint
	DateFrom   string
	DateTo     string
	Search     string
	Skip       int
	Limit      int
}

func (service *LedgerService) ListTransactions(userID uint, query TransactionQuery) ([]models.Transaction, error) {
	filter, err := buildTransactionFilter(query)
	if err != nil {
		return nil, err
	}

	transactions, err := service.scope(userID).ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

func buildTransactionFilter(query TransactionQuery) (db.TransactionFilter, error) {
	skip, limit, err := normalizePage(query.Skip, query.Limit)
	if err != nil {
		return db.TransactionFilter{}, err
	}
	filter := db.TransactionFilter{
		CategoryID: query.CategoryID,
		Search:     query.Search,
		Offset:     skip,
		Limit:      limit,
	}

	if query.Type != "" {
		kind, err := ParseTransactionType(query.Type)
		if err != nil {
			return db.TransactionFilter{}, err
		}
		filter.Type = kind
	}
	if query.DateFrom != "" {
		from, _, err := ParseDateParam("date_from", query.DateFrom)
		if err != nil {
			return db.TransactionFilter{}, err
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, dateOnly, err := ParseDateParam("date_to", query.DateTo)
		if err != nil {
			return db.TransactionFilter{}, err
		}
		if dateOnly {
			// A plain date includes the whole day.
			before := to.AddDate(0, 0, 1)
			filter.DateBefore = &before
		} else {
			filter.DateTo = &to
		}
	}
	return filter, nil
}

func (service *LedgerService) CreateTransaction(userID uint, input TransactionInput) (models.Transaction, error) {
	scope := service.scope(userID)

	kind, err := ParseTransactionType(input.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := ensureOwnedCategory(scope, input.CategoryID); err != nil {
		return models.Transaction{}, err
	}

	date := service.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	transaction := models.Transaction{
		CategoryID:  input.CategoryID,
		Type:        kind,
		Amount:      input.Amount,
		Description: description,
		Date:        date,
		IsPlanned:   input.IsPlanned,
	}
	if err := scope.CreateTransaction(&transaction); err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return transaction, nil
}

func (service *LedgerService) GetTransaction(userID uint, transactionID uint) (models.Transaction, error) {
	transaction, err := service.scope(userID).FindTransaction(transactionID)
	if err != nil {
		return models.Transaction{}, notFoundOr(err, "load transaction")
	}
	return transaction, nil
}

func (service *LedgerService) UpdateTransaction(userID uint, transactionID uint, patch TransactionPatch) (models.Transaction, error) {
	scope := service.scope(userID)
	transaction, err := scope.FindTransaction(transactionID)
	if err != nil {
		return models.Transaction{}, notFoundOr(err, "load transaction")
	}

	if patch.CategoryIDSet {
		if err := ensureOwnedCategory(scope, patch.CategoryID); err != nil {
			return models.Transaction{}, err
		}
		transaction.CategoryID = patch.CategoryID
	}
	if patch.Type != nil {
		kind, err := ParseTransactionType(*patch.Type)
		if err != nil {
			return models.Transaction{}, err
		}
		transaction.Type = kind
	}
	if patch.Amount != nil {
		transaction.Amount = *patch.Amount
	}
	if patch.Description != nil {
		description, err := normalizeDescription(patch.Description)
		if err != nil {
			return models.Transaction{}, err
		}
		transaction.Description = description
	}
	if patch.Date != nil {
		transaction.Date = patch.Date.UTC()
	}
	if patch.IsPlanned != nil {
		transaction.IsPlanned = *patch.IsPlanned
	}

	if err := scope.SaveTransaction(&transaction); err != nil {
		return models.Transaction{}, notFoundOr(err, "update transaction")
	}
	return transaction, nil
}

func (service *LedgerService) DeleteTransaction(userID uint, transactionID uint) error {
	if err := service.scope(userID).DeleteTransaction(transactionID); err != nil {
		return notFoundOr(err, "delete transaction")
	}
	return nil
}

type ClearResult struct {
	TransactionsDeleted int64 `json:"transactions_deleted"`
	CategoriesDeleted   int64 `json:"categories_deleted"`
}

// ClearAll deletes every transaction and category owned by the user.
func (service *LedgerService) ClearAll(userID uint) (ClearResult, error) {
	cleared, err := service.scope(userID).ClearAll()
	if err != nil {
		return ClearResult{}, fmt.Errorf("clear ledger: %w", err)
	}
	return ClearResult{
		TransactionsDeleted: cleared.TransactionsDeleted,
		CategoriesDeleted:   cleared.CategoriesDeleted,
	}, nil
}

func ensureOwnedCategory(scope LedgerScope, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	exists, err := scope.CategoryExists(*categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return ErrInvalidCategory
	}
	return nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}
