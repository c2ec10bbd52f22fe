package db

import (
	"strings"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/money"
	"gorm.io/gorm"
)

// LedgerRepository hands out per-user views of categories and transactions.
// There is no unscoped accessor: every query goes through a LedgerScope.
type LedgerRepository struct {
	database *gorm.DB
}

func NewLedgerRepository(database *gorm.DB) *LedgerRepository {
	return &LedgerRepository{database: database}
}

func (repo *LedgerRepository) Scope(userID uint) *LedgerScope {
	return &LedgerScope{database: repo.database, userID: userID}
}

// LedgerScope reads and writes only rows owned by a single user.
type LedgerScope struct {
	database *gorm.DB
	userID   uint
}

type TransactionFilter struct {
	Type       models.TransactionType
	CategoryID *uint
	DateFrom   *time.Time
	DateTo     *time.Time
	DateBefore *time.Time
	Search     string
	Offset     int
	Limit      int
}

type TotalsFilter struct {
	From              *time.Time
	Before            *time.Time
	UncategorizedOnly bool
}

type Totals struct {
	Income  money.Amount
	Expense money.Amount
}

type CategoryTotal struct {
	CategoryID   uint
	CategoryName string
	Income       money.Amount
	Expense      money.Amount
}

type ClearResult struct {
	TransactionsDeleted int64
	CategoriesDeleted   int64
}

func (scope *LedgerScope) ListCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := scope.database.
		Where("user_id = ?", scope.userID).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (scope *LedgerScope) FindCategory(categoryID uint) (models.Category, error) {
	var category models.Category
	if err := scope.database.
		Where("id = ? AND user_id = ?", categoryID, scope.userID).
		First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (scope *LedgerScope) FindCategoryByName(name string) (models.Category, error) {
	var category models.Category
	if err := scope.database.
		Where("user_id = ? AND name = ?", scope.userID, name).
		Order("id ASC").
		First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (scope *LedgerScope) CategoryExists(categoryID uint) (bool, error) {
	var matched int64
	if err := scope.database.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, scope.userID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (scope *LedgerScope) CreateCategory(category *models.Category) error {
	category.UserID = scope.userID
	return scope.database.Create(category).Error
}

// SaveCategory overwrites name and color. It returns gorm.ErrRecordNotFound
// when the row does not exist or belongs to someone else.
func (scope *LedgerScope) SaveCategory(category *models.Category) error {
	category.UserID = scope.userID
	category.UpdatedAt = scope.database.NowFunc()
	result := scope.database.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", category.ID, scope.userID).
		Updates(map[string]any{
			"name":       category.Name,
			"color":      category.Color,
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategoryDetachingTransactions clears category_id on the owner's
// transactions and removes the category in one database transaction.
func (scope *LedgerScope) DeleteCategoryDetachingTransactions(categoryID uint) error {
	return scope.database.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, scope.userID).First(&category).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", scope.userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", categoryID, scope.userID).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (scope *LedgerScope) ListTransactions(filter TransactionFilter) ([]models.Transaction, error) {
	query := scope.database.Where("user_id = ?", scope.userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", filter.DateTo.UTC())
	}
	if filter.DateBefore != nil {
		query = query.Where("date < ?", filter.DateBefore.UTC())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(`description LIKE ? ESCAPE '\'`, "%"+escapeLikePattern(search)+"%")
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	transactions := make([]models.Transaction, 0)
	if err := query.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (scope *LedgerScope) FindTransaction(transactionID uint) (models.Transaction, error) {
	var transaction models.Transaction
	if err := scope.database.
		Where("id = ? AND user_id = ?", transactionID, scope.userID).
		First(&transaction).Error; err != nil {
		return models.Transaction{}, err
	}
	return transaction, nil
}

func (scope *LedgerScope) CreateTransaction(transaction *models.Transaction) error {
	transaction.UserID = scope.userID
	transaction.Date = transaction.Date.UTC()
	return scope.database.Create(transaction).Error
}

func (scope *LedgerScope) CreateTransactions(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	for index := range transactions {
		transactions[index].UserID = scope.userID
		transactions[index].Date = transactions[index].Date.UTC()
	}
	return scope.database.Create(&transactions).Error
}

// SaveTransaction overwrites every mutable column of an owned transaction.
func (scope *LedgerScope) SaveTransaction(transaction *models.Transaction) error {
	transaction.UserID = scope.userID
	transaction.Date = transaction.Date.UTC()
	transaction.UpdatedAt = scope.database.NowFunc()
	result := scope.database.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, scope.userID).
		Updates(map[string]any{
			"category_id":  transaction.CategoryID,
			"type":         transaction.Type,
			"amount_cents": transaction.Amount,
			"description":  transaction.Description,
			"date":         transaction.Date,
			"is_planned":   transaction.IsPlanned,
			"updated_at":   transaction.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (scope *LedgerScope) DeleteTransaction(transactionID uint) error {
	result := scope.database.
		Where("id = ? AND user_id = ?", transactionID, scope.userID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearAll removes the owner's transactions, then their categories.
func (scope *LedgerScope) ClearAll() (ClearResult, error) {
	var cleared ClearResult
	err := scope.database.Transaction(func(tx *gorm.DB) error {
		transactions := tx.Where("user_id = ?", scope.userID).Delete(&models.Transaction{})
		if transactions.Error != nil {
			return transactions.Error
		}
		categories := tx.Where("user_id = ?", scope.userID).Delete(&models.Category{})
		if categories.Error != nil {
			return categories.Error
		}
		cleared = ClearResult{
			TransactionsDeleted: transactions.RowsAffected,
			CategoriesDeleted:   categories.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return ClearResult{}, err
	}
	return cleared, nil
}

const sumByTypeColumns = `COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income_cents,
COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS expense_cents`

type totalsRow struct {
	IncomeCents  int64 `gorm:"column:income_cents"`
	ExpenseCents int64 `gorm:"column:expense_cents"`
}

// Totals sums income and expense cents over the owner's transactions.
func (scope *LedgerScope) Totals(filter TotalsFilter) (Totals, error) {
	query := scope.database.Model(&models.Transaction{}).
		Select(sumByTypeColumns).
		Where("user_id = ?", scope.userID)
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.Before != nil {
		query = query.Where("date < ?", filter.Before.UTC())
	}
	if filter.UncategorizedOnly {
		query = query.Where("category_id IS NULL")
	}

	var row totalsRow
	if err := query.Scan(&row).Error; err != nil {
		return Totals{}, err
	}
	return Totals{
		Income:  money.FromCents(row.IncomeCents),
		Expense: money.FromCents(row.ExpenseCents),
	}, nil
}

type categoryTotalsRow struct {
	CategoryID   uint   `gorm:"column:category_id"`
	CategoryName string `gorm:"column:category_name"`
	IncomeCents  int64  `gorm:"column:income_cents"`
	ExpenseCents int64  `gorm:"column:expense_cents"`
}

// CategoryTotals returns one row per owned category, including categories
// with no transactions, ordered by name.
func (scope *LedgerScope) CategoryTotals() ([]CategoryTotal, error) {
	const query = `
SELECT c.id AS category_id,
  c.name AS category_name,
  COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount_cents ELSE 0 END), 0) AS income_cents,
  COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount_cents ELSE 0 END), 0) AS expense_cents
FROM categories c
LEFT JOIN transactions t ON t.category_id = c.id AND t.user_id = c.user_id
WHERE c.user_id = ?
GROUP BY c.id, c.name
ORDER BY c.name ASC, c.id ASC`

	rows := make([]categoryTotalsRow, 0)
	if err := scope.database.Raw(query, scope.userID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, CategoryTotal{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Income:       money.FromCents(row.IncomeCents),
			Expense:      money.FromCents(row.ExpenseCents),
		})
	}
	return totals, nil
}

func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
