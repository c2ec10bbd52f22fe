package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/money"
	"gorm.io/gorm"
)

const (
	demoTransactionCount = 12
	demoWindowDays       = 45
)

type SeedResult struct {
	CategoriesCreated   int `json:"categories_created"`
	TransactionsCreated int `json:"transactions_created"`
}

// DemoService fills an account with sample data for manual testing. It is
// shared by concurrent requests, so intN must be safe for concurrent use.
type DemoService struct {
	scope LedgerScopeFunc
	now   func() time.Time
	intN  func(n int) int
}

func NewDemoService(scope LedgerScopeFunc) *DemoService {
	return &DemoService{
		scope: scope,
		now:   time.Now,
		intN:  rand.IntN,
	}
}

// SeedDemo creates the default categories the user does not have yet and adds
// random transactions dated within the last 45 days.
func (service *DemoService) SeedDemo(userID uint) (SeedResult, error) {
	scope := service.scope(userID)
	result := SeedResult{}

	categories := make([]models.Category, 0, len(models.DefaultDemoCategories()))
	for _, preset := range models.DefaultDemoCategories() {
		category, err := scope.FindCategoryByName(preset.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			color := preset.Color
			category = models.Category{Name: preset.Name, Color: &color}
			if err := scope.CreateCategory(&category); err != nil {
				return SeedResult{}, fmt.Errorf("create demo category: %w", err)
			}
			result.CategoriesCreated++
		} else if err != nil {
			return SeedResult{}, fmt.Errorf("load demo category: %w", err)
		}
		categories = append(categories, category)
	}

	now := service.now().UTC()
	transactions := make([]models.Transaction, 0, demoTransactionCount)
	for index := 0; index < demoTransactionCount; index++ {
		category := categories[service.intN(len(categories))]
		kind := models.TransactionExpense
		if service.intN(2) == 0 {
			kind = models.TransactionIncome
		}

		categoryID := category.ID
		description := fmt.Sprintf("Demo %s #%d", category.Name, index+1)
		transactions = append(transactions, models.Transaction{
			CategoryID:  &categoryID,
			Type:        kind,
			Amount:      service.randomAmount(kind),
			Description: &description,
			Date:        now.AddDate(0, 0, -service.intN(demoWindowDays+1)),
		})
	}
	if err := scope.CreateTransactions(transactions); err != nil {
		return SeedResult{}, fmt.Errorf("create demo transactions: %w", err)
	}
	result.TransactionsCreated = len(transactions)
	return result, nil
}

// randomAmount returns 10-500 for income and 10-200 for expenses, in cents.
func (service *DemoService) randomAmount(kind models.TransactionType) money.Amount {
	maxUnits := int64(200)
	if kind == models.TransactionIncome {
		maxUnits = 500
	}
	const minCents = 10 * 100
	return money.FromCents(minCents + int64(service.intN(int(maxUnits*100-minCents+1))))
}
