package calculator

import "github.com/mmynk/famiglia/internal/models"

// CategoryTotal is the monthly total of one category bucket.
type CategoryTotal struct {
	Total float64
	Color string
}

// AggregateByCategory sums the monthly amounts of the given expenses per category name.
// Expenses without a category, or whose category no longer exists, go to the "Altro" bucket.
func AggregateByCategory(expenses []*models.RecurringExpense, categories []*models.Category) (map[string]*CategoryTotal, error) {
	byID := indexCategories(categories)
	totals := make(map[string]*CategoryTotal)

	for _, e := range expenses {
		monthly, err := MonthlyAmount(e)
		if err != nil {
			return nil, err
		}

		name, color := models.UncategorizedName, models.DefaultColor
		if c, ok := byID[e.CategoryID]; ok {
			name = c.Name
			if c.Color != "" {
				color = c.Color
			}
		}

		bucket, exists := totals[name]
		if !exists {
			bucket = &CategoryTotal{Color: color}
			totals[name] = bucket
		}
		bucket.Total += monthly
	}

	return totals, nil
}

func indexCategories(categories []*models.Category) map[string]*models.Category {
	byID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}
