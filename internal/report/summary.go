// Package report builds the monthly spending summary.
package report

import (
	"sort"

	"finance-tracker/internal/models"
	"finance-tracker/internal/util"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string        `json:"category"`
	Total    models.Amount `json:"total"`
}

// BudgetUtilization pairs a budget's limit with what was spent in its
// category during the month.
type BudgetUtilization struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	BudgetAmount models.Amount `json:"budget_amount"`
	Spent        models.Amount `json:"spent"`
}

type Summary struct {
	ByCategory        []CategoryTotal     `json:"byCategory"`
	BudgetUtilization []BudgetUtilization `json:"budgetUtilization"`
}

// InMonth keeps the transactions whose date string lies between
// "<month>-01" and "<month>-31" inclusive, compared as strings.
func InMonth(txs []models.Transaction, month string) []models.Transaction {
	start, end := util.MonthBounds(month)
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	return out
}

// Summarize aggregates txs (expected in list order, latest date first) and
// budgets for month.
//
// Category totals keep the order in which categories are first seen and are
// then stably sorted by total, largest first. A budget's spend is matched on
// the category name, not on the transactions' budget_id.
func Summarize(month string, txs []models.Transaction, budgets []models.Budget) Summary {
	filtered := InMonth(txs, month)

	byCategory := []CategoryTotal{}
	index := map[string]int{}
	for _, t := range filtered {
		i, ok := index[t.Category]
		if !ok {
			i = len(byCategory)
			index[t.Category] = i
			byCategory = append(byCategory, CategoryTotal{Category: t.Category})
		}
		byCategory[i].Total = byCategory[i].Total.Add(t.Amount)
	}
	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].Total.GreaterThan(byCategory[j].Total.Decimal)
	})

	utilization := make([]BudgetUtilization, 0, len(budgets))
	for _, b := range budgets {
		var spent models.Amount
		for _, t := range filtered {
			if t.Category == b.Category {
				spent = spent.Add(t.Amount)
			}
		}
		utilization = append(utilization, BudgetUtilization{
			ID:           b.ID,
			Name:         b.Name,
			Category:     b.Category,
			BudgetAmount: b.Amount,
			Spent:        spent,
		})
	}

	return Summary{ByCategory: byCategory, BudgetUtilization: utilization}
}
