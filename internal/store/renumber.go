package store

import (
	"finance-tracker/internal/models"
)

// Renumber prepares restored records for userID: each gets a fresh id from
// next, ownership is forced to userID, and transaction budget references
// that point at one of the restored budgets follow it to its new id.
// References to budgets outside the set are kept as they are.
func Renumber(userID int64, budgets []models.Budget, txs []models.Transaction, next func(collection string) (int64, error)) ([]models.Budget, []models.Transaction, error) {
	outB := make([]models.Budget, 0, len(budgets))
	remap := make(map[int64]int64, len(budgets))
	for _, b := range budgets {
		id, err := next(models.CollectionBudgets)
		if err != nil {
			return nil, nil, err
		}
		remap[b.ID] = id
		b.ID = id
		b.UserID = userID
		outB = append(outB, b)
	}

	outT := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		id, err := next(models.CollectionTransactions)
		if err != nil {
			return nil, nil, err
		}
		t.ID = id
		t.UserID = userID
		if t.BudgetID != nil {
			if nid, ok := remap[*t.BudgetID]; ok {
				t.BudgetID = &nid
			}
		}
		outT = append(outT, t)
	}
	return outB, outT, nil
}
