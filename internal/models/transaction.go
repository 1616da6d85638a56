package models

// Transaction is a single spend (or income) entry. BudgetID is a free
// reference and is not checked against the owner's budgets.
type Transaction struct {
	ID          int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID      int64   `gorm:"index;not null" json:"user_id"`
	BudgetID    *int64  `gorm:"index" json:"budget_id"`
	Category    string  `gorm:"size:64;index;not null" json:"category"`
	Description *string `gorm:"size:255" json:"description"`
	Amount      Amount  `gorm:"type:text;not null" json:"amount"`
	Date        string  `gorm:"size:32;index;not null" json:"date"`
	CreatedAt   string  `gorm:"size:32;not null" json:"created_at"`
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	BudgetID    int64
	Category    string
	Description string
	Amount      Amount
	Date        string
}

// TransactionPatch lists the fields an update may replace. A nil pointer
// keeps the stored value; budget_id and description can also be cleared
// with null.
type TransactionPatch struct {
	BudgetID    Optional[int64]  `json:"budget_id"`
	Category    *string          `json:"category"`
	Description Optional[string] `json:"description"`
	Amount      *Amount          `json:"amount"`
	Date        *string          `json:"date"`
}

// NewTransaction builds a transaction from in, applying the creation defaults.
func NewTransaction(id, userID int64, in TransactionInput, createdAt string) Transaction {
	var budgetID *int64
	if in.BudgetID != 0 {
		b := in.BudgetID
		budgetID = &b
	}
	return Transaction{
		ID:          id,
		UserID:      userID,
		BudgetID:    budgetID,
		Category:    in.Category,
		Description: optional(in.Description),
		Amount:      in.Amount,
		Date:        in.Date,
		CreatedAt:   createdAt,
	}
}

// Apply merges the supplied fields of p into t.
func (t *Transaction) Apply(p TransactionPatch) {
	p.BudgetID.apply(&t.BudgetID)
	if p.Category != nil {
		t.Category = *p.Category
	}
	p.Description.apply(&t.Description)
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
}
