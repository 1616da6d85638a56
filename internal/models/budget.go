package models

// DefaultPeriod is used when a budget is created without a period.
const DefaultPeriod = "monthly"

// Budget is a spending limit for one category, owned by one user.
type Budget struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    int64   `gorm:"index;not null" json:"user_id"`
	Name      string  `gorm:"size:128;not null" json:"name"`
	Category  string  `gorm:"size:64;index;not null" json:"category"`
	Amount    Amount  `gorm:"type:text;not null" json:"amount"`
	Period    string  `gorm:"size:32;not null" json:"period"`
	StartDate *string `gorm:"size:32" json:"start_date"`
	EndDate   *string `gorm:"size:32" json:"end_date"`
	CreatedAt string  `gorm:"size:32;index;not null" json:"created_at"`
}

// BudgetInput carries the fields of a new budget.
type BudgetInput struct {
	Name      string
	Category  string
	Amount    Amount
	Period    string
	StartDate string
	EndDate   string
}

// BudgetPatch lists the fields an update may replace. A nil pointer keeps
// the stored value; the nullable dates can also be cleared with null.
type BudgetPatch struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Amount    *Amount          `json:"amount"`
	Period    *string          `json:"period"`
	StartDate Optional[string] `json:"start_date"`
	EndDate   Optional[string] `json:"end_date"`
}

// NewBudget builds a budget from in, applying the creation defaults.
func NewBudget(id, userID int64, in BudgetInput, createdAt string) Budget {
	period := in.Period
	if period == "" {
		period = DefaultPeriod
	}
	return Budget{
		ID:        id,
		UserID:    userID,
		Name:      in.Name,
		Category:  in.Category,
		Amount:    in.Amount,
		Period:    period,
		StartDate: optional(in.StartDate),
		EndDate:   optional(in.EndDate),
		CreatedAt: createdAt,
	}
}

// Apply merges the supplied fields of p into b.
func (b *Budget) Apply(p BudgetPatch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	p.StartDate.apply(&b.StartDate)
	p.EndDate.apply(&b.EndDate)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
