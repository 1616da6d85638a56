package report

import (
	"encoding/json"
	"testing"

	"finance-tracker/internal/models"
)

func tx(category string, amount float64, date string) models.Transaction {
	return models.Transaction{Category: category, Amount: models.NewAmount(amount), Date: date}
}

func TestSummarize_RentScenario(t *testing.T) {
	txs := []models.Transaction{
		tx("Rent", 3000, "2024-03-20"),
		tx("Rent", 5000, "2024-03-05"),
	}
	budgets := []models.Budget{
		{ID: 1, Name: "Rent", Category: "Rent", Amount: models.NewAmount(20000)},
	}

	got := Summarize("2024-03", txs, budgets)

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"byCategory":[{"category":"Rent","total":8000}],` +
		`"budgetUtilization":[{"id":1,"name":"Rent","category":"Rent","budget_amount":20000,"spent":8000}]}`
	if string(raw) != want {
		t.Fatalf("summary JSON\n got: %s\nwant: %s", raw, want)
	}
}

func TestInMonth_StringBounds(t *testing.T) {
	txs := []models.Transaction{
		tx("A", 1, "2024-02-31"), // not a real day, still inside the band
		tx("A", 1, "2024-02-01"),
		tx("A", 1, "2024-01-31"),
		tx("A", 1, "2024-03-01"),
		tx("A", 1, "2024-02-31T10:00:00Z"), // sorts after "2024-02-31"
	}

	got := InMonth(txs, "2024-02")
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2: %+v", len(got), got)
	}
	if got[0].Date != "2024-02-31" || got[1].Date != "2024-02-01" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSummarize_SortsDescendingAndKeepsTieOrder(t *testing.T) {
	txs := []models.Transaction{
		tx("Dining", 100, "2024-05-30"),
		tx("Fuel", 300, "2024-05-29"),
		tx("Gifts", 100, "2024-05-28"),
		tx("Dining", 50.5, "2024-05-02"),
		tx("Travel", 100, "2024-05-01"),
		tx("Fuel", 999, "2024-04-30"), // outside the month
	}

	got := Summarize("2024-05", txs, nil).ByCategory

	want := []struct {
		category string
		total    string
	}{
		{"Fuel", "300"},
		{"Dining", "150.5"},
		{"Gifts", "100"},
		{"Travel", "100"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Category != w.category || got[i].Total.String() != w.total {
			t.Errorf("row %d = %s/%s, want %s/%s", i, got[i].Category, got[i].Total, w.category, w.total)
		}
	}
}

func TestSummarize_MatchesBudgetsByCategoryNotBudgetID(t *testing.T) {
	other := int64(99)
	t1 := tx("Groceries", 40, "2024-06-10")
	t1.BudgetID = &other
	t2 := tx("Fuel", 25, "2024-06-11")
	budgets := []models.Budget{
		{ID: 2, Name: "Food", Category: "Groceries", Amount: models.NewAmount(500)},
		{ID: 3, Name: "Car", Category: "Fuel", Amount: models.NewAmount(100)},
		{ID: 4, Name: "Fun", Category: "Entertainment", Amount: models.NewAmount(50)},
	}

	got := Summarize("2024-06", []models.Transaction{t2, t1}, budgets).BudgetUtilization

	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	spent := map[int64]string{}
	for _, u := range got {
		spent[u.ID] = u.Spent.String()
	}
	if spent[2] != "40" || spent[3] != "25" || spent[4] != "0" {
		t.Fatalf("spent = %v", spent)
	}
	if got[0].ID != 2 || got[2].ID != 4 {
		t.Fatalf("budget order not preserved: %+v", got)
	}
}

func TestSummarize_EmptyMonth(t *testing.T) {
	got := Summarize("2030-01", nil, nil)
	raw, _ := json.Marshal(got)
	if string(raw) != `{"byCategory":[],"budgetUtilization":[]}` {
		t.Fatalf("empty summary = %s", raw)
	}
}
