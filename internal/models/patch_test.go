package models

import (
	"encoding/json"
	"testing"
)

func decodePatch[T any](t *testing.T, raw string) T {
	t.Helper()
	var p T
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return p
}

func TestOptionalTracksPresence(t *testing.T) {
	cases := []struct {
		raw     string
		wantSet bool
		wantNil bool
	}{
		{`{}`, false, true},
		{`{"description":null}`, true, true},
		{`{"description":"lunch"}`, true, false},
		{`{"description":""}`, true, false},
	}
	for _, tc := range cases {
		p := decodePatch[TransactionPatch](t, tc.raw)
		if p.Description.Set != tc.wantSet || (p.Description.Value == nil) != tc.wantNil {
			t.Errorf("%s: set=%v value=%v", tc.raw, p.Description.Set, p.Description.Value)
		}
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var p TransactionPatch
	if err := json.Unmarshal([]byte(`{"budget_id":"seven"}`), &p); err == nil {
		t.Fatal("string budget_id accepted")
	}
}

func TestBudgetApplyKeepsUnsuppliedFields(t *testing.T) {
	start := "2024-01-01"
	b := NewBudget(1, 2, BudgetInput{Name: "Rent", Category: "Housing", Amount: NewAmount(1500), StartDate: start, EndDate: "2024-12-31"}, "2024-01-01T00:00:00.000Z")

	b.Apply(decodePatch[BudgetPatch](t, `{"name":"Flat"}`))

	if b.Name != "Flat" {
		t.Errorf("name = %q", b.Name)
	}
	if b.Category != "Housing" || b.Period != DefaultPeriod || b.Amount.String() != "1500" {
		t.Errorf("unsupplied fields changed: %+v", b)
	}
	if b.StartDate == nil || *b.StartDate != start || b.EndDate == nil {
		t.Errorf("absent dates must be kept, got %v %v", b.StartDate, b.EndDate)
	}
}

func TestBudgetApplyNullClearsDates(t *testing.T) {
	b := NewBudget(1, 2, BudgetInput{Name: "Rent", Category: "Housing", Amount: NewAmount(1500), StartDate: "2024-01-01", EndDate: "2024-12-31"}, "ts")

	b.Apply(decodePatch[BudgetPatch](t, `{"start_date":null,"end_date":"2025-01-31"}`))

	if b.StartDate != nil {
		t.Errorf("start_date = %q, want null", *b.StartDate)
	}
	if b.EndDate == nil || *b.EndDate != "2025-01-31" {
		t.Errorf("end_date = %v", b.EndDate)
	}
}

func TestTransactionApplyNullClearsLinks(t *testing.T) {
	trx := NewTransaction(1, 2, TransactionInput{BudgetID: 7, Category: "Rent", Description: "march", Amount: NewAmount(5000), Date: "2024-03-05"}, "ts")

	trx.Apply(decodePatch[TransactionPatch](t, `{"budget_id":null,"description":null}`))

	raw, _ := json.Marshal(trx)
	want := `{"id":1,"user_id":2,"budget_id":null,"category":"Rent","description":null,"amount":5000,"date":"2024-03-05","created_at":"ts"}`
	if string(raw) != want {
		t.Fatalf("json = %s\nwant  %s", raw, want)
	}
}

func TestTransactionApplySetsLinks(t *testing.T) {
	trx := NewTransaction(1, 2, TransactionInput{Category: "Rent", Amount: NewAmount(1), Date: "2024-03-05"}, "ts")

	trx.Apply(TransactionPatch{BudgetID: Some[int64](3), Description: Some("rent")})
	if trx.BudgetID == nil || *trx.BudgetID != 3 || trx.Description == nil || *trx.Description != "rent" {
		t.Fatalf("after set: %+v", trx)
	}

	trx.Apply(TransactionPatch{BudgetID: Null[int64]()})
	if trx.BudgetID != nil || trx.Description == nil {
		t.Fatalf("after clearing budget_id: %+v", trx)
	}
}
