package models

import (
	"encoding/json"
	"testing"
)

func TestAmountJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`5000`, `5000`},
		{`"5000"`, `5000`},
		{`12.50`, `12.5`},
		{`"-3.25"`, `-3.25`},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tc.in, err)
		}
		out, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(out) != tc.want {
			t.Errorf("%s -> %s, want %s", tc.in, out, tc.want)
		}
	}
}

func TestAmountRejectsNonNumeric(t *testing.T) {
	for _, in := range []string{`"abc"`, `"NaN"`, `true`} {
		var a Amount
		if err := json.Unmarshal([]byte(in), &a); err == nil {
			t.Errorf("Unmarshal(%s) accepted, got %s", in, a)
		}
	}
}

func TestAmountAddIsExact(t *testing.T) {
	a, _ := ParseAmount("0.1")
	b, _ := ParseAmount("0.2")
	if got := a.Add(b).String(); got != "0.3" {
		t.Fatalf("0.1 + 0.2 = %s", got)
	}
}

func TestTransactionDefaults(t *testing.T) {
	trx := NewTransaction(1, 2, TransactionInput{Category: "Food", Amount: NewAmount(3), Date: "2024-03-01"}, "ts")
	if trx.BudgetID != nil || trx.Description != nil {
		t.Fatalf("defaults = %+v", trx)
	}
	raw, _ := json.Marshal(trx)
	want := `{"id":1,"user_id":2,"budget_id":null,"category":"Food","description":null,"amount":3,"date":"2024-03-01","created_at":"ts"}`
	if string(raw) != want {
		t.Fatalf("json = %s\nwant  %s", raw, want)
	}
}

func TestPublicUserHidesHash(t *testing.T) {
	u := User{ID: 1, Email: "a@x", PasswordHash: "secret-hash"}
	raw, _ := json.Marshal(u.Public())
	if string(raw) != `{"id":1,"email":"a@x","name":null}` {
		t.Fatalf("public json = %s", raw)
	}
}
