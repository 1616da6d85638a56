package models

import "time"

// Collection names, used as keys of Data.Seq.
const (
	CollectionUsers        = "users"
	CollectionBudgets      = "budgets"
	CollectionTransactions = "transactions"
)

// TimestampLayout matches the ISO-8601 form with milliseconds, e.g.
// 2024-03-05T10:00:00.000Z. Stored timestamps sort lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Data is the whole persisted state of the JSON store.
type Data struct {
	Users        []User           `json:"users"`
	Budgets      []Budget         `json:"budgets"`
	Transactions []Transaction    `json:"transactions"`
	Seq          map[string]int64 `json:"seq"`
}

// NewData returns empty collections with every counter at 1.
func NewData() Data {
	return Data{
		Users:        []User{},
		Budgets:      []Budget{},
		Transactions: []Transaction{},
		Seq:          DefaultSeq(),
	}
}

func DefaultSeq() map[string]int64 {
	return map[string]int64{
		CollectionUsers:        1,
		CollectionBudgets:      1,
		CollectionTransactions: 1,
	}
}

// Sequence is the SQL form of one Data.Seq entry.
type Sequence struct {
	Collection string `gorm:"primaryKey;size:32"`
	Next       int64  `gorm:"not null"`
}
