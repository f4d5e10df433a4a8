package models

import "time"

type TransactionHistory struct {
	Transaction
	ArchivedAt time.Time `json:"archived_at" db:"archived_at"`
}
