package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalActive   = "active"
	GoalAchieved = "achieved"
)

type Goal struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	TargetDate    time.Time       `json:"target_date" db:"target_date"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (g *Goal) RemainingAmount() decimal.Decimal {
	return g.Amount.Sub(g.CurrentAmount)
}

// Обновляет статус цели, если она достигнута
func (g *Goal) UpdateGoalStatus() error {
	if g.CurrentAmount.GreaterThanOrEqual(g.Amount) {
		g.Status = GoalAchieved
		return nil
	}
	return fmt.Errorf("цель не достигнута, еще необходимо %s", g.RemainingAmount().StringFixed(2))
}
