package database

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/neofin/models"
)

const cardColumns = `id, user_id, account_id, name, last4, credit_limit, closing_day, due_day`

func CreateCard(ctx context.Context, db Querier, card *models.Card) error {
	query := `
		INSERT INTO cards (user_id, account_id, name, last4, credit_limit, closing_day, due_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := db.QueryRow(ctx, query, card.UserID, card.AccountID, card.Name, card.Last4, card.CreditLimit, card.ClosingDay, card.DueDay).
		Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении карты: %w", err)
	}
	return nil
}

func GetCardByID(ctx context.Context, db Querier, userID, cardID int) (*models.Card, error) {
	card := &models.Card{}
	err := db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1 AND user_id = $2`, cardID, userID).Scan(
		&card.ID, &card.UserID, &card.AccountID, &card.Name, &card.Last4, &card.CreditLimit, &card.ClosingDay, &card.DueDay,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении карты: %w", notFound(err, "карта с ID %d не найдена", cardID))
	}
	return card, nil
}

func GetCardsByUserID(ctx context.Context, db Querier, userID int) ([]models.Card, error) {
	rows, err := db.Query(ctx, `SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении карт: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.UserID, &c.AccountID, &c.Name, &c.Last4, &c.CreditLimit, &c.ClosingDay, &c.DueDay); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func UpdateCard(ctx context.Context, db Querier, card *models.Card) error {
	query := `
		UPDATE cards
		SET account_id = $1, name = $2, last4 = $3, credit_limit = $4, closing_day = $5, due_day = $6
		WHERE id = $7 AND user_id = $8`
	tag, err := db.Exec(ctx, query, card.AccountID, card.Name, card.Last4, card.CreditLimit, card.ClosingDay, card.DueDay, card.ID, card.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления карты: %w", err)
	}
	return checkAffected(tag, "карта с ID %d не найдена", card.ID)
}

func DeleteCard(ctx context.Context, db Querier, userID, cardID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM cards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления карты: %w", err)
	}
	return checkAffected(tag, "карта с ID %d не найдена", cardID)
}
