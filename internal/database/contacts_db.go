package database

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateContact(ctx context.Context, db Querier, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (user_id, name, email, phone, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := db.QueryRow(ctx, query, contact.UserID, contact.Name, contact.Email, contact.Phone, contact.Note).
		Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении контакта: %w", err)
	}
	return nil
}

func GetContactByID(ctx context.Context, db Querier, userID, contactID int) (*models.Contact, error) {
	query := `SELECT id, user_id, name, email, phone, note, created_at FROM contacts WHERE id = $1 AND user_id = $2`
	contact := &models.Contact{}
	err := db.QueryRow(ctx, query, contactID, userID).Scan(
		&contact.ID, &contact.UserID, &contact.Name, &contact.Email, &contact.Phone, &contact.Note, &contact.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении контакта: %w", notFound(err, "контакт с ID %d не найден", contactID))
	}
	return contact, nil
}

func GetContactsByUserID(ctx context.Context, db Querier, userID int) ([]models.Contact, error) {
	query := `SELECT id, user_id, name, email, phone, note, created_at FROM contacts WHERE user_id = $1 ORDER BY name`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении контактов: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func UpdateContact(ctx context.Context, db Querier, contact *models.Contact) error {
	query := `UPDATE contacts SET name = $1, email = $2, phone = $3, note = $4 WHERE id = $5 AND user_id = $6`
	tag, err := db.Exec(ctx, query, contact.Name, contact.Email, contact.Phone, contact.Note, contact.ID, contact.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления контакта: %w", err)
	}
	return checkAffected(tag, "контакт с ID %d не найден", contact.ID)
}

func DeleteContact(ctx context.Context, db Querier, userID, contactID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, contactID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления контакта: %w", err)
	}
	return checkAffected(tag, "контакт с ID %d не найден", contactID)
}
