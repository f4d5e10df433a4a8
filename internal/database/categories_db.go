package database

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateCategory(ctx context.Context, db Querier, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type, color) VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	err := db.QueryRow(ctx, query, category.UserID, category.Name, category.Type, category.Color).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %w", err)
	}
	return nil
}

func GetCategoryByID(ctx context.Context, db Querier, userID, categoryID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2`

	category := &models.Category{}
	err := db.QueryRow(ctx, query, categoryID, userID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Type,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категории: %w",
			notFound(err, "категория с ID %d не найдена", categoryID))
	}
	return category, nil
}

func GetCategoriesByUserID(ctx context.Context, db Querier, userID int) ([]models.Category, error) {
	query := `SELECT id, user_id, name, type, color, created_at FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type, &category.Color, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, db Querier, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, color = $3
		WHERE id = $4 AND user_id = $5`

	tag, err := db.Exec(ctx, query, category.Name, category.Type, category.Color, category.ID, category.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления категории: %w", err)
	}
	return checkAffected(tag, "категория с ID %d не найдена", category.ID)
}

func DeleteCategory(ctx context.Context, db Querier, userID, categoryID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %w", err)
	}
	return checkAffected(tag, "категория с ID %d не найдена", categoryID)
}
