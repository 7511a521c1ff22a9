package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jfcordoba/billetera/internal/database"
	"github.com/jfcordoba/billetera/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO categories (category_id, user_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		c.CategoryID, c.UserID, c.Name,
	).Scan(&c.CreatedAt)
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID, userID uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT category_id, user_id, name, created_at
		 FROM categories WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&c.CategoryID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category_id, user_id, name, created_at
		 FROM categories WHERE user_id = $1
		 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE category_id = $2 AND user_id = $3`,
		c.Name, c.CategoryID, c.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID, userID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM categories WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}
