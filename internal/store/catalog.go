// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/petmatchdev/petmatch/internal/models"
)

const itemColumns = `item_id, product_id, category_id, name, description, list_price`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var item models.Item
	err := row.Scan(&item.ItemID, &item.ProductID, &item.CategoryID,
		&item.Name, &item.Description, &item.ListPrice)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) queryItems(ctx context.Context, q string, args ...any) ([]models.Item, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ListCategories returns all catalog categories ordered by ID.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT category_id, name, description FROM categories ORDER BY category_id`
	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// GetCategory returns one category, or ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	const q = `SELECT category_id, name, description FROM categories WHERE category_id = ?`
	var c models.Category
	err := s.conn.QueryRowContext(ctx, q, categoryID).Scan(&c.CategoryID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return &c, nil
}

// ListItems returns the full catalog ordered by item ID. The refresh
// orchestrator iterates this list.
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
}

// ListItemsByCategory returns the items of one category ordered by
// item ID.
func (s *Store) ListItemsByCategory(ctx context.Context, categoryID string) ([]models.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE category_id = ? ORDER BY item_id`, categoryID)
}

// GetItem returns one item, or (nil, nil) when the item does not
// exist. The scorer relies on the nil-without-error contract to treat
// unknown items as a neutral non-recommendation.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items WHERE item_id = ?`
	item, err := scanItem(s.conn.QueryRowContext(ctx, q, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	return item, nil
}

// SearchItems returns items whose name or description contains every
// keyword, case-insensitively. An empty keyword list matches nothing.
func (s *Store) SearchItems(ctx context.Context, keywords []string) ([]models.Item, error) {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			terms = append(terms, kw)
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + itemColumns + ` FROM items WHERE 1=1`)
	args := make([]any, 0, len(terms))
	for _, term := range terms {
		sb.WriteString(` AND (lower(name) LIKE ? OR lower(description) LIKE ?)`)
		pattern := "%" + strings.ToLower(term) + "%"
		args = append(args, pattern, pattern)
	}
	sb.WriteString(` ORDER BY item_id`)

	return s.queryItems(ctx, sb.String(), args...)
}

// UpsertCategory inserts or replaces a category. Catalog loading is an
// administrative operation, not part of the request path.
func (t *Tx) UpsertCategory(ctx context.Context, c models.Category) error {
	const q = `
		INSERT OR REPLACE INTO categories (category_id, name, description)
		VALUES (?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, q, c.CategoryID, c.Name, c.Description); err != nil {
		return fmt.Errorf("upsert category %s: %w", c.CategoryID, err)
	}
	return nil
}

// UpsertItem inserts or replaces a catalog item.
func (t *Tx) UpsertItem(ctx context.Context, item models.Item) error {
	const q = `
		INSERT OR REPLACE INTO items (item_id, product_id, category_id, name, description, list_price)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, q, item.ItemID, item.ProductID,
		item.CategoryID, item.Name, item.Description, item.ListPrice); err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ItemID, err)
	}
	return nil
}
