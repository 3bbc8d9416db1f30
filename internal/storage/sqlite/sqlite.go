// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite would otherwise report SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	bill.UpdatedAt = bill.CreatedAt
	if bill.Title == "" {
		bill.Title = generateTitle(time.Unix(bill.CreatedAt, 0))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cfg := bill.Config
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bills (id, title, currency, step, tax_percent, tax_included,
			tip_type, tip_percent, tip_amount, tip_voluntary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.Currency, bill.Step,
		cfg.TaxPercent, cfg.TaxIncluded, string(cfg.TipType), cfg.TipPercent, cfg.TipAmount, cfg.TipIsVoluntary,
		bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateBill overwrites the bill row and replaces its people, items and
// assignments in one transaction.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	bill.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cfg := bill.Config
	res, err := tx.ExecContext(ctx, `
		UPDATE bills SET title = ?, currency = ?, step = ?, tax_percent = ?, tax_included = ?,
			tip_type = ?, tip_percent = ?, tip_amount = ?, tip_voluntary = ?, updated_at = ?
		WHERE id = ?`,
		bill.Title, bill.Currency, bill.Step, cfg.TaxPercent, cfg.TaxIncluded,
		string(cfg.TipType), cfg.TipPercent, cfg.TipAmount, cfg.TipIsVoluntary, bill.UpdatedAt,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, bill.ID)
	}

	// Assignments go with their items via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear people: %w", err)
	}

	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i, p := range bill.People {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO people (bill_id, id, position, name, color) VALUES (?, ?, ?, ?, ?)",
			bill.ID, p.ID, i, p.Name, p.Color,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, position, name, unit_price, quantity) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, bill.ID, i, item.Name, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, personID := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO item_assignments (item_id, person_id) VALUES (?, ?)",
				item.ID, personID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}

// GetBill retrieves a bill by ID, including people, items and assignments.
// People and items come back in insertion order; assignees follow people order.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var tipType string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, currency, step, tax_percent, tax_included,
			tip_type, tip_percent, tip_amount, tip_voluntary, created_at, updated_at
		FROM bills WHERE id = ?`,
		billID,
	).Scan(
		&bill.ID, &bill.Title, &bill.Currency, &bill.Step,
		&bill.Config.TaxPercent, &bill.Config.TaxIncluded,
		&tipType, &bill.Config.TipPercent, &bill.Config.TipAmount, &bill.Config.TipIsVoluntary,
		&bill.CreatedAt, &bill.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Config.TipType = models.TipType(tipType)

	if bill.People, err = s.getPeople(ctx, billID); err != nil {
		return nil, err
	}
	if bill.Items, err = s.getItems(ctx, billID); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *SQLiteStore) getPeople(ctx context.Context, billID string) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color FROM people WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

func (s *SQLiteStore) getItems(ctx context.Context, billID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit_price, quantity FROM items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	var items []models.Item
	index := make(map[string]int)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// Joining on people drops assignees that are no longer on the bill.
	assignRows, err := s.db.QueryContext(ctx, `
		SELECT a.item_id, a.person_id
		FROM item_assignments a
		JOIN items i ON i.id = a.item_id
		JOIN people p ON p.bill_id = i.bill_id AND p.id = a.person_id
		WHERE i.bill_id = ?
		ORDER BY i.position, p.position`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var itemID, personID string
		if err := assignRows.Scan(&itemID, &personID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].AssignedTo = append(items[i].AssignedTo, personID)
		}
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return items, nil
}

// generateTitle names an untitled bill after the day it was created.
func generateTitle(created time.Time) string {
	return fmt.Sprintf("Bill - %s", created.Format("Jan 2, 2006"))
}
