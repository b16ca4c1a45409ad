// Package postgres provides a durable deal store backed by PostgreSQL.
// Per-deal atomicity for Update comes from SELECT ... FOR UPDATE inside a
// transaction.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}

	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert implements deal.Store.
func (s *Store) Insert(ctx context.Context, d *models.Deal) error {
	if d == nil || d.ID == "" {
		return deal.ErrInvalidInput
	}

	analysis, err := marshalAnalysis(d.Analysis)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO deals (
            id, status, seller_address, buyer_address, token_id, token_symbol,
            token_amount, price_per_token, discount, lock_period,
            total_cost, market_value, created_at, funded_at, unlock_at, analysis
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
        )
    `

	_, err = s.db.ExecContext(ctx, query,
		d.ID,
		d.Status,
		d.SellerAddress,
		nullString(d.BuyerAddress),
		d.TokenID,
		d.TokenSymbol,
		d.TokenAmount,
		d.PricePerToken,
		d.Discount,
		d.LockPeriod,
		d.TotalCost,
		d.MarketValue,
		d.CreatedAt,
		nullTime(d.FundedAt),
		nullTime(d.UnlockAt),
		analysis,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}
	return nil
}

// Get implements deal.Store.
func (s *Store) Get(ctx context.Context, id string) (*models.Deal, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+` WHERE id = $1`, id)

	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, deal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	return d, nil
}

// List implements deal.Store.
func (s *Store) List(ctx context.Context, status string) ([]*models.Deal, error) {
	query := selectQuery
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var result []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deal rows: %w", err)
	}
	return result, nil
}

// Update implements deal.Store. The row lock taken by FOR UPDATE serializes
// concurrent transitions on the same deal.
func (s *Store) Update(ctx context.Context, id string, mutate func(*models.Deal) error) (*models.Deal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectQuery+` WHERE id = $1 FOR UPDATE`, id)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, deal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if err := mutate(d); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE deals SET
            status = $2, buyer_address = $3, funded_at = $4, unlock_at = $5
        WHERE id = $1
    `, d.ID, d.Status, nullString(d.BuyerAddress), nullTime(d.FundedAt), nullTime(d.UnlockAt))
	if err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return d, nil
}

const selectQuery = `
        SELECT id, status, seller_address, buyer_address, token_id, token_symbol,
               token_amount, price_per_token, discount, lock_period,
               total_cost, market_value, created_at, funded_at, unlock_at, analysis
        FROM deals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	var (
		d        models.Deal
		buyer    sql.NullString
		fundedAt sql.NullTime
		unlockAt sql.NullTime
		analysis []byte
	)

	err := row.Scan(
		&d.ID,
		&d.Status,
		&d.SellerAddress,
		&buyer,
		&d.TokenID,
		&d.TokenSymbol,
		&d.TokenAmount,
		&d.PricePerToken,
		&d.Discount,
		&d.LockPeriod,
		&d.TotalCost,
		&d.MarketValue,
		&d.CreatedAt,
		&fundedAt,
		&unlockAt,
		&analysis,
	)
	if err != nil {
		return nil, err
	}

	d.BuyerAddress = buyer.String
	if fundedAt.Valid {
		t := fundedAt.Time
		d.FundedAt = &t
	}
	if unlockAt.Valid {
		t := unlockAt.Time
		d.UnlockAt = &t
	}
	if len(analysis) > 0 {
		var a models.TokenAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		d.Analysis = &a
	}

	return &d, nil
}

func marshalAnalysis(a *models.TokenAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return data, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *Store) initTables() error {
	query := `CREATE TABLE IF NOT EXISTS deals (
		id VARCHAR(64) PRIMARY KEY,
		status VARCHAR(20) NOT NULL,
		seller_address VARCHAR(100) NOT NULL,
		buyer_address VARCHAR(100),
		token_id VARCHAR(100) NOT NULL,
		token_symbol VARCHAR(50) NOT NULL,
		token_amount NUMERIC(24, 8) NOT NULL,
		price_per_token NUMERIC(18, 8) NOT NULL,
		discount NUMERIC(10, 4) NOT NULL,
		lock_period INT NOT NULL,
		total_cost NUMERIC(24, 8) NOT NULL,
		market_value NUMERIC(24, 8) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		funded_at TIMESTAMP,
		unlock_at TIMESTAMP,
		analysis JSONB
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}
