package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/jmoiron/sqlx"
)

// Postgres keeps the data in the cart_storage table.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `
	SELECT
		data
	FROM
		cart_storage
	WHERE
		key = $1`

	var data []byte
	if err := p.db.GetContext(ctx, &data, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cart.ErrNotStored
		}
		return nil, fmt.Errorf("selecting %s: %w", key, err)
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, key string, data []byte) error {
	const q = `
	INSERT INTO cart_storage
		(key, data, updated_at)
	VALUES
		(:key, :data, NOW())
	ON CONFLICT (key) DO UPDATE SET
		data = EXCLUDED.data,
		updated_at = NOW()`

	row := struct {
		Key  string `db:"key"`
		Data []byte `db:"data"`
	}{key, data}

	if _, err := p.db.NamedExecContext(ctx, q, row); err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	return nil
}
