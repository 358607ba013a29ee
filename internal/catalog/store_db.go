package catalog

import (
	"context"
	_ "embed"
	"time"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	writeTimeout = 10 * time.Second
)

//go:embed schema.sql
var Schema string

// NewPool opens a pgx pool with shopspring/decimal registered for NUMERIC.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	return pool, nil
}

// PostgresSource reads the catalog from the products table. It is consulted
// once at startup; the loaded catalog never sees later table changes.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

func (s *PostgresSource) Load(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, `
			SELECT id, name, short_description, long_description, price, image_url, rating
			FROM products
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var (
				p   Product
				img *string
			)
			if err := rows.Scan(&p.ID, &p.Name, &p.ShortDescription, &p.LongDescription, &p.Price, &img, &p.Rating); err != nil {
				return err
			}
			if img != nil {
				p.ImageURL = *img
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return out, nil
}

// Migrate creates the products table when missing.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	return withTimeout(ctx, writeTimeout, func(ctx context.Context) error {
		if _, err := s.pool.Exec(ctx, Schema); err != nil {
			return errors.Wrap(err, "apply schema")
		}
		return nil
	})
}

// Upsert writes products in one transaction, keeping slice order as the
// catalog order.
func (s *PostgresSource) Upsert(ctx context.Context, products []Product) error {
	return withTimeout(ctx, writeTimeout, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return errors.Wrap(err, "begin")
		}
		defer func() { _ = tx.Rollback(ctx) }()

		for i, p := range products {
			if err := validate(p); err != nil {
				return err
			}

			var img *string
			if p.ImageURL != "" {
				img = &p.ImageURL
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO products (id, position, name, short_description, long_description, price, image_url, rating)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (id) DO UPDATE SET
					position = EXCLUDED.position,
					name = EXCLUDED.name,
					short_description = EXCLUDED.short_description,
					long_description = EXCLUDED.long_description,
					price = EXCLUDED.price,
					image_url = EXCLUDED.image_url,
					rating = EXCLUDED.rating
			`, p.ID, i, p.Name, p.ShortDescription, p.LongDescription, p.Price, img, p.Rating)
			if err != nil {
				return errors.Wrapf(err, "upsert product %q", p.ID)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return errors.Wrap(err, "commit")
		}
		return nil
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
