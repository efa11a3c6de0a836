package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/dynamic-query-go/query"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	ProductTable = "products"
)

type Product struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Status    string
	Price     decimal.Decimal
	Quantity  int64
	Rating    float64
	Available bool
	CreatedAt time.Time
}

// ProductFields is the field table of Product. Code and Name take part in quick search.
func ProductFields() query.Fields[Product] {
	return query.MustNewFields(
		query.GUIDField("id", func(p Product) uuid.UUID { return p.ID }),
		query.TextField("code", func(p Product) string { return p.Code }).Searchable(),
		query.TextField("name", func(p Product) string { return p.Name }).Searchable(),
		query.EnumField("status", func(p Product) string { return p.Status }, StatusActive, StatusInactive),
		query.DecimalField("price", func(p Product) decimal.Decimal { return p.Price }),
		query.IntegerField("quantity", func(p Product) int64 { return p.Quantity }),
		query.FloatField("rating", func(p Product) float64 { return p.Rating }),
		query.BooleanField("available", func(p Product) bool { return p.Available }),
		query.DateTimeField("createdAt", func(p Product) time.Time { return p.CreatedAt }).WithColumn("created_at"),
	)
}

// ProductColumns lists the table columns in ScanProduct order.
func ProductColumns() []string {
	return []string{"id", "code", "name", "status", "price", "quantity", "rating", "available", "created_at"}
}

// ProductTableSQLite creates the products table in SQLite.
const ProductTableSQLite = `CREATE TABLE products (
	id         TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL,
	price      NUMERIC NOT NULL,
	quantity   INTEGER NOT NULL,
	rating     REAL NOT NULL,
	available  BOOLEAN NOT NULL,
	created_at DATETIME NOT NULL
)`

// ProductTablePostgres creates the products table in PostgreSQL.
const ProductTablePostgres = `CREATE TABLE IF NOT EXISTS products (
	id         UUID PRIMARY KEY,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL,
	price      NUMERIC(12, 2) NOT NULL,
	quantity   BIGINT NOT NULL,
	rating     DOUBLE PRECISION NOT NULL,
	available  BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// ScanProduct is the sqlstore.RowScanner for ProductColumns.
func ScanProduct(scan func(dest ...any) error) (Product, error) {
	var p Product

	err := scan(&p.ID, &p.Code, &p.Name, &p.Status, &p.Price, &p.Quantity, &p.Rating, &p.Available, &p.CreatedAt)
	if err != nil {
		return Product{}, err
	}

	p.CreatedAt = p.CreatedAt.UTC()

	return p, nil
}

// InsertArgs returns the values of p in ProductColumns order.
func (p Product) InsertArgs() []any {
	return []any{p.ID, p.Code, p.Name, p.Status, p.Price, p.Quantity, p.Rating, p.Available, p.CreatedAt}
}
