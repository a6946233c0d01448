package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/db/dbmanager"
)

type marketCatalogDb struct {
	c dbmanager.Conn
}

func NewCatalogDb(conn dbmanager.Conn) *marketCatalogDb {
	return &marketCatalogDb{c: conn}
}

func (m *marketCatalogDb) conn() *sql.Conn {
	return m.c.Conn().(*sql.Conn)
}

func (m *marketCatalogDb) Close(ctx context.Context) {
	m.c.Close(ctx)
}

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// storeError maps low-level postgres failures onto the catalog error family.
func storeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return catalog.ErrConflict.Err(err)
		}
	}
	return catalog.ErrWriteFailure.Err(err)
}
