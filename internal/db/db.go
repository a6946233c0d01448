package db

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/db/dbmanager"
	"github.com/zkmarket/mintworkersrv/internal/db/postgresql"
)

var pool dbmanager.Pool

// Init creates the process-wide connection pool. Called once from main (and
// from test setup); later DB calls hand out connections from it.
func Init(ctx context.Context, dsn string) error {
	pg := dbmanager.NewPool(ctx, "postgresql", dsn)
	if pg == nil {
		return catalog.ErrWriteFailure.Msg("unable to create db pool")
	}
	pool = pg
	return nil
}

func Conn(ctx context.Context) dbmanager.Conn {
	if pool != nil {
		conn, err := pool.Conn(ctx)
		if err == nil {
			return conn
		}
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
	}
	return nil
}

type ctxDbKeyType string

const ctxDbKey ctxDbKeyType = "MintWorkerDb"

func ConnCtx(ctx context.Context) context.Context {
	conn := Conn(ctx)
	return context.WithValue(ctx, ctxDbKey, conn)
}

// DB returns the catalog store bound to the connection carried by the context.
func DB(ctx context.Context) catalog.Store {
	if conn, ok := ctx.Value(ctxDbKey).(dbmanager.Conn); ok {
		return postgresql.NewCatalogDb(conn)
	}
	log.Ctx(ctx).Error().Msg("unable to get db connection from context")
	return nil
}
