package dbmanager

import (
	"context"
	"database/sql"
	"sync/atomic"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"
)

type postgresqlPool struct {
	db       *sql.DB
	requests uint64
	returns  uint64
}

func NewPostgresqlPool(dsn string) (Pool, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresqlPool{db: db}, nil
}

func (p *postgresqlPool) Conn(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	atomic.AddUint64(&p.requests, 1)
	return &postgresqlConn{conn: conn, pool: p}, nil
}

func (p *postgresqlPool) Stats() (requests, returns uint64) {
	return atomic.LoadUint64(&p.requests), atomic.LoadUint64(&p.returns)
}

func (p *postgresqlPool) Close() {
	if err := p.db.Close(); err != nil {
		log.Error().Err(err).Msg("error closing postgresql pool")
	}
}

type postgresqlConn struct {
	conn *sql.Conn
	pool *postgresqlPool
}

func (c *postgresqlConn) Conn() any {
	return c.conn
}

func (c *postgresqlConn) Close(ctx context.Context) {
	atomic.AddUint64(&c.pool.returns, 1)
	if err := c.conn.Close(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error returning connection to pool")
	}
}
