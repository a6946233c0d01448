package dbmanager

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Pool interface {
	// Conn returns a new connection to the database.
	// Returns a Conn and an error, if any.
	Conn(ctx context.Context) (Conn, error)
	// Stats returns the number of connection requests and returns.
	Stats() (requests, returns uint64)
	Close()
}

type Conn interface {
	Conn() any
	Close(ctx context.Context)
}

func NewPool(ctx context.Context, dbtype string, dsn string) Pool {
	switch dbtype {
	case "postgresql":
		db, err := NewPostgresqlPool(dsn)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to create PostgreSQL pool")
			return nil
		}
		return db
	}
	return nil
}
