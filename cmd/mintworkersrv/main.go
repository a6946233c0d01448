package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/apis"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/config"
	"github.com/zkmarket/mintworkersrv/internal/db"
	"github.com/zkmarket/mintworkersrv/internal/db/postgresql"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/finality"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/internal/reservation"
	"github.com/zkmarket/mintworkersrv/internal/server"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(os.Stderr)

	if err := config.Load(*configPath); err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("unable to load configuration")
	}
	cfg := config.Config()

	ctx := context.Background()
	if err := db.Init(ctx, cfg.Database.DSN); err != nil {
		log.Fatal().Err(err).Msg("unable to initialize database pool")
	}
	if conn := db.Conn(ctx); conn != nil {
		if sqlConn, ok := conn.Conn().(*sql.Conn); ok {
			if err := postgresql.EnsureSchema(ctx, sqlConn); err != nil {
				log.Fatal().Err(err).Msg("unable to ensure database schema")
			}
		}
		conn.Close(ctx)
	} else {
		log.Fatal().Msg("unable to obtain database connection")
	}

	endpoints := make(map[types.Network]string, len(cfg.Networks))
	for network, nc := range cfg.Networks {
		endpoints[network] = nc.Endpoint
	}
	connector := ledger.NewHTTPConnector(endpoints)
	prover := assembler.NewProverClient(cfg.Prover.URL)
	asm := assembler.New(connector, prover, prover, assembler.NewKeyCache())
	md := metadata.NewAssembler(metadata.NewHTTPGateway(cfg.ContentStore.GatewayURL, cfg.ContentStore.GatewayToken))
	explorer := finality.NewExplorerClient(cfg.Explorer.BaseURL, cfg.Explorer.APIKey)
	resolver := finality.NewResolver(connector, explorer)

	var sink events.Sink = events.NopSink{}
	if cfg.Events.NatsURL != "" {
		natsSink, err := events.NewNATSSink(cfg.Events.NatsURL)
		if err != nil {
			log.Error().Err(err).Str("url", cfg.Events.NatsURL).Msg("event sink unavailable, continuing without notifications")
		} else {
			defer natsSink.Close()
			sink = natsSink
		}
	}

	apis.Init(apis.Dependencies{
		Assembler:    asm,
		Connector:    connector,
		Metadata:     md,
		Events:       sink,
		Reservations: reservation.NewHTTPClient(cfg.Reservation.URL),
		Resolver:     resolver,
	})

	s, err := server.CreateNewServer()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create server")
	}
	s.MountHandlers()

	log.Info().Str("address", cfg.Server.Address).Msg("starting mint worker")
	if err := http.ListenAndServe(cfg.Server.Address, s.Router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
