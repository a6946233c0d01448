package config

import (
	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

type ServerConfig struct {
	Address    string `toml:"address"`
	HandleCORS bool   `toml:"handle_cors"`
}

type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

type NetworkConfig struct {
	Endpoint string `toml:"endpoint"`
}

type ExplorerConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type ContentStoreConfig struct {
	GatewayURL   string `toml:"gateway_url"`
	GatewayToken string `toml:"gateway_token"`
}

type EventsConfig struct {
	NatsURL string `toml:"nats_url"`
}

type ReservationConfig struct {
	URL string `toml:"url"`
}

type ProverConfig struct {
	URL string `toml:"url"`
}

type MintWorkerConfig struct {
	Server       ServerConfig                        `toml:"server"`
	Database     DatabaseConfig                      `toml:"database"`
	Networks     map[types.Network]NetworkConfig     `toml:"networks"`
	Explorer     ExplorerConfig                      `toml:"explorer"`
	ContentStore ContentStoreConfig                  `toml:"content_store"`
	Events       EventsConfig                        `toml:"events"`
	Reservation  ReservationConfig                   `toml:"reservation"`
	Prover       ProverConfig                        `toml:"prover"`
}

var config = defaultConfig()

func defaultConfig() *MintWorkerConfig {
	return &MintWorkerConfig{
		Server: ServerConfig{
			Address: ":8194",
		},
		Networks: map[types.Network]NetworkConfig{},
	}
}

// Load reads the TOML configuration at path and replaces the process config.
func Load(path string) error {
	c := defaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		log.Error().Err(err).Str("path", path).Msg("unable to load config")
		return err
	}
	for network := range c.Networks {
		if !network.IsValid() {
			log.Warn().Str("network", string(network)).Msg("ignoring endpoint for unknown network")
			delete(c.Networks, network)
		}
	}
	config = c
	return nil
}

func Config() *MintWorkerConfig {
	return config
}
