package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/metrics"
)

// NATSSink publishes operation events to market.<network>.<operation>
// subjects.
type NATSSink struct {
	conn *nats.Conn
}

func NewNATSSink(url string) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("nats disconnected")
			metrics.NATSConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Msg("nats reconnected")
			metrics.NATSConnectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, err
	}
	metrics.NATSConnectionStatus.Set(1)
	return &NATSSink{conn: conn}, nil
}

func (s *NATSSink) Publish(ctx context.Context, ev *OperationEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	subject := "market." + string(ev.Network) + "." + string(ev.Operation)
	if err := s.conn.Publish(subject, payload); err != nil {
		return err
	}
	return nil
}

func (s *NATSSink) Close() {
	if s.conn != nil {
		s.conn.Drain() //nolint:errcheck
	}
}
