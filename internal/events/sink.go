// Package events delivers operation notifications to downstream consumers.
// Delivery is best effort by contract: a sink failure is logged and counted,
// never surfaced as an operation failure.
package events

import (
	"context"
	"time"

	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// OperationEvent describes one submitted marketplace operation.
type OperationEvent struct {
	TxHash       string              `json:"txHash"`
	JobId        string              `json:"jobId"`
	Operation    types.OperationKind `json:"operation"`
	Network      types.Network       `json:"network"`
	Name         string              `json:"name"`
	Price        string              `json:"price"`
	Counterparty string              `json:"counterparty"`
	Timestamp    time.Time           `json:"timestamp"`
}

type Sink interface {
	Publish(ctx context.Context, ev *OperationEvent) error
}

// NopSink is used when no event transport is configured.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, ev *OperationEvent) error {
	return nil
}
