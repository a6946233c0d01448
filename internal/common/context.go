// Description: This file contains the context package which is used to set and retrieve data from the context.
package common

import (
	"context"

	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// ctxJobIdKeyType represents the key type for the job ID in the context.
type ctxJobIdKeyType string

const ctxJobIdKey ctxJobIdKeyType = "MintWorkerJobId"

// ctxNetworkKeyType represents the key type for the target network in the context.
type ctxNetworkKeyType string

const ctxNetworkKey ctxNetworkKeyType = "MintWorkerNetwork"

// SetJobIdInContext sets the job ID in the provided context.
func SetJobIdInContext(ctx context.Context, jobId string) context.Context {
	return context.WithValue(ctx, ctxJobIdKey, jobId)
}

// JobIdFromContext retrieves the job ID from the provided context.
func JobIdFromContext(ctx context.Context) string {
	if jobId, ok := ctx.Value(ctxJobIdKey).(string); ok {
		return jobId
	}
	return ""
}

// SetNetworkInContext sets the target network in the provided context.
func SetNetworkInContext(ctx context.Context, network types.Network) context.Context {
	return context.WithValue(ctx, ctxNetworkKey, network)
}

// NetworkFromContext retrieves the target network from the provided context.
func NetworkFromContext(ctx context.Context) types.Network {
	if network, ok := ctx.Value(ctxNetworkKey).(types.Network); ok {
		return network
	}
	return ""
}
