package client

import (
	"context"

	"github.com/dmitrijs2005/securematch/internal/client/models"
)

type Client interface {
	Close() error
	SearchInternal(ctx context.Context, payload models.TrapdoorPayload) (*SearchResponse, error)
	SearchExternal(ctx context.Context, payload models.SignedQueryPayload) (*SearchResponse, error)
	Metrics(ctx context.Context) (*models.Dashboard, error)
	CreateAuditor(ctx context.Context, name string) (*CreatedAuditor, error)
	DeleteAuditor(ctx context.Context, auditorID string) error
}

type requestIDKey struct{}

// WithRequestID attaches the id sent as X-Request-ID on the next request
// made with ctx. Without it a fresh id is generated per request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
