// Package service implements the SplitMate Connect services on top of a storage.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/splitmate/internal/idempotency"
	"github.com/mmynk/splitmate/internal/metrics"
	"github.com/mmynk/splitmate/internal/middleware"
	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

// Claimer records Idempotency-Key claims. *idempotency.Store implements it.
type Claimer interface {
	Claim(scope, key, fingerprint, resourceID string) (idempotency.Claim, error)
	Release(scope, key string) error
}

// Option configures optional collaborators of a service.
type Option func(*options)

type options struct {
	claims  Claimer
	metrics *metrics.Metrics
}

// WithIdempotency makes create RPCs honour the Idempotency-Key header.
func WithIdempotency(c Claimer) Option {
	return func(o *options) { o.claims = c }
}

// WithMetrics records balance and replay metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// storeError maps a storage error to a Connect error.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrNotMember):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrMemberInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// claim is the outcome of reserving a resource ID for a create request.
type claim struct {
	resourceID string
	replayed   bool
	release    func()
}

// claimResource picks the ID for a resource created by a request. Without an
// Idempotency-Key (or without a Claimer) it is a fresh UUID. With a key, the
// first request claims a fresh UUID and later requests with the same key and
// payload get the first request's ID back with replayed set.
func (o options) claimResource(scope string, header http.Header, payload any) (claim, error) {
	id := uuid.New().String()
	key := header.Get(middleware.IdempotencyKeyHeader)
	if key == "" || o.claims == nil {
		return claim{resourceID: id, release: func() {}}, nil
	}

	fingerprint, err := idempotency.Fingerprint(payload)
	if err != nil {
		return claim{}, connect.NewError(connect.CodeInternal, err)
	}

	c, err := o.claims.Claim(scope, key, fingerprint, id)
	if errors.Is(err, idempotency.ErrFingerprintMismatch) {
		return claim{}, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	if err != nil {
		return claim{}, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to claim idempotency key: %w", err))
	}

	if !c.Created {
		slog.Info("Idempotent replay", "scope", scope, "idempotency_key", key, "resource_id", c.ResourceID)
		o.metrics.ObserveReplay(scope)
		return claim{resourceID: c.ResourceID, replayed: true, release: func() {}}, nil
	}

	return claim{
		resourceID: id,
		release: func() {
			if err := o.claims.Release(scope, key); err != nil {
				slog.Error("Failed to release idempotency key", "scope", scope, "idempotency_key", key, "error", err)
			}
		},
	}, nil
}

// replayLookupError maps the failure to load a replayed resource. A missing
// resource means the first request is still running or was rolled back.
func replayLookupError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeAborted,
			errors.New("a request with this idempotency key has not completed; retry later"))
	}
	return connect.NewError(connect.CodeInternal, err)
}

// requireGroup loads a group, mapping a missing ID to InvalidArgument and a
// missing group to NotFound.
func requireGroup(ctx context.Context, reader storage.LedgerReader, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidArgument("groupId is required")
	}
	group, err := reader.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}
	return group, nil
}
