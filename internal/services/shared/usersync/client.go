package usersync

import (
	"context"
	"errors"
	"time"

	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/platform/metrics"
	"github.com/louisbranch/bookshelf/internal/platform/timeouts"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Operation names used in logs and metrics.
const (
	OperationUserCreated       = "user_created"
	OperationSessionInvalidate = "session_invalidate"
)

// Client delivers sync events to the receiving service.
//
// Each call blocks until the acknowledgement arrives or the timeout elapses.
// A timed-out call reports false even though the receiver may still apply
// the event later.
type Client struct {
	rpc      usersyncv1.UserSyncServiceClient
	timeout  time.Duration
	metrics  *metrics.Sync
	callOpts []grpc.CallOption
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each round trip. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMetrics counts every call by operation and outcome.
func WithMetrics(m *metrics.Sync) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithCallOptions appends gRPC call options to every call.
func WithCallOptions(opts ...grpc.CallOption) ClientOption {
	return func(c *Client) {
		c.callOpts = append(c.callOpts, opts...)
	}
}

// NewClient wraps a UserSyncService stub.
func NewClient(rpc usersyncv1.UserSyncServiceClient, opts ...ClientOption) *Client {
	c := &Client{rpc: rpc, timeout: timeouts.SyncRequest}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendUserCreated reports whether the receiver acknowledged the user.
func (c *Client) SendUserCreated(ctx context.Context, user UserCreated) bool {
	return c.DeliverUserCreated(ctx, user).Succeeded()
}

// BlockSession reports whether the receiver acknowledged the invalidation.
func (c *Client) BlockSession(ctx context.Context, sessionID string) bool {
	return c.DeliverSessionInvalidate(ctx, SessionInvalidate{SessionID: sessionID}).Succeeded()
}

// DeliverUserCreated sends a UserCreated event and classifies the outcome.
func (c *Client) DeliverUserCreated(ctx context.Context, user UserCreated) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	event, err := user.Normalize()
	if err != nil {
		return c.finish(ctx, OperationUserCreated, Rejected(err))
	}
	if c == nil || c.rpc == nil {
		return c.finish(ctx, OperationUserCreated, notConfigured())
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.rpc.SendUserCreated(callCtx, event.ToWire(), c.callOpts...)
	if err != nil {
		return c.finish(ctx, OperationUserCreated, callResult(err))
	}
	if resp == nil {
		return c.finish(ctx, OperationUserCreated, malformed())
	}
	return c.finish(ctx, OperationUserCreated, ackResult(resp.GetSuccess()))
}

// DeliverSessionInvalidate sends a SessionInvalidate event and classifies the
// outcome.
func (c *Client) DeliverSessionInvalidate(ctx context.Context, session SessionInvalidate) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	event, err := session.Normalize()
	if err != nil {
		return c.finish(ctx, OperationSessionInvalidate, Rejected(err))
	}
	if c == nil || c.rpc == nil {
		return c.finish(ctx, OperationSessionInvalidate, notConfigured())
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.rpc.BlockSession(callCtx, event.ToWire(), c.callOpts...)
	if err != nil {
		return c.finish(ctx, OperationSessionInvalidate, callResult(err))
	}
	if resp == nil {
		return c.finish(ctx, OperationSessionInvalidate, malformed())
	}
	return c.finish(ctx, OperationSessionInvalidate, ackResult(resp.GetSuccess()))
}

func (c *Client) finish(ctx context.Context, operation string, result Result) Result {
	if c != nil {
		c.metrics.ObserveClientCall(operation, string(result.Outcome))
	}
	switch result.Outcome {
	case OutcomeApplied:
	case OutcomeNegative:
		logging.Printf(ctx, "sync: %s not acknowledged by receiver", operation)
	default:
		logging.Printf(ctx, "sync error: %s %s: %v", operation, result.Outcome, result.Err)
	}
	return result
}

func ackResult(success bool) Result {
	if success {
		return Applied()
	}
	return Negative()
}

// callResult classifies a failed RPC.
func callResult(err error) Result {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Unavailable(apperrors.Wrap(apperrors.CodeSyncUnavailable, "receiver did not answer in time", err))
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return Unavailable(apperrors.Wrap(apperrors.CodeSyncUnavailable, "receiver unreachable", err))
	case codes.Unauthenticated, codes.PermissionDenied:
		return Rejected(apperrors.Wrap(apperrors.CodeSyncUnauthorized, "receiver refused credentials", err))
	case codes.Internal:
		return Failed(apperrors.Wrap(apperrors.CodeSyncMalformedReply, "receiver reply could not be decoded", err))
	default:
		return Rejected(apperrors.Wrap(apperrors.CodeSyncRejected, "receiver refused call", err))
	}
}

func malformed() Result {
	return Failed(apperrors.New(apperrors.CodeSyncMalformedReply, "receiver returned no acknowledgement"))
}

func notConfigured() Result {
	return Failed(apperrors.New(apperrors.CodeSyncNotConfigured, "sync client is not configured"))
}
