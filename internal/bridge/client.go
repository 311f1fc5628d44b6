package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/logger"
)

// UtilNamespace is the engine's utility namespace.
const UtilNamespace Namespace = "util"

// Transport carries requests to the engine and returns the matching responses.
// RoundTrip must be safe for concurrent use.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// Client is an engine reached through a Transport. It satisfies detector.Engine.
type Client struct {
	transport Transport
}

// NewClient creates a Client over t.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// CreateDetector sends a createDetector request. The request runs to
// completion even if the caller stops awaiting the promise.
func (c *Client) CreateDetector(name string, config dynamic.Value) dynamic.Promise {
	d := dynamic.NewDeferred()

	req, err := newRequest(OpCreateDetector, nil, "", []dynamic.Value{name, config})
	if err != nil {
		d.Settle(nil, err)
		return d
	}

	go func() {
		v, err := c.roundTrip(context.Background(), req)
		d.Settle(v, err)
	}()
	return d
}

// Util returns the utility namespace.
func (c *Client) Util() dynamic.Value {
	return UtilNamespace
}

// Invoke calls method on target, which must be a Ref or a Namespace returned
// by this client, and waits for the engine's answer.
func (c *Client) Invoke(ctx context.Context, target dynamic.Value, method string, args ...dynamic.Value) (dynamic.Value, error) {
	switch target.(type) {
	case Ref, Namespace:
	default:
		return nil, fmt.Errorf("invoke %s: target %T is not an engine value", method, target)
	}

	tb, err := encodeValue(target)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(OpInvoke, tb, method, args)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", method, err)
	}
	return c.roundTrip(ctx, req)
}

// Close closes the transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) roundTrip(ctx context.Context, req *Request) (dynamic.Value, error) {
	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		logger.Log().Debug("engine call failed",
			zap.String("op", req.Op),
			zap.String("method", req.Method),
			zap.String("kind", resp.Error.Kind),
			zap.String("message", resp.Error.Message),
		)
		return nil, resp.Error
	}
	return decodeValue(resp.Result)
}

func newRequest(op string, target json.RawMessage, method string, args []dynamic.Value) (*Request, error) {
	encoded, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	return &Request{
		ID:     uuid.NewString(),
		Op:     op,
		Target: target,
		Method: method,
		Args:   encoded,
	}, nil
}
