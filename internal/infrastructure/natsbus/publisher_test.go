package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
	drained bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subject, c.data = subject, data
	return nil
}

func (c *fakeConn) FlushWithContext(context.Context) error { return nil }

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

func TestPublishWrapsEventInEnvelope(t *testing.T) {
	nc := &fakeConn{}
	p := newPublisher(nc, nil)
	evt := domcart.CheckedOutEvent{CartID: "c1", Items: 2, Total: "20.00", OccurredAt: time.Unix(0, 0).UTC()}

	require.NoError(t, p.Publish(context.Background(), evt))
	assert.Equal(t, "ninjacoders.cart.checked_out", nc.subject)

	var env Envelope
	require.NoError(t, json.Unmarshal(nc.data, &env))
	assert.Equal(t, "cart.checked_out", env.Event)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "c1", payload["cart_id"])
	assert.Equal(t, "20.00", payload["total"])
}

func TestPublishErrors(t *testing.T) {
	boom := errors.New("nats: connection closed")
	p := newPublisher(&fakeConn{err: boom}, nil)
	assert.ErrorIs(t, p.Publish(context.Background(), domcart.CheckedOutEvent{}), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, domcart.CheckedOutEvent{}), context.Canceled)
	assert.NoError(t, p.Publish(context.Background(), nil))
}

func TestCloseDrains(t *testing.T) {
	nc := &fakeConn{}
	require.NoError(t, newPublisher(nc, nil).Close(context.Background()))
	assert.True(t, nc.drained)
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect("", "shop", nil)
	assert.Error(t, err)
}
