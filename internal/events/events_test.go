package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*Recorder)(nil)
}

func TestNoopPublisher(t *testing.T) {
	pub := &NoopPublisher{}

	assert.NoError(t, pub.Publish(context.Background(), TopicFileParseFailed, FileParseFailed{}))
	assert.NoError(t, pub.Close())
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, topic string, event any) error {
	return errors.New("broker down")
}

func (failingPublisher) Close() error { return nil }

func TestRecorder(t *testing.T) {
	t.Run("keeps events in publish order", func(t *testing.T) {
		rec := NewRecorder(nil)

		require.NoError(t, rec.Publish(context.Background(), TopicFileParseFailed, FileParseFailed{FileName: "a.camel.yaml"}))
		require.NoError(t, rec.Publish(context.Background(), "other", "ignored"))
		require.NoError(t, rec.Publish(context.Background(), TopicFileParseFailed, FileParseFailed{FileName: "b.camel.yaml"}))

		assert.Len(t, rec.Events(), 3)
		failures := rec.ParseFailures()
		require.Len(t, failures, 2)
		assert.Equal(t, "a.camel.yaml", failures[0].FileName)
		assert.Equal(t, "b.camel.yaml", failures[1].FileName)
	})

	t.Run("records even when forwarding fails", func(t *testing.T) {
		rec := NewRecorder(failingPublisher{})

		err := rec.Publish(context.Background(), TopicFileParseFailed, FileParseFailed{FileName: "a.camel.yaml"})

		assert.Error(t, err)
		assert.Len(t, rec.ParseFailures(), 1)
	})

	t.Run("events returns a copy", func(t *testing.T) {
		rec := NewRecorder(nil)
		require.NoError(t, rec.Publish(context.Background(), TopicFileParseFailed, FileParseFailed{}))

		events := rec.Events()
		events[0].Topic = "changed"

		assert.Equal(t, TopicFileParseFailed, rec.Events()[0].Topic)
	})
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicFileParseFailed, ch)
	require.NoError(t, err)
	defer sub.Unsubscribe() //nolint:errcheck
	require.NoError(t, nc.Flush())

	event := FileParseFailed{FileName: "orders.camel.yaml", Message: "line 3: step must be a single-key mapping"}
	require.NoError(t, pub.Publish(context.Background(), TopicFileParseFailed, event))
	require.NoError(t, pub.conn.Flush())

	select {
	case msg := <-ch:
		var got FileParseFailed
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, event, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, pub.Publish(ctx, TopicFileParseFailed, FileParseFailed{}), context.Canceled)
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", nats.Timeout(200*time.Millisecond), nats.MaxReconnects(0))

	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	t.Run("empty url yields a no-op publisher", func(t *testing.T) {
		pub, err := Connect("")

		require.NoError(t, err)
		assert.IsType(t, &NoopPublisher{}, pub)
	})

	t.Run("url yields a NATS publisher", func(t *testing.T) {
		pub, err := Connect(startTestNATS(t))

		require.NoError(t, err)
		defer pub.Close()
		assert.IsType(t, &NATSPublisher{}, pub)
	})
}
