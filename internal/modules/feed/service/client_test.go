package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"status_engine/internal/modules/config"
	healthsvc "status_engine/internal/modules/health/service"
	"status_engine/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestParseFrame(t *testing.T) {
	msg := []byte(`{"channel":"health_snapshots","data":[
		{"instance_id":"inst-1","snapshot_id":"snap-9"},
		{"instance_id":"inst-2","snapshot_id":"snap-10"}
	]}`)

	events, ok := parseFrame(msg, "health_snapshots")
	require.True(t, ok)
	require.Len(t, events, 2)
	assert.Equal(t, "inst-1", events[0].InstanceID)
	assert.Equal(t, "snap-10", events[1].SnapshotID)
}

func TestParseFrameSkipsOtherChannels(t *testing.T) {
	msg := []byte(`{"channel":"heartbeats","data":[{"instance_id":"inst-1"}]}`)
	_, ok := parseFrame(msg, "health_snapshots")
	assert.False(t, ok)
}

func TestParseFrameDropsEmptyIDs(t *testing.T) {
	msg := []byte(`{"channel":"health_snapshots","data":[
		{"instance_id":"","snapshot_id":"snap-1"},
		{"instance_id":"inst-3","snapshot_id":"snap-2"}
	]}`)

	events, ok := parseFrame(msg, "health_snapshots")
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "inst-3", events[0].InstanceID)
}

func TestReconnectIsPaced(t *testing.T) {
	var dials atomic.Int32
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		dials.Add(1)
		_ = conn.Close()
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Feed.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.Feed.Channel = "health_snapshots"

	c := NewClient(cfg, healthsvc.NewState())
	out := make(chan SnapshotEvent, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 1200*time.Millisecond)
	defer cancel()
	go c.Start(ctx, out)
	<-ctx.Done()

	// every failed cycle pauses before redialing, so a server that
	// drops each connection sees a couple of attempts, not hundreds
	assert.LessOrEqual(t, int(dials.Load()), 3)
	assert.GreaterOrEqual(t, int(dials.Load()), 1)
}

func TestParseFrameGarbage(t *testing.T) {
	for _, msg := range []string{"", "pong", `{"event":"ping"}`, `{"channel":"health_snapshots","data":[]}`} {
		_, ok := parseFrame([]byte(msg), "health_snapshots")
		assert.False(t, ok, "input %q", msg)
	}
}
