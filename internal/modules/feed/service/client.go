package service

import (
	"context"
	"time"

	"status_engine/internal/modules/config"
	healthsvc "status_engine/internal/modules/health/service"
	"status_engine/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// SnapshotEvent — "a new health snapshot for this instance was
// ingested"; the trigger for one resolution cycle.
type SnapshotEvent struct {
	InstanceID string `json:"instance_id"`
	SnapshotID string `json:"snapshot_id"`
}

// Client subscribes to the snapshot-ingest stream and pushes events to
// the runner. Reconnects forever; the periodic sweep covers anything
// missed while disconnected.
type Client struct {
	cfg      *config.Config
	state    *healthsvc.State
	wsDialer *websocket.Dialer
}

func NewClient(cfg *config.Config, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		state:    state,
		wsDialer: &websocket.Dialer{},
	}
}

func (c *Client) Start(ctx context.Context, out chan<- SnapshotEvent) {
	if c.cfg.Feed.URL == "" {
		logger.Info("[FEED] no url configured, running on sweep only")
		return
	}

	channel := c.cfg.Feed.Channel
	if channel == "" {
		channel = "health_snapshots"
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Info("[FEED] connect %s channel=%s", c.cfg.Feed.URL, channel)
		conn, _, err := c.wsDialer.Dial(c.cfg.Feed.URL, nil)
		if err != nil {
			logger.Error("[FEED] dial error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		sub := map[string]any{
			"op":   "subscribe",
			"args": []map[string]string{{"channel": channel}},
		}
		if err := conn.WriteJSON(sub); err != nil {
			logger.Error("[FEED] subscribe error: %v", err)
			_ = conn.Close()
			time.Sleep(time.Second)
			continue
		}
		c.state.SetFeedConnected(true)

		// keepalive ping every 20s, some gateways drop idle connections
		pingDone := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-pingDone:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		c.readLoop(ctx, conn, channel, out)
		c.state.SetFeedConnected(false)
		close(pingDone)
		// a connection that dies right after subscribing must not
		// turn the loop into a dial storm
		time.Sleep(time.Second)
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, channel string, out chan<- SnapshotEvent) {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("[FEED] read error: %v", err)
			return
		}

		events, ok := parseFrame(msg, channel)
		if !ok {
			continue
		}
		for _, ev := range events {
			select {
			case out <- ev:
			default:
				// queue full: drop, the sweep re-resolves everything anyway
				logger.Warn("[FEED] event queue full, dropping instance=%s", ev.InstanceID)
			}
		}
	}
}

// parseFrame decodes one wire frame and keeps only snapshot events for
// the subscribed channel.
func parseFrame(msg []byte, channel string) ([]SnapshotEvent, bool) {
	var frame struct {
		Channel string          `json:"channel"`
		Data    []SnapshotEvent `json:"data"`
	}
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return nil, false
	}
	if frame.Channel != channel || len(frame.Data) == 0 {
		return nil, false
	}

	out := frame.Data[:0]
	for _, ev := range frame.Data {
		if ev.InstanceID == "" {
			continue
		}
		out = append(out, ev)
	}
	return out, len(out) > 0
}
