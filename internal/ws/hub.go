package ws

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/room"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/pkg/metrics"
)

// dispatch is one decoded event waiting for the loop, paired with the
// session that produced it.
type dispatch struct {
	sess *room.Session
	ev   room.Event
}

// Hub accepts websocket connections and funnels every decoded event through
// a single dispatch goroutine. That one goroutine is the only thing that
// ever touches the registry or a room, which is what makes the core
// lock-free: events are applied strictly one at a time, in arrival order.
type Hub struct {
	log    *slog.Logger
	router *room.Router
	events chan dispatch
}

// NewHub sets up the hub around the room event router.
func NewHub(logger *slog.Logger, router *room.Router) *Hub {
	return &Hub{
		log:    logger,
		router: router,
		events: make(chan dispatch, 1024),
	}
}

// Run is the dispatch loop. It must be the only goroutine calling into the
// router; everything else just enqueues.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case d := <-h.events:
			h.router.Handle(d.sess, d.ev)
			metrics.EventsTotal.WithLabelValues(d.ev.Name()).Inc()
			metrics.RoomsActive.Set(float64(h.router.Rooms()))
		case <-ctx.Done():
			return
		}
	}
}

// ServeWS handles a new /ws connection: one reader goroutine decoding frames
// into the dispatch queue, one writer goroutine draining the outbound
// buffer. The connection's session handle is what a later disconnect
// resolves against.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsc, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(wsc)
	sess := &room.Session{ID: uuid.NewString(), Sink: c}

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()
	h.log.Debug("ws.connected", "session", sess.ID)

	ctx := r.Context()
	go c.WriteLoop(ctx)

	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		ev, err := room.Decode(raw)
		if err != nil {
			// Malformed and unknown frames are dropped, not answered.
			metrics.FramesDropped.Inc()
			h.log.Debug("ws.frame.dropped", "session", sess.ID, "err", err)
			continue
		}
		h.events <- dispatch{sess: sess, ev: ev}
	}

	h.events <- dispatch{sess: sess, ev: &room.Disconnect{}}
	_ = c.Close()
	h.log.Debug("ws.closed", "session", sess.ID)
}
