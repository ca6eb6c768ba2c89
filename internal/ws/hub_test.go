package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/room"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startHub(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), room.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), room.NewRegistry()))
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(websocket.StatusNormalClosure, "done") })
	return c
}

func send(t *testing.T, c *websocket.Conn, raw string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(raw)))
}

func recv(t *testing.T, c *websocket.Conn) frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := c.Read(ctx)
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestServeWS_JoinGetsSnapshot(t *testing.T) {
	req := require.New(t)
	srv := startHub(t)
	c := dial(t, srv)

	send(t, c, `{"event":"join-room","data":{"roomId":"w1","user":{"id":"u1","name":"Ada"}}}`)

	f := recv(t, c)
	req.Equal(room.EvRoomState, f.Event)

	var snap struct {
		ID      string `json:"id"`
		Members []struct {
			Name string `json:"name"`
		} `json:"members"`
		Timer struct {
			Mode        string `json:"mode"`
			SecondsLeft int    `json:"secondsLeft"`
		} `json:"timer"`
	}
	req.NoError(json.Unmarshal(f.Data, &snap))
	req.Equal("w1", snap.ID)
	req.Len(snap.Members, 1)
	req.Equal("Ada", snap.Members[0].Name)
	req.Equal("focus", snap.Timer.Mode)
	req.Equal(1500, snap.Timer.SecondsLeft)
}

func TestServeWS_BroadcastReachesRoommates(t *testing.T) {
	req := require.New(t)
	srv := startHub(t)

	ada := dial(t, srv)
	send(t, ada, `{"event":"join-room","data":{"roomId":"w1","user":{"id":"u1","name":"Ada"}}}`)
	req.Equal(room.EvRoomState, recv(t, ada).Event)

	ben := dial(t, srv)
	send(t, ben, `{"event":"join-room","data":{"roomId":"w1","user":{"id":"u2","name":"Ben"}}}`)
	req.Equal(room.EvRoomState, recv(t, ben).Event)
	req.Equal(room.EvUserJoined, recv(t, ada).Event)

	send(t, ben, `{"event":"timer-start","data":{"roomId":"w1"}}`)

	// A discrete transition reaches everyone, sender included
	fa, fb := recv(t, ada), recv(t, ben)
	req.Equal(room.EvTimerUpdate, fa.Event)
	req.Equal(room.EvTimerUpdate, fb.Event)

	var tm struct {
		IsRunning bool `json:"isRunning"`
	}
	req.NoError(json.Unmarshal(fa.Data, &tm))
	req.True(tm.IsRunning)
}

func TestServeWS_MalformedFramesAreDropped(t *testing.T) {
	req := require.New(t)
	srv := startHub(t)
	c := dial(t, srv)

	send(t, c, `not json at all`)
	send(t, c, `{"event":"room-nuke","data":{}}`)
	send(t, c, `{"event":"join-room","data":{"roomId":"w1","user":{"id":"u1","name":"Ada"}}}`)

	// The bad frames got no reply and did not kill the connection
	f := recv(t, c)
	req.Equal(room.EvRoomState, f.Event)
}
