package room

import (
	"log/slog"

	"github.com/samber/lo"
)

// Sink delivers outbound frames to one connection. The hub's connection type
// implements it with a buffered, non-blocking send; tests implement it with
// a slice.
type Sink interface {
	Send(Outbound)
}

// Session is the handle for one live connection. RoomID and user identity
// are recorded when the connection joins, which is what lets a bare
// transport disconnect resolve back to a specific room membership.
type Session struct {
	ID   string
	Sink Sink

	RoomID   string
	UserID   ID
	UserName string
}

// Joined reports whether the session has joined a room.
func (s *Session) Joined() bool { return s.RoomID != "" }

// Router interprets each inbound event against the addressed room, applies
// the state transition and multicasts the result. All methods run on the
// hub's single dispatch goroutine; nothing here blocks or takes locks.
//
// There is no authority model: any joined session may drive the timer,
// change its settings, or remove any task. Client UIs may restrict that,
// the server does not.
type Router struct {
	log      *slog.Logger
	registry *Registry
	sessions map[string]map[*Session]struct{}
}

// NewRouter returns a router over the given registry.
func NewRouter(log *slog.Logger, registry *Registry) *Router {
	return &Router{
		log:      log,
		registry: registry,
		sessions: make(map[string]map[*Session]struct{}),
	}
}

// Rooms returns the number of live rooms, for gauges.
func (rt *Router) Rooms() int { return rt.registry.Len() }

// Handle applies one event end-to-end. Every event addressed at a room that
// does not exist is silently absorbed, except join, which creates the room.
func (rt *Router) Handle(s *Session, ev Event) {
	switch e := ev.(type) {
	case *Join:
		rt.join(s, e)
	case *TimerStart:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			r.Timer.IsRunning = true
			rt.toRoom(r.ID, Outbound{Event: EvTimerUpdate, Data: r.Timer})
		}
	case *TimerPause:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			r.Timer.IsRunning = false
			rt.toRoom(r.ID, Outbound{Event: EvTimerUpdate, Data: r.Timer})
		}
	case *TimerReset:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			r.Timer.Reset()
			rt.toRoom(r.ID, Outbound{Event: EvTimerUpdate, Data: r.Timer})
		}
	case *TimerModeChange:
		if r, ok := rt.registry.Get(e.RoomID); ok && e.Mode.Valid() {
			r.Timer.SetMode(e.Mode)
			rt.toRoom(r.ID, Outbound{Event: EvTimerUpdate, Data: r.Timer})
		}
	case *TimerTick:
		rt.tick(s, e)
	case *TimerSettingsUpdate:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			r.Timer.Durations = e.Durations
			rt.toRoom(r.ID, Outbound{Event: EvTimerSettingsUpdated, Data: r.Timer.Durations})
		}
	case *TaskAdd:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			rt.resolveCompletions(r, e.Task)
			r.Tasks = append(r.Tasks, e.Task)
			rt.toRoom(r.ID, Outbound{Event: EvTaskAdded, Data: e.Task})
		}
	case *TaskToggle:
		rt.toggleTask(e)
	case *TaskRemove:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			// Confirmed whether or not the id was still present, so the
			// second of two racing removes also gets its frame
			r.RemoveTask(e.TaskID)
			rt.toRoom(r.ID, Outbound{Event: EvTaskRemoved, Data: e.TaskID})
		}
	case *ChatPost:
		if r, ok := rt.registry.Get(e.RoomID); ok {
			r.Chat = append(r.Chat, e.Message)
			rt.toRoom(r.ID, Outbound{Event: EvChatMessageReceived, Data: e.Message})
		}
	case *Leave:
		rt.leave(s, e)
	case *Disconnect:
		rt.disconnect(s)
	}
}

func (rt *Router) join(s *Session, e *Join) {
	r := rt.registry.GetOrCreate(e.RoomID)
	r.AddMember(e.User)

	// Re-home the session. A session that joins a second room stops
	// receiving the first room's broadcasts; its old membership stays until
	// an explicit leave, matching the original protocol.
	if s.Joined() && s.RoomID != e.RoomID {
		rt.unsubscribe(s)
	}
	s.RoomID = e.RoomID
	s.UserID = e.User.ID
	s.UserName = e.User.Name
	set := rt.sessions[e.RoomID]
	if set == nil {
		set = make(map[*Session]struct{})
		rt.sessions[e.RoomID] = set
	}
	set[s] = struct{}{}

	// Fresh snapshot to the joiner, even on a duplicate join; that is the
	// resync path for a reconnecting client.
	s.Sink.Send(Outbound{Event: EvRoomState, Data: r})
	rt.toOthers(r.ID, s, Outbound{Event: EvUserJoined, Data: map[string]any{
		"user":    e.User,
		"members": r.Members,
	}})

	rt.log.Debug("room.join", "room", r.ID, "user", e.User.Name, "members", len(r.Members))
}

func (rt *Router) tick(s *Session, e *TimerTick) {
	r, ok := rt.registry.Get(e.RoomID)
	if !ok {
		return
	}
	r.Timer.SecondsLeft = e.SecondsLeft
	if e.SecondsLeft == 0 {
		r.Timer.IsRunning = false
	}
	// The driving client already shows this value; echoing it back would
	// fight its local countdown.
	rt.toOthers(r.ID, s, Outbound{Event: EvTimerUpdate, Data: r.Timer})
	if e.SecondsLeft == 0 {
		rt.toRoom(r.ID, Outbound{Event: EvTimerComplete})
	}
}

func (rt *Router) toggleTask(e *TaskToggle) {
	r, ok := rt.registry.Get(e.RoomID)
	if !ok {
		return
	}
	t, ok := r.TaskByID(e.TaskID)
	if !ok {
		return
	}
	var memberID ID
	if m, found := r.MemberByName(e.UserName); found {
		memberID = m.ID
	}
	t.Toggle(memberID, e.UserName)
	rt.toRoom(r.ID, Outbound{Event: EvTaskUpdated, Data: t})
}

func (rt *Router) leave(s *Session, e *Leave) {
	r, ok := rt.registry.Get(e.RoomID)
	if !ok {
		return
	}
	r.RemoveMember(e.UserID)
	if s.RoomID == e.RoomID {
		rt.unsubscribe(s)
		s.RoomID = ""
	}
	rt.toRoom(r.ID, Outbound{Event: EvUserLeft, Data: map[string]any{
		"userId":  e.UserID,
		"members": r.Members,
	}})
	rt.reapIfEmpty(r)
	rt.log.Debug("room.leave", "room", r.ID, "user", e.UserID.String(), "members", len(r.Members))
}

// disconnect retires the membership behind a closed connection. The member
// entry survives as long as another live session in the room carries the
// same user id (same account, second tab).
func (rt *Router) disconnect(s *Session) {
	if !s.Joined() {
		return
	}
	roomID := s.RoomID
	rt.unsubscribe(s)
	s.RoomID = ""

	r, ok := rt.registry.Get(roomID)
	if !ok {
		return
	}
	stillHere := lo.SomeBy(lo.Keys(rt.sessions[roomID]), func(o *Session) bool {
		return o.UserID == s.UserID
	})
	if stillHere {
		return
	}
	if !r.RemoveMember(s.UserID) {
		// Already off the roster, e.g. an explicit leave from another
		// session of the same user; the room has seen its delta
		return
	}
	rt.toRoom(r.ID, Outbound{Event: EvUserLeft, Data: map[string]any{
		"userId":  s.UserID,
		"members": r.Members,
	}})
	rt.reapIfEmpty(r)
	rt.log.Debug("room.disconnect", "room", roomID, "user", s.UserName)
}

// resolveCompletions pins wire-supplied completion names to roster ids where
// a match exists. New tasks normally arrive with an empty completedBy.
func (rt *Router) resolveCompletions(r *Room, t *Task) {
	for i, c := range t.completed {
		if m, ok := r.MemberByName(c.name); ok {
			t.completed[i].memberID = m.ID
		}
	}
}

func (rt *Router) reapIfEmpty(r *Room) {
	if !r.Empty() {
		return
	}
	rt.registry.Remove(r.ID)
	// Subscriptions are not culled with the room: a connection that never
	// left keeps receiving broadcasts if the id is reused, and is removed
	// on its own leave or disconnect
	rt.log.Info("room.removed", "room", r.ID)
}

func (rt *Router) unsubscribe(s *Session) {
	set := rt.sessions[s.RoomID]
	delete(set, s)
	if len(set) == 0 {
		delete(rt.sessions, s.RoomID)
	}
}

func (rt *Router) toRoom(roomID string, out Outbound) {
	for s := range rt.sessions[roomID] {
		s.Sink.Send(out)
	}
}

func (rt *Router) toOthers(roomID string, sender *Session, out Outbound) {
	for s := range rt.sessions[roomID] {
		if s != sender {
			s.Sink.Send(out)
		}
	}
}
