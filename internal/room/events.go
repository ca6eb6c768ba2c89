package room

import (
	"encoding/json"
	"fmt"
)

// Inbound event names as the clients send them.
const (
	EvJoinRoom            = "join-room"
	EvTimerStart          = "timer-start"
	EvTimerPause          = "timer-pause"
	EvTimerReset          = "timer-reset"
	EvTimerModeChange     = "timer-mode-change"
	EvTimerTick           = "timer-tick"
	EvTimerSettingsUpdate = "timer-settings-update"
	EvTaskAdd             = "task-add"
	EvTaskToggle          = "task-toggle"
	EvTaskRemove          = "task-remove"
	EvChatMessage         = "chat-message"
	EvLeaveRoom           = "leave-room"
	EvDisconnect          = "disconnect"
)

// Outbound event names.
const (
	EvRoomState            = "room-state"
	EvUserJoined           = "user-joined"
	EvUserLeft             = "user-left"
	EvTimerUpdate          = "timer-update"
	EvTimerComplete        = "timer-complete"
	EvTimerSettingsUpdated = "timer-settings-updated"
	EvTaskAdded            = "task-added"
	EvTaskUpdated          = "task-updated"
	EvTaskRemoved          = "task-removed"
	EvChatMessageReceived  = "chat-message-received"
)

// Event is the closed set of inbound room events. Each wire message decodes
// into exactly one of the types below; the router dispatches on the concrete
// type, so an unhandled kind is a compile-time hole, not a silent drop.
type Event interface {
	// Name returns the wire-level event name.
	Name() string

	isEvent()
}

type Join struct {
	RoomID string `json:"roomId"`
	User   Member `json:"user"`
}

type TimerStart struct {
	RoomID string `json:"roomId"`
}

type TimerPause struct {
	RoomID string `json:"roomId"`
}

type TimerReset struct {
	RoomID string `json:"roomId"`
}

type TimerModeChange struct {
	RoomID string `json:"roomId"`
	Mode   Mode   `json:"mode"`
}

type TimerTick struct {
	RoomID      string `json:"roomId"`
	SecondsLeft int    `json:"secondsLeft"`
}

type TimerSettingsUpdate struct {
	RoomID    string    `json:"roomId"`
	Durations Durations `json:"durations"`
}

type TaskAdd struct {
	RoomID string `json:"roomId"`
	Task   *Task  `json:"task"`
}

type TaskToggle struct {
	RoomID   string `json:"roomId"`
	TaskID   ID     `json:"taskId"`
	UserName string `json:"userName"`
}

type TaskRemove struct {
	RoomID string `json:"roomId"`
	TaskID ID     `json:"taskId"`
}

type ChatPost struct {
	RoomID  string      `json:"roomId"`
	Message ChatMessage `json:"message"`
}

type Leave struct {
	RoomID string `json:"roomId"`
	UserID ID     `json:"userId"`
}

// Disconnect is synthesized by the transport when a connection closes; it
// carries no payload of its own.
type Disconnect struct{}

func (Join) Name() string                { return EvJoinRoom }
func (TimerStart) Name() string          { return EvTimerStart }
func (TimerPause) Name() string          { return EvTimerPause }
func (TimerReset) Name() string          { return EvTimerReset }
func (TimerModeChange) Name() string     { return EvTimerModeChange }
func (TimerTick) Name() string           { return EvTimerTick }
func (TimerSettingsUpdate) Name() string { return EvTimerSettingsUpdate }
func (TaskAdd) Name() string             { return EvTaskAdd }
func (TaskToggle) Name() string          { return EvTaskToggle }
func (TaskRemove) Name() string          { return EvTaskRemove }
func (ChatPost) Name() string            { return EvChatMessage }
func (Leave) Name() string               { return EvLeaveRoom }
func (Disconnect) Name() string          { return EvDisconnect }

func (Join) isEvent()                {}
func (TimerStart) isEvent()          {}
func (TimerPause) isEvent()          {}
func (TimerReset) isEvent()          {}
func (TimerModeChange) isEvent()     {}
func (TimerTick) isEvent()           {}
func (TimerSettingsUpdate) isEvent() {}
func (TaskAdd) isEvent()             {}
func (TaskToggle) isEvent()          {}
func (TaskRemove) isEvent()          {}
func (ChatPost) isEvent()            {}
func (Leave) isEvent()               {}
func (Disconnect) isEvent()          {}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Decode parses one wire frame into a typed event. Unknown event names and
// malformed payloads come back as errors; callers drop those frames, per the
// protocol's swallow-don't-surface policy.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	unmarshal := func(ev Event) (Event, error) {
		if err := json.Unmarshal(env.Data, ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return ev, nil
	}

	switch env.Event {
	case EvJoinRoom:
		return unmarshal(&Join{})
	case EvTimerStart:
		return unmarshal(&TimerStart{})
	case EvTimerPause:
		return unmarshal(&TimerPause{})
	case EvTimerReset:
		return unmarshal(&TimerReset{})
	case EvTimerModeChange:
		return unmarshal(&TimerModeChange{})
	case EvTimerTick:
		ev := &TimerTick{}
		if _, err := unmarshal(ev); err != nil {
			return nil, err
		}
		if ev.SecondsLeft < 0 {
			return nil, fmt.Errorf("decode %s: negative secondsLeft", env.Event)
		}
		return ev, nil
	case EvTimerSettingsUpdate:
		return unmarshal(&TimerSettingsUpdate{})
	case EvTaskAdd:
		ev := &TaskAdd{}
		if _, err := unmarshal(ev); err != nil {
			return nil, err
		}
		if ev.Task == nil {
			return nil, fmt.Errorf("decode %s: missing task", env.Event)
		}
		return ev, nil
	case EvTaskToggle:
		return unmarshal(&TaskToggle{})
	case EvTaskRemove:
		return unmarshal(&TaskRemove{})
	case EvChatMessage:
		return unmarshal(&ChatPost{})
	case EvLeaveRoom:
		return unmarshal(&Leave{})
	}
	return nil, fmt.Errorf("unknown event %q", env.Event)
}

// Outbound is one server-to-client frame, multicast to some subset of a
// room's connections.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}
