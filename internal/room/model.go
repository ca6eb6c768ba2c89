package room

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/samber/lo"
)

// Mode selects which duration drives the current countdown phase.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeShort Mode = "short"
	ModeLong  Mode = "long"
)

// Valid reports whether m is one of the three known phases.
func (m Mode) Valid() bool {
	return m == ModeFocus || m == ModeShort || m == ModeLong
}

// Task priorities as the clients send them.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// ID is a client-supplied identifier. Browser clients generate ids with
// Date.now(), so the same field arrives as a JSON number from one client and
// a string from another. The original JSON type is kept so an echoed id still
// compares strictly equal on the client that minted it.
type ID struct {
	value  string
	number bool
}

// StringID wraps a plain string id.
func StringID(s string) ID { return ID{value: s} }

// NumberID wraps a numeric id.
func NumberID(n int64) ID { return ID{value: strconv.FormatInt(n, 10), number: true} }

func (id ID) String() string { return id.value }

// Zero reports whether the id was absent from the payload.
func (id ID) Zero() bool { return id.value == "" }

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty id")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID{value: n.String(), number: true}
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.number {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// Durations holds the countdown length of each phase, in seconds.
type Durations struct {
	Focus int `json:"focus"`
	Short int `json:"short"`
	Long  int `json:"long"`
}

// For returns the duration of the given phase.
func (d Durations) For(m Mode) int {
	switch m {
	case ModeShort:
		return d.Short
	case ModeLong:
		return d.Long
	default:
		return d.Focus
	}
}

// DefaultDurations is the timer every fresh room starts with: 25 minute
// focus, 5 minute short break, 15 minute long break.
var DefaultDurations = Durations{Focus: 25 * 60, Short: 5 * 60, Long: 15 * 60}

// TimerState is the single shared timer of a room. SecondsLeft is whatever
// the driving client last reported, not a server-side clock.
type TimerState struct {
	Mode        Mode      `json:"mode"`
	SecondsLeft int       `json:"secondsLeft"`
	IsRunning   bool      `json:"isRunning"`
	Durations   Durations `json:"durations"`
}

// Reset stops the timer and reloads the current phase's full duration.
func (t *TimerState) Reset() {
	t.SecondsLeft = t.Durations.For(t.Mode)
	t.IsRunning = false
}

// SetMode switches the phase and resets the countdown to its duration.
func (t *TimerState) SetMode(m Mode) {
	t.Mode = m
	t.SecondsLeft = t.Durations.For(m)
	t.IsRunning = false
}

// Member is a participant identity inside a room. Both fields come from the
// client at join time and are not verified here.
type Member struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// completion records one member having marked a task done. The stable member
// id is kept when the display name resolved to a roster entry; the name is
// what goes back on the wire either way.
type completion struct {
	memberID ID
	name     string
}

// Task is a shared to-do item. Done-ness is per member: a task is complete
// from a member's point of view iff they appear in completedBy.
type Task struct {
	ID        ID
	Text      string
	Priority  string
	CreatedBy string

	completed []completion
}

type taskWire struct {
	ID          ID       `json:"id"`
	Text        string   `json:"text"`
	Priority    string   `json:"priority"`
	CreatedBy   string   `json:"createdBy"`
	CompletedBy []string `json:"completedBy"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var w taskWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	t.ID = w.ID
	t.Text = w.Text
	t.Priority = w.Priority
	t.CreatedBy = w.CreatedBy
	t.completed = lo.Map(w.CompletedBy, func(name string, _ int) completion {
		return completion{name: name}
	})
	return nil
}

func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskWire{
		ID:        t.ID,
		Text:      t.Text,
		Priority:  t.Priority,
		CreatedBy: t.CreatedBy,
		CompletedBy: lo.Map(t.completed, func(c completion, _ int) string {
			return c.name
		}),
	})
}

// CompletedBy returns the display names currently marking the task done, in
// the order they toggled it.
func (t *Task) CompletedBy() []string {
	return lo.Map(t.completed, func(c completion, _ int) string { return c.name })
}

// Toggle flips whether the given actor has the task marked done. The actor is
// keyed by resolved member id when the room roster knows the name, so the
// ambiguity of two members sharing a display name stays at the wire boundary.
func (t *Task) Toggle(memberID ID, name string) {
	match := func(c completion) bool {
		if !memberID.Zero() && !c.memberID.Zero() {
			return c.memberID == memberID
		}
		return c.name == name
	}
	if lo.ContainsBy(t.completed, match) {
		t.completed = lo.Reject(t.completed, func(c completion, _ int) bool { return match(c) })
		return
	}
	t.completed = append(t.completed, completion{memberID: memberID, name: name})
}

// ChatMessage is append-only; the core never edits or prunes chat.
type ChatMessage struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// Room is the unit of collaboration: one shared timer, a roster in join
// order, an ordered task list and an append-only chat log.
type Room struct {
	ID      string        `json:"id"`
	Members []Member      `json:"members"`
	Timer   TimerState    `json:"timer"`
	Tasks   []*Task       `json:"tasks"`
	Chat    []ChatMessage `json:"chat"`
}

// NewRoom returns an empty room with the default focus timer.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Members: []Member{},
		Timer: TimerState{
			Mode:        ModeFocus,
			SecondsLeft: DefaultDurations.Focus,
			Durations:   DefaultDurations,
		},
		Tasks: []*Task{},
		Chat:  []ChatMessage{},
	}
}

// AddMember appends the member unless the id is already on the roster.
// Reports whether the roster changed.
func (r *Room) AddMember(m Member) bool {
	if lo.ContainsBy(r.Members, func(e Member) bool { return e.ID == m.ID }) {
		return false
	}
	r.Members = append(r.Members, m)
	return true
}

// RemoveMember drops the member with the given id. Reports whether the
// roster changed.
func (r *Room) RemoveMember(id ID) bool {
	n := len(r.Members)
	r.Members = lo.Reject(r.Members, func(m Member, _ int) bool { return m.ID == id })
	return len(r.Members) != n
}

// MemberByName returns the first roster entry with the given display name.
func (r *Room) MemberByName(name string) (Member, bool) {
	return lo.Find(r.Members, func(m Member) bool { return m.Name == name })
}

// TaskByID returns the task with the given id, if present.
func (r *Room) TaskByID(id ID) (*Task, bool) {
	return lo.Find(r.Tasks, func(t *Task) bool { return t.ID == id })
}

// RemoveTask drops the task with the given id. Reports whether it existed.
func (r *Room) RemoveTask(id ID) bool {
	n := len(r.Tasks)
	r.Tasks = lo.Reject(r.Tasks, func(t *Task, _ int) bool { return t.ID == id })
	return len(r.Tasks) != n
}

// Empty reports whether the roster is empty, which is the registry's cue to
// tear the room down.
func (r *Room) Empty() bool { return len(r.Members) == 0 }
