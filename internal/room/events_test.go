package room

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_EveryInboundKind(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "join with numeric user id",
			frame: `{"event":"join-room","data":{"roomId":"r1","user":{"id":1712000000000,"name":"Alice"}}}`,
			want:  &Join{RoomID: "r1", User: Member{ID: NumberID(1712000000000), Name: "Alice"}},
		},
		{
			name:  "timer start",
			frame: `{"event":"timer-start","data":{"roomId":"r1"}}`,
			want:  &TimerStart{RoomID: "r1"},
		},
		{
			name:  "timer pause",
			frame: `{"event":"timer-pause","data":{"roomId":"r1"}}`,
			want:  &TimerPause{RoomID: "r1"},
		},
		{
			name:  "timer reset",
			frame: `{"event":"timer-reset","data":{"roomId":"r1"}}`,
			want:  &TimerReset{RoomID: "r1"},
		},
		{
			name:  "mode change",
			frame: `{"event":"timer-mode-change","data":{"roomId":"r1","mode":"short"}}`,
			want:  &TimerModeChange{RoomID: "r1", Mode: ModeShort},
		},
		{
			name:  "tick",
			frame: `{"event":"timer-tick","data":{"roomId":"r1","secondsLeft":42}}`,
			want:  &TimerTick{RoomID: "r1", SecondsLeft: 42},
		},
		{
			name:  "settings update",
			frame: `{"event":"timer-settings-update","data":{"roomId":"r1","durations":{"focus":3000,"short":600,"long":1200}}}`,
			want:  &TimerSettingsUpdate{RoomID: "r1", Durations: Durations{Focus: 3000, Short: 600, Long: 1200}},
		},
		{
			name:  "task toggle",
			frame: `{"event":"task-toggle","data":{"roomId":"r1","taskId":"t1","userName":"Bob"}}`,
			want:  &TaskToggle{RoomID: "r1", TaskID: StringID("t1"), UserName: "Bob"},
		},
		{
			name:  "task remove with numeric id",
			frame: `{"event":"task-remove","data":{"roomId":"r1","taskId":99}}`,
			want:  &TaskRemove{RoomID: "r1", TaskID: NumberID(99)},
		},
		{
			name:  "chat message",
			frame: `{"event":"chat-message","data":{"roomId":"r1","message":{"id":"m1","text":"hi","sender":"Alice","timestamp":"2026-08-31T10:00:00.000Z"}}}`,
			want:  &ChatPost{RoomID: "r1", Message: ChatMessage{ID: StringID("m1"), Text: "hi", Sender: "Alice", Timestamp: "2026-08-31T10:00:00.000Z"}},
		},
		{
			name:  "leave",
			frame: `{"event":"leave-room","data":{"roomId":"r1","userId":"a"}}`,
			want:  &Leave{RoomID: "r1", UserID: StringID("a")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.frame))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_TaskAdd(t *testing.T) {
	req := require.New(t)
	frame := `{"event":"task-add","data":{"roomId":"r1","task":{"id":123,"text":"draft report","priority":"High","createdBy":"Alice","completedBy":[]}}}`

	got, err := Decode([]byte(frame))
	req.NoError(err)

	add, ok := got.(*TaskAdd)
	req.True(ok)
	req.Equal("r1", add.RoomID)
	req.Equal(NumberID(123), add.Task.ID)
	req.Equal("draft report", add.Task.Text)
	req.Equal(PriorityHigh, add.Task.Priority)
	req.Equal("Alice", add.Task.CreatedBy)
	req.Empty(add.Task.CompletedBy())
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"unknown event name", `{"event":"room-nuke","data":{"roomId":"r1"}}`},
		{"not json", `{"event":`},
		{"payload shape mismatch", `{"event":"timer-tick","data":{"roomId":"r1","secondsLeft":"soon"}}`},
		{"negative tick", `{"event":"timer-tick","data":{"roomId":"r1","secondsLeft":-1}}`},
		{"task-add without task", `{"event":"task-add","data":{"roomId":"r1"}}`},
		{"missing data", `{"event":"timer-start"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.frame))
			require.Error(t, err)
		})
	}
}

func TestID_PreservesWireType(t *testing.T) {
	req := require.New(t)

	var numeric, textual ID
	req.NoError(json.Unmarshal([]byte(`1712000000000`), &numeric))
	req.NoError(json.Unmarshal([]byte(`"t-42"`), &textual))

	// Date.now() ids must echo back as numbers, string ids as strings,
	// or the minting client's strict-equality lookups break
	n, err := json.Marshal(numeric)
	req.NoError(err)
	req.Equal(`1712000000000`, string(n))

	s, err := json.Marshal(textual)
	req.NoError(err)
	req.Equal(`"t-42"`, string(s))

	req.NotEqual(numeric, StringID("1712000000000"))
	req.Equal(numeric, NumberID(1712000000000))
}

func TestTask_WireRoundTrip(t *testing.T) {
	req := require.New(t)
	raw := `{"id":7,"text":"review PR","priority":"Medium","createdBy":"Bob","completedBy":["Alice"]}`

	var task Task
	req.NoError(json.Unmarshal([]byte(raw), &task))
	req.Equal([]string{"Alice"}, task.CompletedBy())

	task.Toggle(StringID("b"), "Bob")

	out, err := json.Marshal(&task)
	req.NoError(err)
	req.JSONEq(`{"id":7,"text":"review PR","priority":"Medium","createdBy":"Bob","completedBy":["Alice","Bob"]}`, string(out))
}
