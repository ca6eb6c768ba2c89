package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate_BuildsDefaultRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	r := reg.GetOrCreate("r1")

	req.Equal("r1", r.ID)
	req.Empty(r.Members)
	req.Empty(r.Tasks)
	req.Empty(r.Chat)
	req.Equal(ModeFocus, r.Timer.Mode)
	req.Equal(Durations{Focus: 1500, Short: 300, Long: 900}, r.Timer.Durations)
	req.Equal(1500, r.Timer.SecondsLeft)
	req.False(r.Timer.IsRunning)
	req.Equal(1, reg.Len())
}

func TestRegistry_GetOrCreate_ReturnsExisting(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	r1 := reg.GetOrCreate("r1")
	r1.AddMember(Member{ID: StringID("a"), Name: "Alice"})

	req.Same(r1, reg.GetOrCreate("r1"))
	req.Equal(1, reg.Len())
}

func TestRegistry_Get_Absent(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get("nope")

	require.False(t, ok)
}

func TestRegistry_Remove(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	reg.GetOrCreate("r1")

	reg.Remove("r1")
	reg.Remove("r1") // absent id, still a no-op

	_, ok := reg.Get("r1")
	req.False(ok)
	req.Zero(reg.Len())

	// The id is reusable for an unrelated fresh room
	r := reg.GetOrCreate("r1")
	req.Empty(r.Members)
}
