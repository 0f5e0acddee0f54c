package messages

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"init","player_id":"p1",
			"player":{"id":"p1","name":"Player_p1","x":100,"y":120,"angle":0,"size":20,"color":"#FF6B6B"},
			"config":{"canvas_width":800,"canvas_height":600,"player_speed":5}}`))
		require.NoError(t, err)

		hello, ok := msg.(Init)
		require.True(t, ok)
		assert.Equal(t, "p1", hello.PlayerID)
		assert.Equal(t, 120.0, *hello.Player.Y)
		assert.Equal(t, 800.0, hello.Config.CanvasWidth)
		assert.Equal(t, 5.0, hello.Config.PlayerSpeed)
	})

	t.Run("state keeps incomplete players", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"state","data":{
			"players":{"a":{"id":"a","x":1,"y":2,"angle":3},"b":{"id":"b","x":1}},
			"bullets":{"k":{"id":"k","x":5,"y":6,"vx":10,"vy":0,"owner_id":"a"}}},
			"hits":[{"bullet_id":"k","player_id":"b","shooter_id":"a"}]}`))
		require.NoError(t, err)

		st := msg.(State)
		require.Len(t, st.Data.Players, 2)
		assert.NoError(t, st.Data.Players["a"].Validate())
		assert.ErrorIs(t, st.Data.Players["b"].Validate(), ErrMissingField)
		assert.Equal(t, "a", st.Data.Bullets["k"].OwnerID)
		require.Len(t, st.Hits, 1)
		assert.Equal(t, "b", st.Hits[0].PlayerID)
	})

	t.Run("state isolates badly typed players", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"state","data":{
			"players":{
				"a":{"id":"a","x":1,"y":2,"angle":3},
				"b":{"id":"b","x":"oops","y":2,"angle":0},
				"c":{"id":"c","x":1e400,"y":2,"angle":0}},
			"bullets":{"k":{"id":"k","x":5,"y":6},"bad":{"id":"bad","x":"no"}}}}`))
		require.NoError(t, err)

		st := msg.(State)
		require.Len(t, st.Data.Players, 1)
		assert.Equal(t, 1.0, *st.Data.Players["a"].X)
		assert.Equal(t, []string{"b", "c"}, st.Data.Malformed)
		require.Len(t, st.Data.Bullets, 1)
		assert.Contains(t, st.Data.Bullets, "k")
	})

	t.Run("state without bullets", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"state","data":{"players":{}}}`))
		require.NoError(t, err)
		st := msg.(State)
		assert.Nil(t, st.Data.Bullets)
		assert.Empty(t, st.Data.Malformed)
	})

	t.Run("notices", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"player_left","player_id":"z"}`))
		require.NoError(t, err)
		assert.Equal(t, PlayerLeft{PlayerID: "z"}, msg)

		msg, err = Decode([]byte(`{"type":"player_name_changed","player_id":"z","name":"Zed"}`))
		require.NoError(t, err)
		assert.Equal(t, PlayerNameChanged{PlayerID: "z", Name: "Zed"}, msg)

		msg, err = Decode([]byte(`{"type":"error","message":"Name must be 1-20 characters"}`))
		require.NoError(t, err)
		assert.Equal(t, Error{Message: "Name must be 1-20 characters"}, msg)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown type", `{"type":"teleport"}`, ErrUnknownType},
		{"missing type", `{"player_id":"x"}`, ErrMissingField},
		{"init without pose", `{"type":"init","player_id":"p","player":{"id":"p","x":1,"y":1}}`, ErrMissingField},
		{"left without id", `{"type":"player_left"}`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode([]byte(`{not json`))
	assert.Error(t, err)
}

func TestOutboundEncoding(t *testing.T) {
	b, err := json.Marshal(NewPositionUpdate(10, 20, 1.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update","data":{"x":10,"y":20,"angle":1.5}}`, string(b))

	b, err = json.Marshal(NewAimUpdate(-0.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update","data":{"angle":-0.5}}`, string(b))

	b, err = json.Marshal(NewShoot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"shoot"}`, string(b))
}

func TestNewChangeName(t *testing.T) {
	msg, err := NewChangeName("  Zed  ")
	require.NoError(t, err)
	assert.Equal(t, ChangeName{Type: TypeChangeName, Name: "Zed"}, msg)

	_, err = NewChangeName("   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewChangeName(strings.Repeat("x", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrInvalidName)
}
