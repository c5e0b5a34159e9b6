package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  InboundEvent
	}{
		{
			name:  "announce presence",
			frame: `{"event":"announce-presence","data":"u1"}`,
			want:  AnnouncePresence{UserID: "u1"},
		},
		{
			name:  "legacy user-online alias",
			frame: `{"event":"user-online","data":"u1"}`,
			want:  AnnouncePresence{UserID: "u1"},
		},
		{
			name:  "join room",
			frame: `{"event":"join-room","data":"conv-1"}`,
			want:  JoinRoom{RoomID: "conv-1"},
		},
		{
			name:  "leave room",
			frame: `{"event":"leave-room","data":"conv-1"}`,
			want:  LeaveRoom{RoomID: "conv-1"},
		},
		{
			name:  "typing",
			frame: `{"event":"typing","data":{"roomId":"r","userId":"u","displayName":"Ana"}}`,
			want:  Typing{RoomID: "r", UserID: "u", DisplayName: "Ana"},
		},
		{
			name:  "stop typing",
			frame: `{"event":"stop-typing","data":{"roomId":"r","userId":"u"}}`,
			want:  StopTyping{RoomID: "r", UserID: "u"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInbound_SendMessageKeepsPayload(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"event":"send-message","data":{"roomId":"r","message":{"text":"hi","attachments":[1,2]}}}`))
	require.NoError(t, err)

	m, ok := ev.(SendMessage)
	require.True(t, ok)
	assert.Equal(t, "r", m.RoomID)
	assert.JSONEq(t, `{"text":"hi","attachments":[1,2]}`, string(m.Message))
}

func TestDecodeInbound_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{name: "not json", frame: `hello`, want: ErrMalformedFrame},
		{name: "unknown event", frame: `{"event":"explode","data":1}`, want: ErrUnknownEvent},
		{name: "missing event", frame: `{"data":"x"}`, want: ErrUnknownEvent},
		{name: "missing data", frame: `{"event":"join-room"}`, want: ErrInvalidPayload},
		{name: "wrong data type", frame: `{"event":"join-room","data":{"roomId":"r"}}`, want: ErrInvalidPayload},
		{name: "empty user id", frame: `{"event":"announce-presence","data":""}`, want: ErrInvalidPayload},
		{name: "message without room", frame: `{"event":"send-message","data":{"message":"x"}}`, want: ErrInvalidPayload},
		{name: "message without body", frame: `{"event":"send-message","data":{"roomId":"r"}}`, want: ErrInvalidPayload},
		{name: "typing without user", frame: `{"event":"typing","data":{"roomId":"r"}}`, want: ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.frame))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncode_OutboundShapes(t *testing.T) {
	tests := []struct {
		name string
		ev   OutboundEvent
		want string
	}{
		{
			name: "presence list",
			ev:   PresenceList{UserIDs: []string{"a", "b"}},
			want: `{"event":"presence-list","data":["a","b"]}`,
		},
		{
			name: "empty presence list is an array",
			ev:   PresenceList{},
			want: `{"event":"presence-list","data":[]}`,
		},
		{
			name: "new message",
			ev:   NewMessage{Message: json.RawMessage(`{"text":"x"}`)},
			want: `{"event":"new-message","data":{"text":"x"}}`,
		},
		{
			name: "user typing",
			ev:   UserTyping{UserID: "u", DisplayName: "Ana"},
			want: `{"event":"user-typing","data":{"userId":"u","displayName":"Ana"}}`,
		},
		{
			name: "user stop typing",
			ev:   UserStopTyping{UserID: "u"},
			want: `{"event":"user-stop-typing","data":{"userId":"u"}}`,
		},
		{
			name: "match requested",
			ev:   MatchRequested{MatchID: "m1", FromUserID: "a", SkillOffered: "guitar", SkillWanted: "spanish", Score: 80},
			want: `{"event":"match-requested","data":{"matchId":"m1","fromUserId":"a","skillOffered":"guitar","skillWanted":"spanish","score":80}}`,
		},
		{
			name: "match answered",
			ev:   MatchAnswered{MatchID: "m1", ByUserID: "b", Status: "accepted"},
			want: `{"event":"match-answered","data":{"matchId":"m1","byUserId":"b","status":"accepted"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))

			back, err := DecodeOutbound(b)
			require.NoError(t, err)
			assert.Equal(t, tt.ev.EventName(), back.EventName())
		})
	}
}

func TestEncode_InboundMatchesDecoder(t *testing.T) {
	evs := []InboundEvent{
		AnnouncePresence{UserID: "u"},
		JoinRoom{RoomID: "r"},
		LeaveRoom{RoomID: "r"},
		Typing{RoomID: "r", UserID: "u", DisplayName: "d"},
		StopTyping{RoomID: "r", UserID: "u"},
	}
	for _, ev := range evs {
		b, err := Encode(ev)
		require.NoError(t, err)

		got, err := DecodeInbound(b)
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
}
