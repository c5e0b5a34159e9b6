package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Client to server events.
const (
	EventAnnouncePresence = "announce-presence"
	EventUserOnline       = "user-online" // legacy alias of announce-presence
	EventJoinRoom         = "join-room"
	EventLeaveRoom        = "leave-room"
	EventSendMessage      = "send-message"
	EventTyping           = "typing"
	EventStopTyping       = "stop-typing"
)

// Server to client events.
const (
	EventPresenceList   = "presence-list"
	EventNewMessage     = "new-message"
	EventUserTyping     = "user-typing"
	EventUserStopTyping = "user-stop-typing"
	EventMatchRequested = "match-requested"
	EventMatchAnswered  = "match-answered"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Frame is the JSON envelope carried by every WebSocket text message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// InboundEvent is one of the client to server variants below.
type InboundEvent interface {
	EventName() string
	payload() any
	inbound()
}

type AnnouncePresence struct {
	UserID string `validate:"required,max=256"`
}

type JoinRoom struct {
	RoomID string `validate:"required,max=256"`
}

type LeaveRoom struct {
	RoomID string `validate:"required,max=256"`
}

type SendMessage struct {
	RoomID  string          `json:"roomId" validate:"required,max=256"`
	Message json.RawMessage `json:"message" validate:"required"`
}

type Typing struct {
	RoomID      string `json:"roomId" validate:"required,max=256"`
	UserID      string `json:"userId" validate:"required,max=256"`
	DisplayName string `json:"displayName" validate:"max=256"`
}

type StopTyping struct {
	RoomID string `json:"roomId" validate:"required,max=256"`
	UserID string `json:"userId" validate:"required,max=256"`
}

func (AnnouncePresence) EventName() string { return EventAnnouncePresence }
func (JoinRoom) EventName() string         { return EventJoinRoom }
func (LeaveRoom) EventName() string        { return EventLeaveRoom }
func (SendMessage) EventName() string      { return EventSendMessage }
func (Typing) EventName() string           { return EventTyping }
func (StopTyping) EventName() string       { return EventStopTyping }

func (e AnnouncePresence) payload() any { return e.UserID }
func (e JoinRoom) payload() any         { return e.RoomID }
func (e LeaveRoom) payload() any        { return e.RoomID }
func (e SendMessage) payload() any      { return e }
func (e Typing) payload() any           { return e }
func (e StopTyping) payload() any       { return e }

func (AnnouncePresence) inbound() {}
func (JoinRoom) inbound()         {}
func (LeaveRoom) inbound()        {}
func (SendMessage) inbound()      {}
func (Typing) inbound()           {}
func (StopTyping) inbound()       {}

// OutboundEvent is one of the server to client variants below.
type OutboundEvent interface {
	EventName() string
	payload() any
	outbound()
}

type PresenceList struct {
	UserIDs []string
}

type NewMessage struct {
	Message json.RawMessage
}

type UserTyping struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type UserStopTyping struct {
	UserID string `json:"userId"`
}

// MatchRequested tells the recipient about a new proposal from FromUserID.
type MatchRequested struct {
	MatchID      string `json:"matchId"`
	FromUserID   string `json:"fromUserId"`
	SkillOffered string `json:"skillOffered"`
	SkillWanted  string `json:"skillWanted"`
	Score        int    `json:"score"`
}

// MatchAnswered tells the initiator that ByUserID accepted or rejected.
type MatchAnswered struct {
	MatchID  string `json:"matchId"`
	ByUserID string `json:"byUserId"`
	Status   string `json:"status"`
}

func (PresenceList) EventName() string   { return EventPresenceList }
func (NewMessage) EventName() string     { return EventNewMessage }
func (UserTyping) EventName() string     { return EventUserTyping }
func (UserStopTyping) EventName() string { return EventUserStopTyping }
func (MatchRequested) EventName() string { return EventMatchRequested }
func (MatchAnswered) EventName() string  { return EventMatchAnswered }

func (e PresenceList) payload() any {
	if e.UserIDs == nil {
		return []string{}
	}
	return e.UserIDs
}
func (e NewMessage) payload() any     { return e.Message }
func (e UserTyping) payload() any     { return e }
func (e UserStopTyping) payload() any { return e }
func (e MatchRequested) payload() any { return e }
func (e MatchAnswered) payload() any  { return e }

func (PresenceList) outbound()   {}
func (NewMessage) outbound()     {}
func (UserTyping) outbound()     {}
func (UserStopTyping) outbound() {}
func (MatchRequested) outbound() {}
func (MatchAnswered) outbound()  {}

var payloadValidator = validator.New()

// DecodeInbound parses a client frame into its event variant.
func DecodeInbound(raw []byte) (InboundEvent, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var ev InboundEvent
	switch f.Event {
	case EventAnnouncePresence, EventUserOnline:
		var id string
		if err := unmarshalData(f.Data, &id); err != nil {
			return nil, err
		}
		ev = AnnouncePresence{UserID: id}
	case EventJoinRoom:
		var id string
		if err := unmarshalData(f.Data, &id); err != nil {
			return nil, err
		}
		ev = JoinRoom{RoomID: id}
	case EventLeaveRoom:
		var id string
		if err := unmarshalData(f.Data, &id); err != nil {
			return nil, err
		}
		ev = LeaveRoom{RoomID: id}
	case EventSendMessage:
		var m SendMessage
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		ev = m
	case EventTyping:
		var m Typing
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		ev = m
	case EventStopTyping:
		var m StopTyping
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		ev = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}

	if err := payloadValidator.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ev, nil
}

// DecodeOutbound parses a server frame into its event variant.
func DecodeOutbound(raw []byte) (OutboundEvent, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Event {
	case EventPresenceList:
		var ids []string
		if err := unmarshalData(f.Data, &ids); err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []string{}
		}
		return PresenceList{UserIDs: ids}, nil
	case EventNewMessage:
		return NewMessage{Message: f.Data}, nil
	case EventUserTyping:
		var m UserTyping
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case EventUserStopTyping:
		var m UserStopTyping
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case EventMatchRequested:
		var m MatchRequested
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case EventMatchAnswered:
		var m MatchAnswered
		if err := unmarshalData(f.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}
}

type event interface {
	EventName() string
	payload() any
}

// Encode wraps an inbound or outbound event in a Frame.
func Encode(ev event) ([]byte, error) {
	data, err := json.Marshal(ev.payload())
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: ev.EventName(), Data: data})
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
