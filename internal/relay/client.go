package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClientClosed = errors.New("relay client closed")

// Client is a Go peer of the relay. Server events arrive on Events until the
// connection ends, at which point the channel is closed.
type Client struct {
	ws     *websocket.Conn
	events chan OutboundEvent

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

// Dial connects to a relay endpoint such as ws://host/ws.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	c := &Client{
		ws:     ws,
		events: make(chan OutboundEvent, 64),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) Events() <-chan OutboundEvent { return c.events }

// Err reports why the read loop stopped, or nil for a clean close.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) Send(ev InboundEvent) error {
	frame, err := Encode(ev)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) AnnouncePresence(userID string) error {
	return c.Send(AnnouncePresence{UserID: userID})
}

func (c *Client) JoinRoom(roomID string) error {
	return c.Send(JoinRoom{RoomID: roomID})
}

func (c *Client) LeaveRoom(roomID string) error {
	return c.Send(LeaveRoom{RoomID: roomID})
}

// SendMessage marshals message and relays it to the room.
func (c *Client) SendMessage(roomID string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.Send(SendMessage{RoomID: roomID, Message: raw})
}

func (c *Client) Typing(roomID, userID, displayName string) error {
	return c.Send(Typing{RoomID: roomID, UserID: userID, DisplayName: displayName})
}

func (c *Client) StopTyping(roomID, userID string) error {
	return c.Send(StopTyping{RoomID: roomID, UserID: userID})
}

// Close sends a close frame and tears down the connection.
func (c *Client) Close() error {
	alreadyClosed := true
	c.closeOnce.Do(func() {
		alreadyClosed = false
		close(c.done)
	})
	if alreadyClosed {
		return ErrClientClosed
	}

	c.writeMu.Lock()
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.writeMu.Unlock()
	return c.ws.Close()
}

func (c *Client) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.errMu.Lock()
					c.err = err
					c.errMu.Unlock()
				}
			}
			return
		}
		ev, err := DecodeOutbound(data)
		if err != nil {
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
