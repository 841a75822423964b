package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	sessionRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/session"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	ChatNamespace = "/chat"

	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventChatHistory    = "chat_history"
	EventReceiveMessage = "receive_message"

	handshakeTimeout = 10 * time.Second
	maxReconnectWait = time.Minute
)

var ErrNotConnected = apperrors.Unavailable("socket not connected")

// Handler receives the first argument of an event.
type Handler func(payload json.RawMessage)

type openPayload struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

type Client struct {
	rawURL    string
	namespace string
	tokens    sessionRepo.ITokenStore
	log       logrus.FieldLogger
	dialer    *websocket.Dialer

	mu       sync.RWMutex
	handlers map[string][]Handler
	conn     *websocket.Conn
	done     chan struct{}

	writeMu sync.Mutex
}

func New(rawURL, namespace string, tokens sessionRepo.ITokenStore, log logrus.FieldLogger) *Client {
	return &Client{
		rawURL:    rawURL,
		namespace: namespace,
		tokens:    tokens,
		log:       log.WithField("namespace", namespace),
		dialer:    &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		handlers:  make(map[string][]Handler),
	}
}

// endpoint turns the configured base URL into the Engine.IO websocket URL.
func endpoint(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "socket.endpoint: ")
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.Errorf("socket.endpoint: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/socket.io/"
	}
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// On registers h for event. Handlers run on the read loop goroutine.
func (c *Client) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

// Connect dials the server, completes the Engine.IO and namespace handshakes
// and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return apperrors.ErrNotAuthenticated
	}

	target, err := endpoint(c.rawURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokens.AccessToken)
	conn, _, err := c.dialer.DialContext(ctx, target, header)
	if err != nil {
		return apperrors.ErrRemote("socket dial", err)
	}

	open, err := c.handshake(conn, tokens.AccessToken)
	if err != nil {
		_ = conn.Close()
		return err
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.done = done
	c.mu.Unlock()

	keepalive := time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond
	go c.readLoop(conn, done, keepalive)

	c.log.WithField("sid", open.SID).Info("socket connected")
	return nil
}

func (c *Client) handshake(conn *websocket.Conn, accessToken string) (openPayload, error) {
	var open openPayload
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))

	p, err := readPacket(conn)
	if err != nil {
		return open, apperrors.ErrRemote("socket open", err)
	}
	if p.eio != eioOpen {
		return open, apperrors.ErrRemote("socket open", errMalformedPacket)
	}
	if err := json.Unmarshal(p.data, &open); err != nil {
		return open, apperrors.ErrRemote("socket open", err)
	}

	frame, err := encodeConnect(c.namespace, map[string]string{"token": accessToken})
	if err != nil {
		return open, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return open, apperrors.ErrRemote("socket connect", err)
	}

	for {
		p, err := readPacket(conn)
		if err != nil {
			return open, apperrors.ErrRemote("socket connect", err)
		}
		switch {
		case p.eio == eioPing:
			if err := conn.WriteMessage(websocket.TextMessage, []byte{eioPong}); err != nil {
				return open, apperrors.ErrRemote("socket connect", err)
			}
		case p.eio == eioMessage && p.sio == sioConnect && p.namespace == c.namespace:
			_ = conn.SetReadDeadline(time.Time{})
			return open, nil
		case p.eio == eioMessage && p.sio == sioConnectError:
			return open, apperrors.Unauthorized("socket rejected: " + string(p.data))
		}
	}
}

func readPacket(conn *websocket.Conn) (packet, error) {
	_, frame, err := conn.ReadMessage()
	if err != nil {
		return packet{}, err
	}
	return decodePacket(string(frame))
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}, keepalive time.Duration) {
	defer close(done)
	defer conn.Close()

	for {
		if keepalive > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(keepalive))
		}
		p, err := readPacket(conn)
		if err != nil {
			if errors.Is(err, errMalformedPacket) {
				c.log.Warn("dropping malformed frame")
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("socket read loop stopped")
			}
			return
		}

		switch p.eio {
		case eioPing:
			if err := c.write(conn, string(eioPong)); err != nil {
				c.log.WithError(err).Warn("pong failed")
				return
			}
		case eioClose:
			return
		case eioMessage:
			if p.namespace != c.namespace {
				continue
			}
			switch p.sio {
			case sioEvent:
				c.dispatch(p.data)
			case sioDisconnect:
				c.log.Info("server closed namespace")
				return
			}
		}
	}
}

func (c *Client) dispatch(data json.RawMessage) {
	event, payload, err := eventArgs(data)
	if err != nil {
		c.log.WithError(err).Warn("dropping malformed event")
		return
	}

	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[event]...)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (c *Client) write(conn *websocket.Conn, frame string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

func (c *Client) Emit(event string, payload any) error {
	c.mu.RLock()
	conn, done := c.conn, c.done
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	select {
	case <-done:
		return ErrNotConnected
	default:
	}

	frame, err := encodeEvent(c.namespace, event, payload)
	if err != nil {
		return err
	}
	if err := c.write(conn, frame); err != nil {
		return apperrors.ErrRemote("socket emit "+event, err)
	}
	return nil
}

// Done is closed when the read loop exits. It is nil before Connect.
func (c *Client) Done() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

func (c *Client) Connected() bool {
	done := c.Done()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}

	frame := string([]byte{eioMessage, sioDisconnect}) + namespacePrefix(c.namespace)
	_ = c.write(conn, frame)
	_ = c.write(conn, string(eioClose))
	err := conn.Close()
	<-done
	return err
}

// Run keeps the connection up until ctx ends, redialling with exponential
// backoff. Dial failures while logged out are retried the same way.
func (c *Client) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxReconnectWait
	policy.MaxElapsedTime = 0
	b := backoff.WithContext(policy, ctx)

	for {
		if err := c.Connect(ctx); err == nil {
			b.Reset()
			select {
			case <-c.Done():
				c.log.Warn("socket dropped, reconnecting")
			case <-ctx.Done():
				return c.Close()
			}
		} else {
			c.log.WithError(err).Debug("socket connect failed")
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}
