package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WireEvent is the raw inbound frame: a type tag plus a per-type payload,
// decoded lazily into a hanabi.GameEvent by decodeEvent. Mirrors the
// WSEvent{Type, Data} shape the server actually sends.
type WireEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// WireAction is the outbound frame for an ActionRequest or a note update.
type WireAction struct {
	Type   int    `json:"type"`
	Target int    `json:"target"`
	Value  int    `json:"value,omitempty"`
	Order  int    `json:"order,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Client is the login + WebSocket transport for one bot player, ported from
// internal/bot/client.go and narrowed to the Hanabi wire shape.
type Client struct {
	name     string
	baseURL  string
	password string
	token    string
	userID   string
	wsConn   *websocket.Conn
	events   chan WireEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a client targeting baseURL, logging in as name/password.
func NewClient(name, password, baseURL string) *Client {
	return &Client{
		name:     name,
		password: password,
		baseURL:  strings.TrimRight(baseURL, "/"),
		events:   make(chan WireEvent, 64),
		httpC:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the bot's username.
func (c *Client) Name() string { return c.name }

// UserID returns the bot's user ID after Login.
func (c *Client) UserID() string { return c.userID }

// Login authenticates via the username/password login endpoint and stores
// the resulting session token.
func (c *Client) Login() error {
	body := map[string]string{"username": c.name, "password": c.password}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.httpC.Post(c.baseURL+"/login", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login status %d: %s", resp.StatusCode, respBody)
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	c.token = tokens.AccessToken
	c.userID = tokens.UserID
	log.Debug().Str("bot", c.name).Str("userId", c.userID).Msg("bot logged in")
	return nil
}

// ConnectWS opens the WebSocket connection and starts the read loop.
func (c *Client) ConnectWS() error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// JoinTable sends a join-table request for botUsername's running table, or
// creates a fresh solo table when botUsername is empty.
func (c *Client) JoinTable(botUsername string) error {
	msg := map[string]any{"action": "joinTable", "username": botUsername}
	return c.send(msg)
}

// Events returns the channel of decoded inbound frames.
func (c *Client) Events() <-chan WireEvent { return c.events }

// SendAction writes an outbound action frame.
func (c *Client) SendAction(a WireAction) error {
	return c.send(map[string]any{
		"action": "action",
		"type":   a.Type,
		"target": a.Target,
		"value":  a.Value,
	})
}

// SendNote writes an outbound per-order note frame.
func (c *Client) SendNote(order int, text string) error {
	return c.send(map[string]any{"action": "note", "order": order, "note": text})
}

func (c *Client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn == nil {
		return fmt.Errorf("ws not connected")
	}
	return c.wsConn.WriteJSON(v)
}

// CloseWS closes the WebSocket connection cleanly.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			if !c.closedWS {
				log.Debug().Err(err).Str("bot", c.name).Msg("ws read error")
			}
			return
		}
		var event WireEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			log.Warn().Err(err).Str("bot", c.name).Msg("dropping malformed ws frame")
			continue
		}
		c.events <- event
	}
}
