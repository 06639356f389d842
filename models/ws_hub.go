package models

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Blog event types pushed over the websocket.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventCommentOnPost  = "comment_on_your_post"
	EventClientReady    = "client_connected"
)

type Hub struct {
	Clients     map[*Client]bool
	Broadcast   chan []byte
	Direct      chan DirectMessage
	Register    chan *Client
	Unregister  chan *Client
	UserClients map[uint][]*Client
}

// DirectMessage is delivered only to the connections of one user, or to a
// single connection when ClientID is set.
type DirectMessage struct {
	UserID   uint
	ClientID string
	Payload  []byte
}

type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

type WSMessage struct {
	Type     string      `json:"type"`
	Data     interface{} `json:"data"`
	ClientID string      `json:"client_id,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:     make(map[*Client]bool),
		Broadcast:   make(chan []byte, 64),
		Direct:      make(chan DirectMessage, 64),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		UserClients: make(map[uint][]*Client),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
}
