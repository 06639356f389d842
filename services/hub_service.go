package services

import (
	"encoding/json"
	"log"

	"bookshelf/models"
)

// EventPublisher receives blog events. HubService is the websocket one.
type EventPublisher interface {
	Publish(eventType string, data interface{})
	PublishToUser(userID uint, eventType string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{})             {}
func (noopPublisher) PublishToUser(uint, string, interface{}) {}

// HubService owns the hub maps; only Run touches them.
type HubService struct {
	hub     *models.Hub
	done    chan struct{}
	stopped chan struct{}
}

func NewHubService() *HubService {
	service := &HubService{
		hub:     models.NewHub(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go service.Run()

	return service
}

func (h *HubService) GetHub() *models.Hub {
	return h.hub
}

func (h *HubService) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.hub.Register:
			h.registerClient(client)

		case client := <-h.hub.Unregister:
			h.unregisterClient(client)

		case message := <-h.hub.Broadcast:
			h.broadcastToAll(message)

		case direct := <-h.hub.Direct:
			h.sendToUser(direct)

		case <-h.done:
			for client := range h.hub.Clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// Close stops Run and waits until every client has been closed.
func (h *HubService) Close() {
	close(h.done)
	<-h.stopped
}

// Register hands client to Run. It reports false once the hub has stopped,
// in which case the client was never added.
func (h *HubService) Register(client *models.Client) bool {
	select {
	case h.hub.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client and closes its Send channel. After Close it
// returns at once; Run has already closed every registered client.
func (h *HubService) Unregister(client *models.Client) {
	select {
	case h.hub.Unregister <- client:
	case <-h.done:
	}
}

func (h *HubService) registerClient(client *models.Client) {
	h.hub.Clients[client] = true
	h.hub.UserClients[client.UserID] = append(h.hub.UserClients[client.UserID], client)
	log.Printf("Client %s registered for user: %d", client.ID, client.UserID)
}

func (h *HubService) unregisterClient(client *models.Client) {
	if _, ok := h.hub.Clients[client]; !ok {
		return
	}
	delete(h.hub.Clients, client)
	close(client.Send)

	clients := h.hub.UserClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.hub.UserClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.hub.UserClients[client.UserID]) == 0 {
		delete(h.hub.UserClients, client.UserID)
	}
	log.Printf("Client unregistered for user: %d", client.UserID)
}

func (h *HubService) broadcastToAll(message []byte) {
	for client := range h.hub.Clients {
		h.deliver(client, message)
	}
}

func (h *HubService) sendToUser(msg models.DirectMessage) {
	for _, client := range h.hub.UserClients[msg.UserID] {
		if msg.ClientID != "" && client.ID != msg.ClientID {
			continue
		}
		h.deliver(client, msg.Payload)
	}
}

// deliver drops clients whose send buffer is full.
func (h *HubService) deliver(client *models.Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.unregisterClient(client)
	}
}

func (h *HubService) Publish(messageType string, data interface{}) {
	if payload, ok := encode(messageType, data); ok {
		select {
		case h.hub.Broadcast <- payload:
		case <-h.done:
		}
	}
}

func (h *HubService) PublishToUser(userID uint, messageType string, data interface{}) {
	if payload, ok := encode(messageType, data); ok {
		select {
		case h.hub.Direct <- models.DirectMessage{UserID: userID, Payload: payload}:
		case <-h.done:
		}
	}
}

// Reply answers a single connection through the hub so that only Run ever
// writes to a client's Send channel.
func (h *HubService) Reply(client *models.Client, messageType string, data interface{}) {
	payload, ok := encodeFor(messageType, data, client.ID)
	if !ok {
		return
	}
	select {
	case h.hub.Direct <- models.DirectMessage{UserID: client.UserID, ClientID: client.ID, Payload: payload}:
	case <-h.done:
	}
}

func encode(messageType string, data interface{}) ([]byte, bool) {
	return encodeFor(messageType, data, "")
}

func encodeFor(messageType string, data interface{}, clientID string) ([]byte, bool) {
	messageBytes, err := json.Marshal(models.WSMessage{Type: messageType, Data: data, ClientID: clientID})
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return nil, false
	}
	return messageBytes, true
}
