package websocket

import "github.com/rs/zerolog/log"

// targetedMessage pairs an outbound message with the user whose
// subscribers should receive it.
type targetedMessage struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// The client and subscription maps are only touched from Run's goroutine;
// every other goroutine talks to the hub through its channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Per-user messages, delivered on Run's loop.
	targeted chan targetedMessage

	// A map of user IDs to the set of clients subscribed to that user's
	// analysis results.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		targeted:      make(chan targetedMessage),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			if client.UserID != "" {
				h.addSubscription(client, client.UserID)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case tm := <-h.targeted:
			h.deliver(tm.userID, tm.message)
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a user ID.
// Safe to call from any goroutine; delivery happens on Run's loop.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	h.targeted <- targetedMessage{userID: userID, message: message}
}

// deliver fans a targeted message out to a user's subscribers. Must only
// run on Run's goroutine.
func (h *Hub) deliver(userID string, message []byte) {
	if subs, ok := h.subscriptions[userID]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(subs, client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client, userID string) {
	if h.subscriptions[userID] == nil {
		h.subscriptions[userID] = make(map[*Client]bool)
	}
	h.subscriptions[userID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for userID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, userID)
			}
		}
	}
}
