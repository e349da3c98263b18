package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nekoyaBack/internal/models"
)

const (
	readLimit     = 1 << 20 // 1 MB
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

type shopEvent struct {
	playerID int
	event    models.ShopEvent
}

type wsClient struct {
	playerID int
	conn     *websocket.Conn
}

type unreg struct {
	playerID int
	conn     *websocket.Conn
}

// ShopEventsHub streams shop events to each player's connected socket. One
// socket per player; a newer connection replaces the old one.
type ShopEventsHub struct {
	clients    map[int]*websocket.Conn
	events     chan shopEvent
	register   chan wsClient
	unregister chan unreg
}

func NewShopEventsHub() *ShopEventsHub {
	return &ShopEventsHub{
		clients:    make(map[int]*websocket.Conn),
		events:     make(chan shopEvent),
		register:   make(chan wsClient),
		unregister: make(chan unreg),
	}
}

// Run owns the clients map; all map access happens here.
func (h *ShopEventsHub) Run() {
	for {
		select {
		case client := <-h.register:
			if old, ok := h.clients[client.playerID]; ok && old != nil && old != client.conn {
				_ = old.Close()
			}
			h.clients[client.playerID] = client.conn
			log.Printf("WS register player=%d", client.playerID)

		case u := <-h.unregister:
			if cur, ok := h.clients[u.playerID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(h.clients, u.playerID)
				log.Printf("WS unregister player=%d", u.playerID)
			}

		case ev := <-h.events:
			if conn, ok := h.clients[ev.playerID]; ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(ev.event); err != nil {
					log.Printf("shop event send error to=%d: %v", ev.playerID, err)
					_ = conn.Close()
					delete(h.clients, ev.playerID)
				}
			}
		}
	}
}

// PushShopEvent implements services.ShopEventPusher.
func (h *ShopEventsHub) PushShopEvent(playerID int, event models.ShopEvent) {
	h.events <- shopEvent{playerID: playerID, event: event}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// ShopSocketHandler upgrades an authenticated request into the player's shop
// event stream. The stream is server to client; inbound frames only keep the
// connection alive.
func (app *application) ShopSocketHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := r.Context().Value("player_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	app.shopEvents.register <- wsClient{playerID: playerID, conn: conn}

	go pingLoop(app.shopEvents, conn, playerID)
	go discardIncoming(app.shopEvents, conn, playerID)
}

func pingLoop(hub *ShopEventsHub, conn *websocket.Conn, playerID int) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			hub.unregister <- unreg{playerID: playerID, conn: conn}
			return
		}
	}
}

func discardIncoming(hub *ShopEventsHub, conn *websocket.Conn, playerID int) {
	defer func() {
		hub.unregister <- unreg{playerID: playerID, conn: conn}
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
