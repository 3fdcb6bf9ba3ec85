package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *Hub
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// @Summary Live price stream
// @Description Upgrades to a websocket. Send {"action":"subscribe","symbol":"BTC"} (or "*") to receive refreshed prices.
// @Tags Prices
// @Router /ws [get]
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := h.hub.RegisterClient(conn)
	if client == nil {
		conn.Close()
		return
	}

	go h.readPump(client)
	go h.writePump(client)
}

func (h *WebSocketHandler) readPump(client *models.Client) {
	defer func() {
		h.hub.UnregisterClient(client)
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("Websocket read failed", zap.String("client_id", client.ID), zap.Error(err))
			}
			break
		}

		var socketMsg models.SocketMessage
		if err := json.Unmarshal(message, &socketMsg); err != nil {
			h.reply(client, models.ErrorResponse{Error: "Invalid message format"})
			continue
		}

		switch socketMsg.Action {
		case "subscribe":
			client.Subscribe(socketMsg.Symbol)
			h.reply(client, models.SubscriptionResponse{
				Status:  "success",
				Message: "Subscribed to " + socketMsg.Symbol,
				Symbols: client.SubscribedSymbols(),
			})

		case "unsubscribe":
			client.Unsubscribe(socketMsg.Symbol)
			h.reply(client, models.SubscriptionResponse{
				Status:  "success",
				Message: "Unsubscribed from " + socketMsg.Symbol,
				Symbols: client.SubscribedSymbols(),
			})

		default:
			h.reply(client, models.ErrorResponse{Error: "Unknown action"})
		}
	}
}

// reply shares WriteMu with the write pump; a connection supports one
// concurrent writer.
func (h *WebSocketHandler) reply(client *models.Client, v interface{}) {
	client.WriteMu.Lock()
	defer client.WriteMu.Unlock()
	client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = client.Conn.WriteJSON(v)
}

func (h *WebSocketHandler) writePump(client *models.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case price, ok := <-client.Send:
			client.WriteMu.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				client.WriteMu.Unlock()
				return
			}
			err := client.Conn.WriteJSON(price)
			client.WriteMu.Unlock()
			if err != nil {
				return
			}

		case <-ticker.C:
			client.WriteMu.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.Conn.WriteMessage(websocket.PingMessage, nil)
			client.WriteMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
