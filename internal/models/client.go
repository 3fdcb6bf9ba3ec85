package models

import (
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// SubscribeAll subscribes a dashboard client to every tracked asset.
const SubscribeAll = "*"

type Client struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan *LivePrice
	Symbols   map[string]bool
	SymbolsMu sync.RWMutex
	WriteMu   sync.Mutex
	closeOnce sync.Once
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:      id,
		Conn:    conn,
		Send:    make(chan *LivePrice, 256),
		Symbols: make(map[string]bool),
	}
}

func (c *Client) Subscribe(symbol string) {
	c.SymbolsMu.Lock()
	c.Symbols[strings.ToUpper(symbol)] = true
	c.SymbolsMu.Unlock()
}

func (c *Client) Unsubscribe(symbol string) {
	c.SymbolsMu.Lock()
	delete(c.Symbols, strings.ToUpper(symbol))
	c.SymbolsMu.Unlock()
}

func (c *Client) IsSubscribed(symbol string) bool {
	c.SymbolsMu.RLock()
	defer c.SymbolsMu.RUnlock()
	return c.Symbols[SubscribeAll] || c.Symbols[strings.ToUpper(symbol)]
}

func (c *Client) SubscribedSymbols() []string {
	c.SymbolsMu.RLock()
	defer c.SymbolsMu.RUnlock()
	symbols := make([]string, 0, len(c.Symbols))
	for symbol := range c.Symbols {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Close stops the write pump by closing Send. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

type SocketMessage struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

type SubscriptionResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Symbols []string `json:"symbols,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
