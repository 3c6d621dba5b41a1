// Package stream pushes report events to WebSocket subscribers of a company.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FinRisk/internal/domain/models"
	svcmetrics "FinRisk/internal/service/metrics"
	apphttp "FinRisk/pkg/http"
	applogger "FinRisk/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans report events out to the clients subscribed to the event's tax id.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan models.ReportEvent
	register   chan *client
	unregister chan *client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *applogger.Logger
	metrics    *svcmetrics.StreamMetrics
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	taxID string
}

func NewHub(l *applogger.Logger, m *svcmetrics.StreamMetrics) *Hub {
	if l == nil {
		l = applogger.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan models.ReportEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        l,
		metrics:    m,
	}
}

// Run is the hub's event loop. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.setClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.setClients()
			h.log.Debug("stream client connected", applogger.String("tax_id", c.taxID))

		case c := <-h.unregister:
			h.drop(c)
			h.log.Debug("stream client disconnected", applogger.String("tax_id", c.taxID))

		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev models.ReportEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("stream event marshal failed", applogger.Error(err))
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if c.taxID != ev.TaxID {
			continue
		}
		select {
		case c.send <- data:
			h.count(func(m *svcmetrics.StreamMetrics) { m.Delivered.Inc() })
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.count(func(m *svcmetrics.StreamMetrics) { m.Dropped.WithLabelValues("slow_client").Inc() })
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.setClients()
}

func (h *Hub) setClients() {
	n := h.ClientCount()
	h.count(func(m *svcmetrics.StreamMetrics) { m.Clients.Set(float64(n)) })
}

func (h *Hub) count(fn func(*svcmetrics.StreamMetrics)) {
	if h.metrics != nil {
		fn(h.metrics)
	}
}

// Stop ends the event loop and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Notify queues ev for delivery without blocking the caller.
func (h *Hub) Notify(ev models.ReportEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.count(func(m *svcmetrics.StreamMetrics) { m.Dropped.WithLabelValues("hub_full").Inc() })
		h.log.Warn("stream broadcast channel full, dropping event", applogger.String("tax_id", ev.TaxID))
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/risk", h.ServeWS)
}

// ServeWS upgrades the request and subscribes it to ?taxId=.
func (h *Hub) ServeWS(c echo.Context) error {
	taxID := c.QueryParam("taxId")
	if taxID == "" {
		return apphttp.AppErrorResponse(c, apphttp.BadRequestError("taxId", "taxId is required"))
	}
	if !models.ValidTaxID(taxID) {
		return apphttp.AppErrorResponse(c, apphttp.BadRequestError("taxId", "taxId must be a 10-digit tax code"))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("stream upgrade failed", applogger.Error(err))
		return nil
	}

	cl := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), taxID: taxID}
	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go cl.writePump()
	go cl.readPump()
	return nil
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for close and pongs; clients send nothing.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
