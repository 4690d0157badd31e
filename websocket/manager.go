// websocket/manager.go
package websocket

import (
	"context"
	"encoding/json"

	"github.com/LilVoxy/sales_dwh/ETL/pipeline"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// NewHub создает новый хаб событий
func NewHub(logger *utils.ETLLogger) *Hub {
	return &Hub{
		clients:    make(map[uint64]*Client),
		broadcast:  make(chan []byte, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает подключения до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.count.Store(0)
			return

		case client := <-h.register:
			h.clients[client.ID] = client
			h.count.Add(1)
			h.logger.Debug("Клиент %d подписался на события", client.ID)

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
				h.count.Add(-1)
				h.logger.Debug("Клиент %d отключился", client.ID)
			}

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// fanOut отправляет сообщение всем клиентам; медленный клиент отключается
func (h *Hub) fanOut(message []byte) {
	for id, client := range h.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, id)
			h.count.Add(-1)
			h.logger.Warn("Клиент %d не успевает читать события и отключен", id)
		}
	}
}

// Publish ставит событие в очередь рассылки без блокировки.
// При переполненной очереди событие отбрасывается.
func (h *Hub) Publish(event pipeline.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Ошибка кодирования события: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.dropped.Add(1)
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Dropped возвращает число отброшенных событий
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
