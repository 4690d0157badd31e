// websocket/connection_handler.go
package websocket

import (
	"net/http"
)

// HandleConnections переводит запрос в WebSocket-соединение и подписывает клиента
func (h *Hub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Ошибка при установке WebSocket-соединения: %v", err)
		return
	}

	client := &Client{
		ID:     h.nextID.Add(1),
		Socket: conn,
		Send:   make(chan []byte, sendBufferSize),
		hub:    h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	h.logger.Info("Клиент %d подключился с адреса %s", client.ID, r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}
