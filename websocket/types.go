// websocket/types.go
package websocket

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Клиент WebSocket, подписанный на события хода выполнения
type Client struct {
	ID     uint64
	Socket *websocket.Conn
	Send   chan []byte
	hub    *Hub
}

// Hub рассылает события хода выполнения всем подключенным клиентам
type Hub struct {
	clients    map[uint64]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	nextID  atomic.Uint64
	count   atomic.Int64
	dropped atomic.Int64
	logger  *utils.ETLLogger
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // отчеты читаются из любого источника
	},
}
