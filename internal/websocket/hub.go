package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// Event 任务生命周期事件,推送给在线的审核人
type Event struct {
	Type      string    `json:"type"` // task_created/task_submitted/task_completed/task_rejected
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub 管理所有 WebSocket 连接
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	// 广播消息到所有客户端
	Broadcast chan []byte

	// 注册新客户端
	Register chan *Client

	// 注销客户端
	Unregister chan *Client

	// 互斥锁,保护 clients map
	mu sync.RWMutex
}

// NewHub 创建新的 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run 运行 Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			// 发送失败会移除客户端,需要写锁
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// TaskEvent 广播任务生命周期事件
// 实现 service.EventNotifier;序列化失败或通道满时事件被丢弃,
// 事件推送是尽力而为,不影响状态迁移本身
func (h *Hub) TaskEvent(eventType, taskID, taskName, actorID string) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		TaskID:    taskID,
		TaskName:  taskName,
		ActorID:   actorID,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- data:
	default:
	}
}

// GetClientCount 获取客户端数量
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
