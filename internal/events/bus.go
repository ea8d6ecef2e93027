package events

import (
	"sync"
)

// EventBus 是事件总线的实现
type EventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType][]Subscription
}

// NewEventBus 创建新的事件总线
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]Subscription),
	}
}

// Publish 发布事件
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, sub := range eb.handlers[event.Type] {
		go sub.Handler(event) // 异步处理事件
	}
}

// Subscribe 订阅事件
func (eb *EventBus) Subscribe(eventType EventType, handler Handler) Subscription {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	sub := Subscription{
		ID:        eb.nextID,
		EventType: eventType,
		Handler:   handler,
	}
	eb.handlers[eventType] = append(eb.handlers[eventType], sub)
	return sub
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(sub Subscription) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.handlers[sub.EventType]
	for i, s := range subs {
		if s.ID == sub.ID {
			// 从切片中移除处理器
			eb.handlers[sub.EventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}
