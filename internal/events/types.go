package events

import "time"

// EventType 事件类型定义
type EventType int

const (
	// 系统事件
	EventSystemStartup EventType = iota
	EventSystemShutdown
	EventConfigChanged

	// 设备事件
	EventTemperatureChange
	EventEnabledChange

	// 发送事件
	EventCodeSent
	EventSendFailed
)

// Event 事件结构
type Event struct {
	Type      EventType   `json:"type"`
	DeviceID  string      `json:"device_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Handler 事件处理函数类型
type Handler func(Event)

// Subscription 事件订阅信息
type Subscription struct {
	ID        int
	EventType EventType
	Handler   Handler
}

// 温度变化数据
type TemperatureEventData struct {
	Reading      float64 `json:"reading"`
	PreviousTemp *int    `json:"previous_temp,omitempty"`
	Temperature  int     `json:"temperature"`
	Trend        string  `json:"trend"`
}

// 发送结果数据
type TransmissionEventData struct {
	IEEE        string  `json:"ieee"`
	Temperature int     `json:"temperature"`
	Code        string  `json:"code,omitempty"`
	Error       string  `json:"error,omitempty"`
	Latency     float64 `json:"latency"`
}

// 配置变更数据
type ConfigEventData struct {
	IEEE                string   `json:"ieee"`
	ScanInterval        int      `json:"scan_interval"`
	TemperatureEntityID string   `json:"temperature_entity_id"`
	ChangedSettings     []string `json:"changed_settings"`
}

// EventNames 提供事件类型的字符串表示
var EventNames = map[EventType]string{
	EventSystemStartup:     "SystemStartup",
	EventSystemShutdown:    "SystemShutdown",
	EventConfigChanged:     "ConfigChanged",
	EventTemperatureChange: "TemperatureChange",
	EventEnabledChange:     "EnabledChange",
	EventCodeSent:          "CodeSent",
	EventSendFailed:        "SendFailed",
}

func (t EventType) String() string {
	if name, ok := EventNames[t]; ok {
		return name
	}
	return "Unknown"
}
