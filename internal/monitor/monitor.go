// internal/monitor/monitor.go

package monitor

import (
	"sync"
	"time"

	"followme/internal/db"
	"followme/internal/device"
	"followme/internal/events"
	"followme/internal/logger"
)

// Metrics 发送统计
type Metrics struct {
	Timestamp           time.Time     `json:"timestamp"`
	Device              device.Status `json:"device"`
	TotalSent           int           `json:"total_sent"`
	TotalFailed         int           `json:"total_failed"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	AvgLatency          float64       `json:"avg_latency"`
	LastTransmission    time.Time     `json:"last_transmission,omitempty"`
	LastError           string        `json:"last_error,omitempty"`
	TemperatureChanges  int           `json:"temperature_changes"`
}

type Monitor struct {
	mu              sync.RWMutex
	eventBus        *events.EventBus
	device          *device.Device
	transmissions   db.ITransmissionRepository
	monitorInterval time.Duration
	retention       time.Duration
	metrics         *Metrics
	totalLatency    float64
	subscriptions   []events.Subscription
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewMonitor(
	eventBus *events.EventBus,
	dev *device.Device,
	transmissions db.ITransmissionRepository,
	interval time.Duration,
	retention time.Duration,
) *Monitor {
	if interval == 0 {
		interval = 5 * time.Minute // 默认5分钟报告一次
	}

	return &Monitor{
		eventBus:        eventBus,
		device:          dev,
		transmissions:   transmissions,
		monitorInterval: interval,
		retention:       retention,
		metrics:         &Metrics{},
		stopChan:        make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	m.subscriptions = append(m.subscriptions,
		m.eventBus.Subscribe(events.EventCodeSent, m.handleEvent),
		m.eventBus.Subscribe(events.EventSendFailed, m.handleEvent),
		m.eventBus.Subscribe(events.EventTemperatureChange, m.handleEvent),
	)
	go m.run()
	logger.Info("Monitor started with interval: %v", m.monitorInterval)
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		for _, sub := range m.subscriptions {
			m.eventBus.Unsubscribe(sub)
		}
		close(m.stopChan)
		logger.Info("Monitor stopped")
	})
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.publishMetrics()
			if err := m.purge(); err != nil {
				logger.Error("Failed to purge transmissions: %v", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) handleEvent(e events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Type {
	case events.EventCodeSent:
		m.metrics.TotalSent++
		m.metrics.ConsecutiveFailures = 0
		m.metrics.LastTransmission = e.Timestamp
		if data, ok := e.Data.(events.TransmissionEventData); ok {
			m.totalLatency += data.Latency
			m.metrics.AvgLatency = m.totalLatency / float64(m.metrics.TotalSent)
		}
	case events.EventSendFailed:
		m.metrics.TotalFailed++
		m.metrics.ConsecutiveFailures++
		if data, ok := e.Data.(events.TransmissionEventData); ok {
			m.metrics.LastError = data.Error
		}
	case events.EventTemperatureChange:
		m.metrics.TemperatureChanges++
	}
}

// purge 删除超过保留期的发送记录
func (m *Monitor) purge() error {
	if m.retention <= 0 || m.transmissions == nil {
		return nil
	}
	n, err := m.transmissions.PurgeBefore(time.Now().Add(-m.retention))
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Purged %d transmissions older than %v", n, m.retention)
	}
	return nil
}

func (m *Monitor) publishMetrics() {
	metrics := m.GetMetrics()
	status := metrics.Device

	logger.Info("=== FollowMe Status Report ===")
	logger.Info("Device %s (%s): enabled=%v, interval=%ds", status.ID, status.IEEE, status.Enabled, status.RefreshInterval)
	if status.Temperature != nil {
		logger.Info("Temperature to send: %d, trend: %s", *status.Temperature, status.Trend)
	}
	logger.Info("Sent: %d, Failed: %d, Consecutive failures: %d, Avg latency: %.3fs",
		metrics.TotalSent,
		metrics.TotalFailed,
		metrics.ConsecutiveFailures,
		metrics.AvgLatency)
	if metrics.ConsecutiveFailures > 0 {
		logger.Warn("Last error: %s", metrics.LastError)
	}
	logger.Info("======================================")
}

// GetMetrics 获取当前统计的副本
func (m *Monitor) GetMetrics() Metrics {
	m.mu.RLock()
	metrics := *m.metrics
	m.mu.RUnlock()

	metrics.Timestamp = time.Now()
	metrics.Device = m.device.Status()
	return metrics
}
