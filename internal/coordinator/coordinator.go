// internal/coordinator/coordinator.go

package coordinator

import (
	"context"
	"sync"
	"time"

	"followme/internal/db"
	"followme/internal/device"
	"followme/internal/events"
	"followme/internal/logger"
)

// DefaultCooldown 主动刷新请求的合并间隔
const DefaultCooldown = time.Second

// Coordinator 按固定间隔把温度发送给空调，也响应主动刷新请求。
// 冷却期内的多次刷新请求合并为冷却期结束时的一次发送。
type Coordinator struct {
	device        *device.Device
	eventBus      *events.EventBus
	transmissions db.ITransmissionRepository

	mu          sync.Mutex
	interval    time.Duration
	cooldown    time.Duration
	lastRefresh time.Time
	running     bool

	refreshChan  chan struct{}
	intervalChan chan time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

func NewCoordinator(
	dev *device.Device,
	eventBus *events.EventBus,
	transmissions db.ITransmissionRepository,
	interval time.Duration,
) *Coordinator {
	if interval <= 0 {
		interval = time.Duration(dev.RefreshInterval()) * time.Second
	}
	if interval <= 0 {
		interval = 60 * time.Second // 默认60秒刷新一次
	}

	return &Coordinator{
		device:        dev,
		eventBus:      eventBus,
		transmissions: transmissions,
		interval:      interval,
		cooldown:      DefaultCooldown,
		refreshChan:   make(chan struct{}, 1),
		intervalChan:  make(chan time.Duration, 1),
		stopChan:      make(chan struct{}),
	}
}

// SetCooldown 修改刷新请求的合并间隔，需在 Start 之前调用
func (c *Coordinator) SetCooldown(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cooldown = d
}

func (c *Coordinator) Device() *device.Device {
	return c.device
}

func (c *Coordinator) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Start 启动刷新循环，第一次刷新立即执行
func (c *Coordinator) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	logger.Info("Coordinator started with interval: %v", c.Interval())
}

// Stop 停止刷新循环并等待正在进行的发送完成
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopChan)
	c.wg.Wait()
	logger.Info("Coordinator stopped")
}

func (c *Coordinator) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	refresh := func() {
		c.Refresh(ctx)
		ticker.Reset(c.Interval())
	}

	var pending <-chan time.Time
	refresh()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-c.refreshChan:
			if pending != nil {
				continue
			}
			if wait := c.untilCooldownEnds(); wait > 0 {
				pending = time.After(wait)
			} else {
				refresh()
			}
		case <-pending:
			pending = nil
			refresh()
		case d := <-c.intervalChan:
			ticker.Reset(d)
		case <-c.stopChan:
			return
		}
	}
}

func (c *Coordinator) untilCooldownEnds() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooldown - time.Since(c.lastRefresh)
}

// RequestRefresh 请求尽快刷新，不阻塞
func (c *Coordinator) RequestRefresh() {
	select {
	case c.refreshChan <- struct{}{}:
	default:
	}
}

// SetInterval 修改刷新间隔
func (c *Coordinator) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()
	c.device.SetRefreshInterval(int(d / time.Second))

	// 只保留最新的间隔
	select {
	case <-c.intervalChan:
	default:
	}
	select {
	case c.intervalChan <- d:
	default:
	}
}

// Refresh 立即发送一次，记录结果并发布事件
func (c *Coordinator) Refresh(ctx context.Context) (*device.Result, error) {
	c.mu.Lock()
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	logger.Debug("Coordinator refresh")
	res, err := c.device.SendTemperature(ctx)
	now := time.Now()
	ieee := c.device.IEEE()

	if err != nil {
		record := &db.Transmission{
			SentAt:  now,
			IEEE:    ieee,
			Level:   int(c.device.Encoder().Level()),
			Success: false,
			Error:   err.Error(),
		}
		if t := c.device.Temperature(); t != nil {
			record.Temperature = float64(*t)
		}
		c.record(record)
		c.publish(events.EventSendFailed, now, events.TransmissionEventData{
			IEEE:        ieee,
			Temperature: int(record.Temperature),
			Error:       err.Error(),
		})
		return nil, err
	}
	if !res.Sent {
		return res, nil
	}

	c.record(&db.Transmission{
		SentAt:      now,
		IEEE:        ieee,
		Temperature: float64(res.Temperature),
		Level:       int(res.Level),
		Code:        res.Code,
		Success:     true,
	})
	c.publish(events.EventCodeSent, now, events.TransmissionEventData{
		IEEE:        ieee,
		Temperature: res.Temperature,
		Code:        res.Code,
		Latency:     res.Latency.Seconds(),
	})
	return res, nil
}

func (c *Coordinator) record(t *db.Transmission) {
	if c.transmissions == nil {
		return
	}
	if err := c.transmissions.Record(t); err != nil {
		logger.Error("Failed to record transmission: %v", err)
	}
}

func (c *Coordinator) publish(eventType events.EventType, ts time.Time, data interface{}) {
	if c.eventBus == nil {
		return
	}
	c.eventBus.Publish(events.Event{
		Type:      eventType,
		DeviceID:  c.device.ID(),
		Timestamp: ts,
		Data:      data,
	})
}

// SetTemperature 更新传感器读数并请求刷新
func (c *Coordinator) SetTemperature(raw string) (int, error) {
	previous := c.device.Temperature()
	trend, value, err := c.device.SetTemperature(raw)
	if err != nil {
		return 0, err
	}
	data := events.TemperatureEventData{
		PreviousTemp: previous,
		Temperature:  value,
		Trend:        string(trend),
	}
	if reading := c.device.Status().Reading; reading != nil {
		data.Reading = *reading
	}
	c.publish(events.EventTemperatureChange, time.Now(), data)
	c.RequestRefresh()
	return value, nil
}

// SetEnabled 启用或停用发送并请求刷新
func (c *Coordinator) SetEnabled(enabled bool) {
	c.device.SetEnabled(enabled)
	c.publish(events.EventEnabledChange, time.Now(), enabled)
	c.RequestRefresh()
}
