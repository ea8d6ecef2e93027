// internal/device/device.go

package device

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"followme/internal/logger"
	"followme/internal/transport"
	"followme/internal/tuyair"
)

// Trend 温度变化趋势
type Trend string

const (
	TrendNone Trend = "none"
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Status 设备状态快照
type Status struct {
	ID              string    `json:"id"`
	IEEE            string    `json:"ieee"`
	Enabled         bool      `json:"enabled"`
	RefreshInterval int       `json:"refresh_interval"`
	Reading         *float64  `json:"reading,omitempty"`
	Temperature     *int      `json:"temperature,omitempty"`
	Trend           Trend     `json:"trend"`
	LastCode        string    `json:"last_code,omitempty"`
	LastSent        time.Time `json:"last_sent,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
}

// Result 一次发送的结果，Sent 为 false 表示设备停用或还没有温度
type Result struct {
	Sent        bool
	Temperature int
	Level       tuyair.Level
	Code        string
	Latency     time.Duration
}

// Device FollowMe 设备：保存要上报给空调的温度，并通过红外转发器发送
type Device struct {
	mu              sync.Mutex
	ieee            string
	enabled         bool
	refreshInterval int
	reading         *float64
	temperature     *int
	trend           Trend
	lastCode        string
	lastSent        time.Time
	lastErr         error

	encoder   *tuyair.Encoder
	transport transport.Transport
}

// New 创建设备，encoder 为 nil 时使用默认编码器
func New(ieee string, refreshInterval int, encoder *tuyair.Encoder, t transport.Transport) *Device {
	if encoder == nil {
		encoder = tuyair.DefaultEncoder()
	}
	return &Device{
		ieee:            ieee,
		enabled:         true,
		refreshInterval: refreshInterval,
		trend:           TrendNone,
		encoder:         encoder,
		transport:       t,
	}
}

// ID IEEE 地址的最后 5 个字符
func (d *Device) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return shortID(d.ieee)
}

func shortID(ieee string) string {
	if len(ieee) <= 5 {
		return ieee
	}
	return ieee[len(ieee)-5:]
}

func (d *Device) IEEE() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ieee
}

func (d *Device) SetIEEE(ieee string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ieee = ieee
}

func (d *Device) RefreshInterval() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshInterval
}

func (d *Device) SetRefreshInterval(seconds int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshInterval = seconds
}

func (d *Device) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

func (d *Device) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// Encoder 设备使用的编码器
func (d *Device) Encoder() *tuyair.Encoder {
	return d.encoder
}

// Temperature 待发送的温度，没有读数时返回 nil
func (d *Device) Temperature() *int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.temperature == nil {
		return nil
	}
	t := *d.temperature
	return &t
}

// SetTemperature 记录传感器读数。
// 第一次读数四舍六入五成双；之后只要读数有变化就向零截断（冬季规则）。
func (d *Device) SetTemperature(raw string) (Trend, int, error) {
	reading, err := tuyair.ParseTemperature(raw)
	if err != nil {
		return TrendNone, 0, err
	}
	logger.Info("temperature: %v", reading)

	d.mu.Lock()
	defer d.mu.Unlock()

	toSend := int(math.RoundToEven(reading))
	trend := TrendNone
	if d.reading != nil {
		switch {
		case *d.reading < reading:
			trend = TrendUp
		case *d.reading > reading:
			trend = TrendDown
		}
	}
	if trend != TrendNone {
		toSend = int(reading)
	}

	d.reading = &reading
	d.temperature = &toSend
	d.trend = trend
	logger.Info("temperature_to_send: %d", toSend)
	return trend, toSend, nil
}

// SendTemperature 设备启用且有温度时编码并发送
func (d *Device) SendTemperature(ctx context.Context) (*Result, error) {
	d.mu.Lock()
	enabled, ieee := d.enabled, d.ieee
	var temperature *int
	if d.temperature != nil {
		t := *d.temperature
		temperature = &t
	}
	d.mu.Unlock()

	if temperature == nil || !enabled {
		logger.Debug("nothing to send, enabled: %v", enabled)
		return &Result{}, nil
	}
	logger.Info("temperature to send: %d", *temperature)

	start := time.Now()
	code, err := d.encoder.Encode(float64(*temperature))
	if err != nil {
		d.setError(err)
		return nil, fmt.Errorf("encode temperature %d: %w", *temperature, err)
	}
	logger.Info("ir code to send: %s", code)

	if err := d.transport.Send(ctx, transport.NewIRCommand(ieee, code)); err != nil {
		d.setError(err)
		return nil, fmt.Errorf("send ir code: %w", err)
	}

	d.mu.Lock()
	d.lastCode = code
	d.lastSent = time.Now()
	d.lastErr = nil
	d.mu.Unlock()

	return &Result{
		Sent:        true,
		Temperature: *temperature,
		Level:       d.encoder.Level(),
		Code:        code,
		Latency:     time.Since(start),
	}, nil
}

func (d *Device) setError(err error) {
	logger.Error("%v", err)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = err
}

// Status 当前状态快照
func (d *Device) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Status{
		ID:              shortID(d.ieee),
		IEEE:            d.ieee,
		Enabled:         d.enabled,
		RefreshInterval: d.refreshInterval,
		Trend:           d.trend,
		LastCode:        d.lastCode,
		LastSent:        d.lastSent,
	}
	if d.reading != nil {
		r := *d.reading
		s.Reading = &r
	}
	if d.temperature != nil {
		t := *d.temperature
		s.Temperature = &t
	}
	if d.lastErr != nil {
		s.LastError = d.lastErr.Error()
	}
	return s
}
