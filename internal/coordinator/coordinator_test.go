package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followme/internal/db"
	"followme/internal/device"
	"followme/internal/events"
	"followme/internal/transport"
)

type fakeTransport struct {
	mu   sync.Mutex
	sent []transport.Command
	err  error
}

func (f *fakeTransport) Send(ctx context.Context, cmd transport.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func setup(t *testing.T, name string) (*Coordinator, *fakeTransport, db.ITransmissionRepository) {
	gdb, err := db.Open(db.MemoryDSN(name))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ft := &fakeTransport{}
	dev := device.New("a4:c1:38:00:00:12:34:56", 60, nil, ft)
	repo := db.NewTransmissionRepository(gdb)
	c := NewCoordinator(dev, events.NewEventBus(), repo, time.Hour)
	return c, ft, repo
}

func TestRefreshRecordsTransmission(t *testing.T) {
	c, ft, repo := setup(t, "coord_refresh")

	// 没有温度时不发送
	res, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, 0, ft.count())

	c.Device().SetTemperature("21")
	res, err = c.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 1, ft.count())

	last, err := repo.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Success)
	assert.Equal(t, 21.0, last.Temperature)
	assert.Equal(t, res.Code, last.Code)
	assert.Equal(t, "a4:c1:38:00:00:12:34:56", last.IEEE)
}

func TestRefreshFailure(t *testing.T) {
	c, ft, repo := setup(t, "coord_failure")

	received := make(chan events.Event, 1)
	c.eventBus.Subscribe(events.EventSendFailed, func(e events.Event) {
		received <- e
	})

	ft.err = errors.New("unavailable")
	c.Device().SetTemperature("19")
	_, err := c.Refresh(context.Background())
	require.Error(t, err)

	last, err := repo.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.False(t, last.Success)
	assert.Contains(t, last.Error, "unavailable")
	assert.Equal(t, 19.0, last.Temperature)

	select {
	case e := <-received:
		assert.Equal(t, "34:56", e.DeviceID)
	case <-time.After(time.Second):
		t.Fatal("expected SendFailed event")
	}
}

func TestDisabledDoesNotSend(t *testing.T) {
	c, ft, _ := setup(t, "coord_disabled")

	c.Device().SetTemperature("21")
	c.SetEnabled(false)
	res, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, 0, ft.count())
}

func TestStartSendsImmediately(t *testing.T) {
	c, ft, _ := setup(t, "coord_start")
	c.Device().SetTemperature("23")

	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool { return ft.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRequestRefreshDebounce(t *testing.T) {
	c, ft, _ := setup(t, "coord_debounce")
	c.SetCooldown(300 * time.Millisecond)

	c.Start()
	defer c.Stop()

	// 启动时没有温度，不发送
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, ft.count())

	_, err := c.SetTemperature("21.5")
	require.NoError(t, err)
	_, err = c.SetTemperature("22.5")
	require.NoError(t, err)
	_, err = c.SetTemperature("23.5")
	require.NoError(t, err)

	// 冷却期内的请求合并为一次
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, ft.count())
	assert.Eventually(t, func() bool { return ft.count() == 1 }, time.Second, 10*time.Millisecond)

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, ft.count())

	// 冷却期过后立即执行
	c.RequestRefresh()
	assert.Eventually(t, func() bool { return ft.count() == 2 }, 200*time.Millisecond, 10*time.Millisecond)
}

func TestSetInterval(t *testing.T) {
	c, ft, _ := setup(t, "coord_interval")
	c.Device().SetTemperature("21")

	c.Start()
	defer c.Stop()
	assert.Eventually(t, func() bool { return ft.count() == 1 }, time.Second, 10*time.Millisecond)

	c.SetInterval(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.Interval())
	assert.Eventually(t, func() bool { return ft.count() >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	c, _, _ := setup(t, "coord_stop")
	c.Start()
	c.Stop()
	c.Stop()
}
