package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followme/internal/db"
	"followme/internal/device"
	"followme/internal/events"
	"followme/internal/transport"
)

func TestMetricsFromEvents(t *testing.T) {
	bus := events.NewEventBus()
	dev := device.New("a4:c1:38:00:00:12:34:56", 60, nil, transport.DryRun{})
	m := NewMonitor(bus, dev, nil, time.Hour, 0)
	m.Start()
	defer m.Stop()

	now := time.Now()
	bus.Publish(events.Event{Type: events.EventCodeSent, Timestamp: now, Data: events.TransmissionEventData{Latency: 0.2}})
	bus.Publish(events.Event{Type: events.EventCodeSent, Timestamp: now, Data: events.TransmissionEventData{Latency: 0.4}})
	bus.Publish(events.Event{Type: events.EventSendFailed, Timestamp: now, Data: events.TransmissionEventData{Error: "timeout"}})
	bus.Publish(events.Event{Type: events.EventTemperatureChange, Timestamp: now})

	require.Eventually(t, func() bool {
		metrics := m.GetMetrics()
		return metrics.TotalSent == 2 && metrics.TotalFailed == 1 && metrics.TemperatureChanges == 1
	}, time.Second, 10*time.Millisecond)

	metrics := m.GetMetrics()
	assert.InDelta(t, 0.3, metrics.AvgLatency, 1e-9)
	assert.Equal(t, "timeout", metrics.LastError)
	assert.Equal(t, "34:56", metrics.Device.ID)
}

func TestConsecutiveFailuresReset(t *testing.T) {
	m := NewMonitor(events.NewEventBus(), device.New("00:11", 60, nil, transport.DryRun{}), nil, time.Hour, 0)

	m.handleEvent(events.Event{Type: events.EventSendFailed, Data: events.TransmissionEventData{Error: "a"}})
	m.handleEvent(events.Event{Type: events.EventSendFailed, Data: events.TransmissionEventData{Error: "b"}})
	assert.Equal(t, 2, m.GetMetrics().ConsecutiveFailures)

	m.handleEvent(events.Event{Type: events.EventCodeSent, Data: events.TransmissionEventData{}})
	assert.Equal(t, 0, m.GetMetrics().ConsecutiveFailures)
	assert.Equal(t, 2, m.GetMetrics().TotalFailed)
}

func TestPurge(t *testing.T) {
	gdb, err := db.Open(db.MemoryDSN("monitor_purge"))
	require.NoError(t, err)
	repo := db.NewTransmissionRepository(gdb)

	require.NoError(t, repo.Record(&db.Transmission{SentAt: time.Now().Add(-48 * time.Hour), Success: true}))
	require.NoError(t, repo.Record(&db.Transmission{SentAt: time.Now(), Success: true}))

	m := NewMonitor(events.NewEventBus(), device.New("00:11", 60, nil, transport.DryRun{}), repo, time.Hour, 24*time.Hour)
	require.NoError(t, m.purge())

	records, err := repo.Recent(10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
