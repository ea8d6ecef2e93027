package device

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followme/internal/transport"
	"followme/internal/tuyair"
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

func TestID(t *testing.T) {
	d := New("a4:c1:38:00:00:12:34:56", 60, nil, &fakeTransport{})
	assert.Equal(t, "34:56", d.ID())

	d.SetIEEE("abc")
	assert.Equal(t, "abc", d.ID())
}

func TestSetTemperature(t *testing.T) {
	d := New("00:11", 60, nil, &fakeTransport{})

	trend, value, err := d.SetTemperature("21.5")
	require.NoError(t, err)
	assert.Equal(t, TrendNone, trend)
	assert.Equal(t, 22, value)

	// 读数上升后向零截断
	trend, value, err = d.SetTemperature("22.9")
	require.NoError(t, err)
	assert.Equal(t, TrendUp, trend)
	assert.Equal(t, 22, value)

	trend, value, err = d.SetTemperature("21.7")
	require.NoError(t, err)
	assert.Equal(t, TrendDown, trend)
	assert.Equal(t, 21, value)

	// 读数不变时恢复取整
	trend, value, err = d.SetTemperature("21.7")
	require.NoError(t, err)
	assert.Equal(t, TrendNone, trend)
	assert.Equal(t, 22, value)

	_, _, err = d.SetTemperature("unavailable")
	assert.ErrorIs(t, err, tuyair.ErrParseTemperature)
	require.NotNil(t, d.Temperature())
	assert.Equal(t, 22, *d.Temperature())
}

func TestSendTemperature(t *testing.T) {
	ft := &fakeTransport{}
	d := New("a4:c1:38:00:00:12:34:56", 60, nil, ft)

	// 没有温度时不发送
	res, err := d.SendTemperature(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Empty(t, ft.sent)

	_, _, err = d.SetTemperature("21")
	require.NoError(t, err)

	res, err = d.SendTemperature(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 21, res.Temperature)

	expected, err := tuyair.EncodeTemperature(21)
	require.NoError(t, err)
	assert.Equal(t, expected, res.Code)

	require.Len(t, ft.sent, 1)
	assert.Equal(t, "a4:c1:38:00:00:12:34:56", ft.sent[0].IEEE)
	assert.Equal(t, transport.ClusterID, ft.sent[0].ClusterID)
	assert.Equal(t, expected, ft.sent[0].Code())

	status := d.Status()
	assert.Equal(t, expected, status.LastCode)
	assert.Empty(t, status.LastError)
	assert.False(t, status.LastSent.IsZero())

	// 停用后不发送
	d.SetEnabled(false)
	res, err = d.SendTemperature(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Len(t, ft.sent, 1)
}

func TestSendTemperatureErrors(t *testing.T) {
	ft := &fakeTransport{err: errors.New("blaster offline")}
	d := New("00:11", 60, nil, ft)
	_, _, err := d.SetTemperature("25")
	require.NoError(t, err)

	_, err = d.SendTemperature(context.Background())
	require.Error(t, err)
	assert.Contains(t, d.Status().LastError, "blaster offline")

	// 超出编码范围的温度
	ft.err = nil
	_, _, err = d.SetTemperature("85")
	require.NoError(t, err)
	_, err = d.SendTemperature(context.Background())
	assert.ErrorIs(t, err, tuyair.ErrTemperatureRange)
	assert.Empty(t, ft.sent)
}
