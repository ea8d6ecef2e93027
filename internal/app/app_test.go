package app

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followme/internal/config"
	"followme/internal/db"
)

func TestAppLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database = db.MemoryDSN("app_lifecycle")
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.LogLevel = "error"

	a := NewApp(cfg)
	require.NoError(t, a.Initialize())
	require.NoError(t, a.Start())

	base := "http://" + a.Addr()
	resp, err := http.Post(base+"/api/temperature", "application/json", strings.NewReader(`{"temperature":"21"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 刷新请求发送到 dry-run 转发器
	assert.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body struct {
			Data struct {
				LastCode string `json:"last_code"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return false
		}
		return body.Data.LastCode != ""
	}, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Stop(ctx))
}

func TestInitializeInvalidLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "verbose"
	assert.Error(t, NewApp(cfg).Initialize())
}
