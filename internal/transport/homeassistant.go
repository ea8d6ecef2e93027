// internal/transport/homeassistant.go

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"followme/internal/logger"
)

const zhaServicePath = "/api/services/zha/issue_zigbee_cluster_command"

// HomeAssistant 通过 Home Assistant REST API 调用 zha.issue_zigbee_cluster_command
type HomeAssistant struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHomeAssistant 创建 Home Assistant 发送器，timeout 为 0 时使用 10 秒
func NewHomeAssistant(baseURL, token string, timeout time.Duration) *HomeAssistant {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HomeAssistant{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send 发送命令
func (h *HomeAssistant) Send(ctx context.Context, cmd Command) error {
	if cmd.Code() == "" {
		return ErrEmptyCode
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode service data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+zhaServicePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	logger.Debug("service_data is %s", body)
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("call zha service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("zha service returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// DryRun 只记录日志，不发送
type DryRun struct{}

func (DryRun) Send(ctx context.Context, cmd Command) error {
	if cmd.Code() == "" {
		return ErrEmptyCode
	}
	logger.Info("[dry-run] ieee=%s cluster=%d command=%d code=%s", cmd.IEEE, cmd.ClusterID, cmd.Command, cmd.Code())
	return nil
}
