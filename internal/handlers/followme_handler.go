// internal/handlers/followme_handler.go

package handlers

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"followme/internal/coordinator"
	"followme/internal/db"
	"followme/internal/events"
	"followme/internal/logger"
	"followme/internal/monitor"
	"followme/internal/report"
	"followme/internal/tuyair"
)

// 编码请求，level 和 rounding 为空时使用设备的编码器设置
type EncodeRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
	Level       *int     `json:"level,omitempty" binding:"omitempty,min=0,max=3"`
	Rounding    string   `json:"rounding,omitempty" binding:"omitempty,oneof=half_even half_up"`
}

// 编码响应
type EncodeResponse struct {
	Temperature float64 `json:"temperature"`
	Level       int     `json:"level"`
	Frame       string  `json:"frame"`
	Pulses      []int   `json:"pulses"`
	Code        string  `json:"code"`
}

// 传感器读数，使用字符串以保留原始格式
type TemperatureRequest struct {
	Temperature string `json:"temperature" binding:"required"`
}

type EnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// 设备选项
type OptionsRequest struct {
	IEEE                string `json:"ieee" binding:"required"`
	ScanInterval        int    `json:"scan_interval" binding:"required,min=5,max=180"`
	TemperatureEntityID string `json:"temperature_entity_id"`
}

// 发送结果
type RefreshResponse struct {
	Sent        bool    `json:"sent"`
	Temperature int     `json:"temperature,omitempty"`
	Code        string  `json:"code,omitempty"`
	Latency     float64 `json:"latency,omitempty"`
}

type FollowMeHandler struct {
	coordinator   *coordinator.Coordinator
	options       db.IOptionsRepository
	transmissions db.ITransmissionRepository
	eventBus      *events.EventBus
	monitor       *monitor.Monitor
}

func NewFollowMeHandler(
	coord *coordinator.Coordinator,
	options db.IOptionsRepository,
	transmissions db.ITransmissionRepository,
	eventBus *events.EventBus,
	mon *monitor.Monitor,
) *FollowMeHandler {
	return &FollowMeHandler{
		coordinator:   coord,
		options:       options,
		transmissions: transmissions,
		eventBus:      eventBus,
		monitor:       mon,
	}
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := Response{Code: 400, Msg: msg}
	if err != nil {
		resp.Err = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func serverError(c *gin.Context, msg string, err error) {
	logger.Error("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, Response{
		Code: 500,
		Msg:  msg,
		Err:  err.Error(),
	})
}

// Encode 把温度编码为红外码，不发送
func (h *FollowMeHandler) Encode(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	base := h.coordinator.Device().Encoder()
	level, rounding := base.Level(), base.Rounding()
	if req.Level != nil {
		level = tuyair.Level(*req.Level)
	}
	if req.Rounding != "" {
		var err error
		if rounding, err = tuyair.ParseRoundingMode(req.Rounding); err != nil {
			badRequest(c, "无效的取整方式", err)
			return
		}
	}

	encoder, err := tuyair.NewEncoder(level, rounding, tuyair.FollowMeTiming)
	if err != nil {
		badRequest(c, "无效的编码参数", err)
		return
	}
	cmd, err := encoder.Command(*req.Temperature)
	if err != nil {
		if errors.Is(err, tuyair.ErrTemperatureRange) {
			badRequest(c, "温度超出范围", err)
			return
		}
		serverError(c, "编码失败", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "编码成功",
		Data: EncodeResponse{
			Temperature: cmd.Temperature,
			Level:       int(level),
			Frame:       strings.ToUpper(hex.EncodeToString(cmd.Frame)),
			Pulses:      cmd.Pulses,
			Code:        cmd.Code,
		},
	})
}

// SetTemperature 更新传感器读数，随后发送
func (h *FollowMeHandler) SetTemperature(c *gin.Context) {
	var req TemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	value, err := h.coordinator.SetTemperature(req.Temperature)
	if err != nil {
		badRequest(c, "无效的温度", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "温度已更新",
		Data: gin.H{
			"temperature": value,
		},
	})
}

// SetEnabled 启用或停用发送
func (h *FollowMeHandler) SetEnabled(c *gin.Context) {
	var req EnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := h.options.SetEnabled(*req.Enabled); err != nil {
		serverError(c, "保存设置失败", err)
		return
	}
	h.coordinator.SetEnabled(*req.Enabled)

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "设置成功",
		Data: gin.H{
			"enabled": *req.Enabled,
		},
	})
}

// Refresh 立即发送一次
func (h *FollowMeHandler) Refresh(c *gin.Context) {
	res, err := h.coordinator.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, Response{
			Code: 502,
			Msg:  "发送失败",
			Err:  err.Error(),
		})
		return
	}

	data := RefreshResponse{Sent: res.Sent}
	if res.Sent {
		data.Temperature = res.Temperature
		data.Code = res.Code
		data.Latency = res.Latency.Seconds()
	}
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "刷新完成",
		Data: data,
	})
}

// GetStatus 设备状态
func (h *FollowMeHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "获取状态成功",
		Data: h.coordinator.Device().Status(),
	})
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 1000 {
		badRequest(c, "无效的 limit", err)
		return 0, false
	}
	return n, true
}

// GetMetrics 发送统计
func (h *FollowMeHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "获取统计成功",
		Data: h.monitor.GetMetrics(),
	})
}

// GetTransmissions 最近的发送记录
func (h *FollowMeHandler) GetTransmissions(c *gin.Context) {
	limit, ok := queryLimit(c, 20)
	if !ok {
		return
	}

	records, err := h.transmissions.Recent(limit)
	if err != nil {
		serverError(c, "查询发送记录失败", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "查询成功",
		Data: records,
	})
}

// ExportTransmissions 导出发送记录 PDF
func (h *FollowMeHandler) ExportTransmissions(c *gin.Context) {
	limit, ok := queryLimit(c, 100)
	if !ok {
		return
	}

	records, err := h.transmissions.Recent(limit)
	if err != nil {
		serverError(c, "查询发送记录失败", err)
		return
	}

	status := h.coordinator.Device().Status()
	pdf, err := report.GenerateTransmissionPDF(report.TransmissionReport{
		DeviceID:     status.ID,
		IEEE:         status.IEEE,
		ScanInterval: int(h.coordinator.Interval() / time.Second),
		Enabled:      status.Enabled,
		GeneratedAt:  time.Now(),
		Records:      records,
	})
	if err != nil {
		serverError(c, "生成报表失败", err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=transmissions.pdf")
	if err := pdf.Output(c.Writer); err != nil {
		logger.Error("Failed to write pdf: %v", err)
	}
}

// GetOptions 当前设备选项
func (h *FollowMeHandler) GetOptions(c *gin.Context) {
	options, err := h.options.Get()
	if err != nil {
		serverError(c, "获取设备选项失败", err)
		return
	}
	if options == nil {
		dev := h.coordinator.Device()
		options = &db.DeviceOptions{
			IEEE:         dev.IEEE(),
			ScanInterval: int(h.coordinator.Interval() / time.Second),
			Enabled:      dev.Enabled(),
		}
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "获取设备选项成功",
		Data: options,
	})
}

// UpdateOptions 保存设备选项并重新加载刷新间隔
func (h *FollowMeHandler) UpdateOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	dev := h.coordinator.Device()
	options := &db.DeviceOptions{
		IEEE:                req.IEEE,
		ScanInterval:        req.ScanInterval,
		TemperatureEntityID: req.TemperatureEntityID,
		Enabled:             dev.Enabled(),
	}
	if err := h.options.Save(options); err != nil {
		serverError(c, "保存设备选项失败", err)
		return
	}

	var changed []string
	if dev.IEEE() != req.IEEE {
		dev.SetIEEE(req.IEEE)
		changed = append(changed, "ieee")
	}
	if h.coordinator.Interval() != time.Duration(req.ScanInterval)*time.Second {
		h.coordinator.SetInterval(time.Duration(req.ScanInterval) * time.Second)
		changed = append(changed, "scan_interval")
	}
	logger.Info("Options updated: %v", changed)

	if h.eventBus != nil {
		h.eventBus.Publish(events.Event{
			Type:      events.EventConfigChanged,
			DeviceID:  dev.ID(),
			Timestamp: time.Now(),
			Data: events.ConfigEventData{
				IEEE:                req.IEEE,
				ScanInterval:        req.ScanInterval,
				TemperatureEntityID: req.TemperatureEntityID,
				ChangedSettings:     changed,
			},
		})
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "设备选项已保存",
		Data: options,
	})
}
