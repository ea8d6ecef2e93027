// internal/app/app.go

package app

import (
	"context"
	"fmt"
	"time"

	"followme/api"
	"followme/internal/config"
	"followme/internal/coordinator"
	"followme/internal/db"
	"followme/internal/device"
	"followme/internal/events"
	"followme/internal/handlers"
	"followme/internal/logger"
	"followme/internal/monitor"
	"followme/internal/transport"
	"followme/server"
)

// ReportInterval 状态报告间隔
const ReportInterval = 5 * time.Minute

type App struct {
	cfg           *config.Config
	eventBus      *events.EventBus
	device        *device.Device
	coordinator   *coordinator.Coordinator
	monitor       *monitor.Monitor
	options       db.IOptionsRepository
	transmissions db.ITransmissionRepository
	server        *server.Server
}

func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Initialize() error {
	if a.cfg.LogLevel != "" {
		level, err := logger.ParseLevel(a.cfg.LogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}

	defaults := &db.DeviceOptions{
		IEEE:                a.cfg.IRBlasterIEEE,
		ScanInterval:        a.cfg.ScanInterval,
		TemperatureEntityID: a.cfg.TemperatureEntityID,
		Enabled:             true,
	}
	if err := db.Init_DB(a.cfg.Database, defaults); err != nil {
		return err
	}
	a.eventBus = events.NewEventBus()
	a.options = db.NewOptionsRepository(db.DB)
	a.transmissions = db.NewTransmissionRepository(db.DB)

	// 已保存的选项优先于配置文件
	options, err := a.options.Get()
	if err != nil {
		return fmt.Errorf("load device options: %w", err)
	}
	if options == nil {
		options = defaults
	}

	encoder, err := a.cfg.Encoder()
	if err != nil {
		return err
	}

	var t transport.Transport = transport.DryRun{}
	if a.cfg.HomeAssistant.URL != "" {
		t = transport.NewHomeAssistant(a.cfg.HomeAssistant.URL, a.cfg.HomeAssistant.Token, a.cfg.HomeAssistant.Timeout)
		logger.Info("Sending IR codes through %s", a.cfg.HomeAssistant.URL)
	} else {
		logger.Warn("home_assistant.url not set, IR codes are only logged")
	}

	a.device = device.New(options.IEEE, options.ScanInterval, encoder, t)
	a.device.SetEnabled(options.Enabled)

	a.coordinator = coordinator.NewCoordinator(
		a.device,
		a.eventBus,
		a.transmissions,
		time.Duration(options.ScanInterval)*time.Second,
	)
	a.monitor = monitor.NewMonitor(a.eventBus, a.device, a.transmissions, ReportInterval, a.cfg.Retention)

	logger.Info("Device %s initialized, level=%s, rounding=%s", a.device.ID(), encoder.Level(), encoder.Rounding())
	return nil
}

func (a *App) Start() error {
	a.monitor.Start()
	a.coordinator.Start()

	// 创建处理器
	followMeHandler := handlers.NewFollowMeHandler(a.coordinator, a.options, a.transmissions, a.eventBus, a.monitor)

	// 设置路由
	router := api.SetupRouter(followMeHandler)

	a.server = server.NewServer(router)
	if err := a.server.Start(a.cfg.Server.Host, a.cfg.Server.Port); err != nil {
		a.coordinator.Stop()
		a.monitor.Stop()
		return err
	}

	a.eventBus.Publish(events.Event{
		Type:      events.EventSystemStartup,
		DeviceID:  a.device.ID(),
		Timestamp: time.Now(),
	})
	return nil
}

// Addr HTTP 服务实际监听的地址
func (a *App) Addr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}

func (a *App) Stop(ctx context.Context) error {
	a.eventBus.Publish(events.Event{
		Type:      events.EventSystemShutdown,
		DeviceID:  a.device.ID(),
		Timestamp: time.Now(),
	})

	var serverErr error
	if a.server != nil {
		serverErr = a.server.Stop(ctx)
	}

	// 等待正在进行的发送完成
	done := make(chan struct{})
	go func() {
		a.coordinator.Stop()
		a.monitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	if serverErr != nil {
		return serverErr
	}
	logger.Info("Application stopped gracefully")
	return nil
}
