// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"followme/internal/tuyair"
)

// 默认值，与集成配置界面的默认值一致
const (
	DefaultScanInterval        = 60
	DefaultIRBlasterIEEE       = "00:00:00:00:00:00:00:00"
	DefaultTemperatureEntityID = "sensor.temperature"
	DefaultPort                = 8080
	DefaultDatabase            = "followme.db"
	DefaultRetention           = 30 * 24 * time.Hour
)

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// HomeAssistantConfig 红外码发送目标，URL 为空时只打印不发送
type HomeAssistantConfig struct {
	URL     string        `yaml:"url" validate:"omitempty,url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config 服务配置
type Config struct {
	ScanInterval        int                 `yaml:"scan_interval" validate:"min=5,max=180"`
	IRBlasterIEEE       string              `yaml:"ir_blaster_ieee" validate:"required"`
	TemperatureEntityID string              `yaml:"temperature_entity_id"`
	CompressionLevel    int                 `yaml:"compression_level" validate:"min=0,max=3"`
	Rounding            string              `yaml:"rounding" validate:"omitempty,oneof=half_even half_up"`
	Database            string              `yaml:"database" validate:"required"`
	LogLevel            string              `yaml:"log_level" validate:"omitempty,oneof=debug info warn error off"`
	Retention           time.Duration       `yaml:"retention" validate:"min=0"`
	Server              ServerConfig        `yaml:"server"`
	HomeAssistant       HomeAssistantConfig `yaml:"home_assistant"`
}

var validate = validator.New()

// Default 返回默认配置
func Default() *Config {
	return &Config{
		ScanInterval:        DefaultScanInterval,
		IRBlasterIEEE:       DefaultIRBlasterIEEE,
		TemperatureEntityID: DefaultTemperatureEntityID,
		CompressionLevel:    int(tuyair.DefaultLevel),
		Rounding:            tuyair.RoundHalfEven.String(),
		Database:            DefaultDatabase,
		LogLevel:            "info",
		Retention:           DefaultRetention,
		Server: ServerConfig{
			Port: DefaultPort,
		},
		HomeAssistant: HomeAssistantConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load 读取 YAML 配置文件，未出现的字段保留默认值。path 为空时只使用默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Interval 刷新间隔
func (c *Config) Interval() time.Duration {
	return time.Duration(c.ScanInterval) * time.Second
}

// Encoder 按配置创建编码器
func (c *Config) Encoder() (*tuyair.Encoder, error) {
	rounding, err := tuyair.ParseRoundingMode(c.Rounding)
	if err != nil {
		return nil, err
	}
	return tuyair.NewEncoder(tuyair.Level(c.CompressionLevel), rounding, tuyair.FollowMeTiming)
}
