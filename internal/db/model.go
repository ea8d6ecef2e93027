package db

import "time"

// 设备选项表，只有一行
type DeviceOptions struct {
	ID                  int       `gorm:"primaryKey" json:"-"`
	IEEE                string    `gorm:"type:varchar(32)" json:"ieee"`
	ScanInterval        int       `json:"scan_interval"` // 秒，5-180
	TemperatureEntityID string    `gorm:"type:varchar(255)" json:"temperature_entity_id"`
	Enabled             bool      `json:"enabled"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// 发送记录表
type Transmission struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	SentAt      time.Time `gorm:"index" json:"sent_at"`
	IEEE        string    `gorm:"type:varchar(32)" json:"ieee"`
	Temperature float64   `json:"temperature"`
	Level       int       `json:"level"`
	Code        string    `gorm:"type:text" json:"code,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `gorm:"type:varchar(255)" json:"error,omitempty"`
}
