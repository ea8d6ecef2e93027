// internal/db/options_repository.go

package db

import (
	"errors"

	"gorm.io/gorm"
)

// IOptionsRepository 设备选项仓库接口
type IOptionsRepository interface {
	Get() (*DeviceOptions, error)
	Save(options *DeviceOptions) error
	SetEnabled(enabled bool) error
	Init(defaults *DeviceOptions) error
}

type OptionsRepository struct {
	db *gorm.DB
}

func NewOptionsRepository(db *gorm.DB) IOptionsRepository {
	return &OptionsRepository{db: db}
}

// 初始化方法，表为空时写入默认选项
func (r *OptionsRepository) Init(defaults *DeviceOptions) error {
	if defaults == nil {
		return nil
	}
	var count int64
	if err := r.db.Model(&DeviceOptions{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		options := *defaults
		options.ID = 1
		return r.db.Create(&options).Error
	}
	return nil
}

// Get 获取设备选项，不存在时返回 nil
func (r *OptionsRepository) Get() (*DeviceOptions, error) {
	var options DeviceOptions
	err := r.db.First(&options).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &options, nil
}

// Save 保存设备选项，不存在则创建
func (r *OptionsRepository) Save(options *DeviceOptions) error {
	var existing DeviceOptions
	err := r.db.First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			options.ID = 1
			return r.db.Create(options).Error
		}
		return err
	}

	options.ID = existing.ID
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"ieee":                  options.IEEE,
		"scan_interval":         options.ScanInterval,
		"temperature_entity_id": options.TemperatureEntityID,
		"enabled":               options.Enabled,
	}).Error
}

func (r *OptionsRepository) SetEnabled(enabled bool) error {
	return r.db.Model(&DeviceOptions{}).Where("1 = 1").Update("enabled", enabled).Error
}
