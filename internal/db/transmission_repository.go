// internal/db/transmission_repository.go

package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ITransmissionRepository 发送记录仓库接口
type ITransmissionRepository interface {
	Record(t *Transmission) error
	Recent(limit int) ([]*Transmission, error)
	Last() (*Transmission, error)
	PurgeBefore(before time.Time) (int64, error)
}

type TransmissionRepository struct {
	db *gorm.DB
}

func NewTransmissionRepository(db *gorm.DB) ITransmissionRepository {
	return &TransmissionRepository{db: db}
}

// Record 写入一条发送记录
func (r *TransmissionRepository) Record(t *Transmission) error {
	if t.SentAt.IsZero() {
		t.SentAt = time.Now()
	}
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("记录发送失败: %v", err)
	}
	return nil
}

// Recent 最近的发送记录，按时间倒序
func (r *TransmissionRepository) Recent(limit int) ([]*Transmission, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []*Transmission
	err := r.db.Order("sent_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// Last 最近一次发送记录，没有记录时返回 nil
func (r *TransmissionRepository) Last() (*Transmission, error) {
	records, err := r.Recent(1)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// PurgeBefore 删除早于 before 的记录
func (r *TransmissionRepository) PurgeBefore(before time.Time) (int64, error) {
	result := r.db.Where("sent_at < ?", before).Delete(&Transmission{})
	return result.RowsAffected, result.Error
}
