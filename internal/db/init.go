package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN 返回一个命名的内存数据库，测试使用
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func isMemory(path string) bool {
	return strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

var Init bool
var SQLDB *sql.DB
var DB *gorm.DB

// Init_DB 打开数据库并迁移表结构，首次创建时写入默认设备选项
func Init_DB(path string, defaults *DeviceOptions) error {
	Init = isMemory(path)
	if !Init {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			Init = true
		}
	}
	db, err := Open(path)
	if err != nil {
		return err
	}
	DB = db
	SQLDB, _ = db.DB()

	if Init {
		if err := NewOptionsRepository(db).Init(defaults); err != nil {
			return fmt.Errorf("failed to init device options: %w", err)
		}
	}
	return nil
}

// Open 打开 sqlite 数据库并迁移
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&DeviceOptions{}, &Transmission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}

// Close 关闭全局数据库连接
func Close() error {
	if SQLDB == nil {
		return nil
	}
	err := SQLDB.Close()
	SQLDB = nil
	DB = nil
	return err
}
