package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/vidtube/internal/model"
)

func setupTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// sqlite 内存库：多连接会各自拿到独立的库，并发测试必须收敛到单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.User{}, &model.Video{}, &model.Tweet{}, &model.Comment{},
		&model.Like{}, &model.Subscription{}, &model.CleanupEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
