package dberr

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type row struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func openDB(t *testing.T, name string, translate bool) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: translate,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := conn.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := conn.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestIsDuplicate(t *testing.T) {
	for _, translate := range []bool{true, false} {
		name := "dberr_raw"
		if translate {
			name = "dberr_translated"
		}
		conn := openDB(t, name, translate)
		if err := conn.Create(&row{ID: "1", Name: "same"}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		err := conn.Create(&row{ID: "2", Name: "same"}).Error
		if !IsDuplicate(err) {
			t.Errorf("translate=%v: expected duplicate, got %v", translate, err)
		}
	}
	if IsDuplicate(nil) || IsDuplicate(gorm.ErrInvalidData) || IsDuplicate(errors.New("connection refused")) {
		t.Errorf("unrelated errors must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	conn := openDB(t, "dberr_missing", true)
	if !IsNotFound(conn.Where("id = ?", "nope").First(&row{}).Error) {
		t.Errorf("expected not found")
	}
	if IsNotFound(nil) || IsNotFound(gorm.ErrDuplicatedKey) {
		t.Errorf("unrelated errors must not match")
	}
}
