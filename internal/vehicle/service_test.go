package vehicle

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Vehicle{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRegisterDuplicatePlate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		OwnerID:      "o-1",
		LicensePlate: "ab-123 cd",
		VehicleType:  TypeCar,
	}); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// 归一化后同一车牌，第二次注册必须被拒
	if _, err := svc.Register(ctx, RegisterInput{
		OwnerID:      "o-2",
		LicensePlate: "AB 123-CD",
		VehicleType:  TypeTruck,
	}); !errors.Is(err, ErrDuplicatePlate) {
		t.Fatalf("expected ErrDuplicatePlate, got %v", err)
	}

	var count int64
	if err := db.Model(&Vehicle{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one vehicle, got %d", count)
	}
}

func TestRegisterFindByPlateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	v, err := svc.Register(ctx, RegisterInput{
		OwnerID:      "o-1",
		LicensePlate: "xy 999",
		VehicleType:  TypeMotorcycle,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := svc.FindByPlate(ctx, "XY-9 99")
	if err != nil {
		t.Fatalf("FindByPlate: %v", err)
	}
	if got.ID != v.ID {
		t.Fatalf("expected vehicle %s, got %s", v.ID, got.ID)
	}

	if _, err := svc.FindByPlate(ctx, "ZZ-000"); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}
