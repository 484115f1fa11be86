package parking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// ListSpots 按编号升序返回全部车位。
func (r *Repo) ListSpots(ctx context.Context) ([]Spot, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var spots []Spot
	if err := db.Order("number asc").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

// ActiveSessionByVehicle 查询车辆进行中的会话（ExitTime 为空）。
func (r *Repo) ActiveSessionByVehicle(ctx context.Context, vehicleID string) (*Session, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var s Session
	if err := db.Where("vehicle_id = ? AND exit_time IS NULL", vehicleID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetRate 按车辆类型取费率；未命中返回 ErrUnknownVehicleType。
func (r *Repo) GetRate(ctx context.Context, vehicleType string) (*Rate, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rate Rate
	if err := db.Where("vehicle_type = ?", vehicleType).First(&rate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUnknownVehicleType
		}
		return nil, err
	}
	return &rate, nil
}

// ListRates 返回完整费率表（首页展示用）。
func (r *Repo) ListRates(ctx context.Context) ([]Rate, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rates []Rate
	if err := db.Order("vehicle_type asc").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// SessionView 会话台账的扁平投影（联表带出车牌与车主）。
type SessionView struct {
	ID           string
	VehicleID    string
	SpotID       string
	EntryTime    time.Time
	ExitTime     *time.Time
	LicensePlate string
	VehicleType  string
	Username     string
}

// ListSessionViews 按车主过滤会话台账；staffAll 为真时返回全量。
func (r *Repo) ListSessionViews(ctx context.Context, ownerID string, staffAll bool) ([]SessionView, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := db.Table("parking_sessions").
		Select("parking_sessions.id, parking_sessions.vehicle_id, parking_sessions.spot_id, "+
			"parking_sessions.entry_time, parking_sessions.exit_time, "+
			"vehicles.license_plate, vehicles.vehicle_type, owners.username").
		Joins("JOIN vehicles ON vehicles.id = parking_sessions.vehicle_id").
		Joins("JOIN owners ON owners.id = vehicles.owner_id")
	if !staffAll {
		q = q.Where("vehicles.owner_id = ?", ownerID)
	}

	var views []SessionView
	if err := q.Order("parking_sessions.entry_time asc").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// SeedSpots 车位池为空时按配置创建车位。
// 编号连续分配：先 SUBSCRIPTION，再 DISABLED，最后 HOURLY。
func (r *Repo) SeedSpots(ctx context.Context, subscription, disabled, hourly int) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	var count int64
	if err := db.Model(&Spot{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	number := 0
	spots := make([]Spot, 0, subscription+disabled+hourly)
	appendSpots := func(n int, cat Category) {
		for i := 0; i < n; i++ {
			number++
			spots = append(spots, Spot{
				ID:       uuid.NewString(),
				Number:   number,
				Category: cat,
			})
		}
	}
	appendSpots(subscription, CategorySubscription)
	appendSpots(disabled, CategoryDisabled)
	appendSpots(hourly, CategoryHourly)

	if len(spots) == 0 {
		return nil
	}
	return db.Create(&spots).Error
}

// SeedRates 费率表为空时按配置播种。
func (r *Repo) SeedRates(ctx context.Context, hourlyCents map[string]int64, currency string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	var count int64
	if err := db.Model(&Rate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(hourlyCents) == 0 {
		return nil
	}

	if currency == "" {
		currency = "USD"
	}
	rates := make([]Rate, 0, len(hourlyCents))
	for typ, cents := range hourlyCents {
		rates = append(rates, Rate{
			VehicleType: typ,
			HourlyCents: cents,
			Currency:    currency,
		})
	}
	return db.Create(&rates).Error
}
