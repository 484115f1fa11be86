package vehicle

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrDuplicatePlate 归一化后的车牌已注册
	ErrDuplicatePlate = errors.New("license plate already registered")
	// ErrVehicleNotFound 按车牌查询未命中
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrInvalidVehicleType 车辆类型不在枚举内
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
)

// 车辆类型枚举（费率表按该类型取费率）。
const (
	TypeCar        = "car"
	TypeMotorcycle = "motorcycle"
	TypeTruck      = "truck"
	TypeBus        = "bus"
)

// ValidType 判断车辆类型是否在枚举内。
func ValidType(t string) bool {
	switch t {
	case TypeCar, TypeMotorcycle, TypeTruck, TypeBus:
		return true
	}
	return false
}

// Vehicle 是 vehicles 表的 GORM 模型。
// NormalizedPlate 是注册表的唯一键；LicensePlate 保留车主录入的原始形式。
// ParkingSpotID 是“当前/最近绑定车位”的冗余缓存，由会话开始/结束维护，
// 包月车主在会话之间保留该绑定。
type Vehicle struct {
	ID                  string     `gorm:"primaryKey;size:36"`
	LicensePlate        string     `gorm:"size:32;not null"`
	NormalizedPlate     string     `gorm:"uniqueIndex;size:32;not null"`
	VehicleType         string     `gorm:"size:16;not null"`
	OwnerID             string     `gorm:"index;size:36;not null"`
	SubscriptionEndDate *time.Time // 包月截止日（含当日）
	IsDisabled          bool       `gorm:"not null;default:false"`
	ParkingSpotID       *string    `gorm:"size:36"`
	CreatedAt           time.Time  `gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime"`
}

// NormalizePlate 车牌归一化：大写并去掉所有空格和连字符。
// 注册与查询必须使用同一归一化结果做比较。
func NormalizePlate(plate string) string {
	p := strings.ToUpper(plate)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	return p
}

// HasActiveSubscription 包月是否覆盖 at 所在日期（按日比较，截止日当天仍有效）。
func (v *Vehicle) HasActiveSubscription(at time.Time) bool {
	if v == nil || v.SubscriptionEndDate == nil {
		return false
	}
	return !dateOnly(*v.SubscriptionEndDate).Before(dateOnly(at))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
