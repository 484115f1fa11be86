package parking

import (
	"errors"
	"time"
)

var (
	// ErrNoSpotAvailable 没有符合条件的空闲车位
	ErrNoSpotAvailable = errors.New("no parking spot available")
	// ErrAlreadyParked 车辆已有进行中的会话
	ErrAlreadyParked = errors.New("vehicle already has an active session")
	// ErrNoActiveSession 车辆没有进行中的会话
	ErrNoActiveSession = errors.New("vehicle has no active session")
	// ErrUnknownVehicleType 费率表中没有该车辆类型
	ErrUnknownVehicleType = errors.New("unknown vehicle type")
	// ErrSessionInProgress 会话未结束，费用未定义
	ErrSessionInProgress = errors.New("session still in progress")
	// ErrExitBeforeEntry 离场时间早于入场时间
	ErrExitBeforeEntry = errors.New("exit time before entry time")
)

// Category 车位类别枚举（持久化为字符串，车位终生不变更类别）。
type Category string

const (
	CategorySubscription Category = "SUBSCRIPTION" // 包月车位
	CategoryDisabled     Category = "DISABLED"     // 无障碍车位
	CategoryHourly       Category = "HOURLY"       // 临时车位
)

// Spot 是 parking_spots 表的 GORM 模型。
// 不变式：IsOccupied 为真当且仅当 OccupiedByID 非空。
type Spot struct {
	ID            string     `gorm:"primaryKey;size:36"`
	Number        int        `gorm:"uniqueIndex;not null"` // 车位编号，分配的平局裁决按编号从小到大
	Category      Category   `gorm:"type:varchar(16);index;not null"`
	IsOccupied    bool       `gorm:"not null;default:false"`
	OccupiedByID  *string    `gorm:"size:36"` // 占用车辆
	OccupiedSince *time.Time // 占用开始时间
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// Session 是 parking_sessions 表的 GORM 模型。
// ExitTime 为空表示会话进行中；结束时写入一次，此后不再变更。
// 同一车辆任一时刻至多一条 ExitTime 为空的记录。
type Session struct {
	ID        string     `gorm:"primaryKey;size:36"`
	VehicleID string     `gorm:"index;size:36;not null"`
	SpotID    string     `gorm:"index;size:36;not null"`
	EntryTime time.Time  `gorm:"not null"`
	ExitTime  *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// Duration 已结束会话的总时长；进行中返回 0 和 false。
func (s *Session) Duration() (time.Duration, bool) {
	if s == nil || s.ExitTime == nil {
		return 0, false
	}
	return s.ExitTime.Sub(s.EntryTime), true
}

// Rate 是 parking_rates 表的 GORM 模型：车辆类型 -> 每小时费率。
// 金额单位：分。启动时播种，核心逻辑只读。
type Rate struct {
	VehicleType string `gorm:"primaryKey;size:16"`
	HourlyCents int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null;default:'USD'"`
}
