package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 封装车辆注册表的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// RegisterInput 注册车辆的入参。OwnerID 由调用方显式传入
// （来自已鉴权的请求主体，不读任何隐式上下文）。
type RegisterInput struct {
	OwnerID             string
	LicensePlate        string
	VehicleType         string
	SubscriptionEndDate *time.Time
	IsDisabled          bool
}

// Register 注册车辆；归一化车牌冲突返回 ErrDuplicatePlate。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner_id required")
	}
	plate := strings.TrimSpace(in.LicensePlate)
	normalized := NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("license_plate required")
	}
	if !ValidType(in.VehicleType) {
		return nil, ErrInvalidVehicleType
	}

	// 归一化唯一性检查（数据库层另有 uniqueIndex 兜底）
	if _, err := s.repo.FindByPlate(ctx, normalized); err == nil {
		return nil, ErrDuplicatePlate
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	v := &Vehicle{
		ID:                  uuid.NewString(),
		LicensePlate:        plate,
		NormalizedPlate:     normalized,
		VehicleType:         in.VehicleType,
		OwnerID:             ownerID,
		SubscriptionEndDate: in.SubscriptionEndDate,
		IsDisabled:          in.IsDisabled,
	}
	// 并发重复注册由 NormalizedPlate 的 uniqueIndex 兜底
	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePlate
		}
		return nil, err
	}
	return v, nil
}

// FindByPlate 按车牌查询；未命中返回 ErrVehicleNotFound。
func (s *Service) FindByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	v, err := s.repo.FindByPlate(ctx, plate)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List 车主视角列自己的车，staff 视角列全量。
func (s *Service) List(ctx context.Context, ownerID string, staff bool, offset, limit int) ([]Vehicle, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	filterOwner := strings.TrimSpace(ownerID)
	if staff {
		filterOwner = ""
	}
	return s.repo.List(ctx, filterOwner, offset, limit)
}
