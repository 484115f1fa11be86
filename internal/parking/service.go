package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ParkWise/ParkWise/internal/vehicle"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxClaimRetries 车位被并发抢占时重新跑一遍分配策略的次数上限。
const maxClaimRetries = 3

// errSpotContended 条件更新没有命中（车位刚被其他请求占用）。
var errSpotContended = errors.New("spot claimed concurrently")

// Service 封装会话生命周期的核心用例：
// 开始/结束会话的三处变更（车位占用、会话台账、车辆缓存的车位绑定）
// 必须在同一事务内一起提交。
type Service struct {
	db       *gorm.DB
	repo     *Repo
	vehicles *vehicle.Repo
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		repo:     NewRepo(db),
		vehicles: vehicle.NewRepo(db),
	}
}

func (s *Service) Repo() *Repo {
	return s.repo
}

// StartSession 为车辆开始一次停车会话。
// 前置条件：车辆当前没有进行中的会话（否则 ErrAlreadyParked）。
// 分配策略选不出车位时返回 ErrNoSpotAvailable，不产生任何状态变更。
//
// 占用车位用条件更新（WHERE is_occupied = false）而不是读后写，
// 两个并发请求不可能同时占到同一车位；没抢到就对新的池状态重试。
func (s *Service) StartSession(ctx context.Context, vehicleID string, entryTime time.Time) (*Session, *Spot, error) {
	if s == nil || s.db == nil {
		return nil, nil, fmt.Errorf("service not initialized")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, nil, fmt.Errorf("vehicle_id required")
	}

	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err == gorm.ErrRecordNotFound {
		return nil, nil, vehicle.ErrVehicleNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.repo.ActiveSessionByVehicle(ctx, vehicleID); err == nil {
		return nil, nil, ErrAlreadyParked
	} else if err != gorm.ErrRecordNotFound {
		return nil, nil, err
	}

	for attempt := 0; attempt < maxClaimRetries; attempt++ {
		spots, err := s.repo.ListSpots(ctx)
		if err != nil {
			return nil, nil, err
		}

		spot := AssignSpot(v, spots, entryTime)
		if spot == nil {
			return nil, nil, ErrNoSpotAvailable
		}

		session := &Session{
			ID:        uuid.NewString(),
			VehicleID: v.ID,
			SpotID:    spot.ID,
			EntryTime: entryTime,
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 条件占用：只有仍然空闲才写得进去
			res := tx.Model(&Spot{}).
				Where("id = ? AND is_occupied = ?", spot.ID, false).
				Updates(map[string]interface{}{
					"is_occupied":    true,
					"occupied_by_id": v.ID,
					"occupied_since": entryTime,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errSpotContended
			}

			if err := tx.Create(session).Error; err != nil {
				return err
			}

			return tx.Model(&vehicle.Vehicle{}).
				Where("id = ?", v.ID).
				Update("parking_spot_id", spot.ID).Error
		})
		if err == nil {
			spot.IsOccupied = true
			spot.OccupiedByID = &v.ID
			spot.OccupiedSince = &entryTime
			return session, spot, nil
		}
		if errors.Is(err, errSpotContended) {
			continue
		}
		return nil, nil, err
	}

	return nil, nil, ErrNoSpotAvailable
}

// EndSession 结束车辆的停车会话。
// 没有进行中的会话返回 ErrNoActiveSession（是否对外静默由传输层决定）。
// 包月覆盖离场日期时保留车辆的车位绑定，其余情况清空。
func (s *Service) EndSession(ctx context.Context, vehicleID string, exitTime time.Time) (*Session, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, fmt.Errorf("vehicle_id required")
	}

	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err == gorm.ErrRecordNotFound {
		return nil, vehicle.ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}

	session, err := s.repo.ActiveSessionByVehicle(ctx, vehicleID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	if exitTime.Before(session.EntryTime) {
		return nil, ErrExitBeforeEntry
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Session{}).
			Where("id = ? AND exit_time IS NULL", session.ID).
			Update("exit_time", exitTime).Error; err != nil {
			return err
		}

		// 释放车位
		if err := tx.Model(&Spot{}).
			Where("id = ?", session.SpotID).
			Updates(map[string]interface{}{
				"is_occupied":    false,
				"occupied_by_id": nil,
				"occupied_since": nil,
			}).Error; err != nil {
			return err
		}

		// 包月车主在会话之间保留车位绑定
		if !v.HasActiveSubscription(exitTime) {
			return tx.Model(&vehicle.Vehicle{}).
				Where("id = ?", v.ID).
				Update("parking_spot_id", nil).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.ExitTime = &exitTime
	return session, nil
}
