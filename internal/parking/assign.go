package parking

import (
	"sort"
	"time"

	"github.com/ParkWise/ParkWise/internal/vehicle"
)

// AssignSpot 车位分配策略：对当前车位池做纯决策，不产生副作用，
// 由调用方在事务内提交占用变更。
//
// 优先级（先命中先得）：
//  1. 包月有效（截止日 >= 今天）：优先上次绑定的车位（仍在池中且空闲）；
//     否则取编号最小的空闲 SUBSCRIPTION 车位
//  2. 残障标记：编号最小的空闲 DISABLED 车位；没有则回退空闲 HOURLY
//  3. 其他：编号最小的空闲 HOURLY 车位
//
// 返回 nil 表示没有符合条件的空闲车位。
func AssignSpot(v *vehicle.Vehicle, spots []Spot, now time.Time) *Spot {
	if v == nil || len(spots) == 0 {
		return nil
	}

	// 统一按编号升序遍历，保证平局裁决确定性
	ordered := make([]Spot, len(spots))
	copy(ordered, spots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	if v.HasActiveSubscription(now) {
		if v.ParkingSpotID != nil {
			for i := range ordered {
				if ordered[i].ID == *v.ParkingSpotID && !ordered[i].IsOccupied {
					return &ordered[i]
				}
			}
		}
		return firstFree(ordered, CategorySubscription)
	}

	if v.IsDisabled {
		if s := firstFree(ordered, CategoryDisabled); s != nil {
			return s
		}
		return firstFree(ordered, CategoryHourly)
	}

	return firstFree(ordered, CategoryHourly)
}

func firstFree(ordered []Spot, cat Category) *Spot {
	for i := range ordered {
		if ordered[i].Category == cat && !ordered[i].IsOccupied {
			return &ordered[i]
		}
	}
	return nil
}
