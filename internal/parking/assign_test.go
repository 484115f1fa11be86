package parking

import (
	"testing"
	"time"

	"github.com/ParkWise/ParkWise/internal/vehicle"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func subEnd(daysFromNow int) *time.Time {
	t := testNow.AddDate(0, 0, daysFromNow)
	return &t
}

func pool(spots ...Spot) []Spot {
	return spots
}

func TestAssignSpotHourly(t *testing.T) {
	v := &vehicle.Vehicle{ID: "v-1", VehicleType: vehicle.TypeCar}
	spots := pool(
		Spot{ID: "s-3", Number: 3, Category: CategoryHourly},
		Spot{ID: "s-1", Number: 1, Category: CategorySubscription},
		Spot{ID: "s-2", Number: 2, Category: CategoryHourly, IsOccupied: true},
	)

	got := AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-3" {
		t.Fatalf("expected s-3, got %+v", got)
	}
}

func TestAssignSpotHourlyTieBreakLowestNumber(t *testing.T) {
	v := &vehicle.Vehicle{ID: "v-1"}
	// 乱序传入，分配必须取编号最小的空闲车位
	spots := pool(
		Spot{ID: "s-9", Number: 9, Category: CategoryHourly},
		Spot{ID: "s-4", Number: 4, Category: CategoryHourly},
		Spot{ID: "s-7", Number: 7, Category: CategoryHourly},
	)

	got := AssignSpot(v, spots, testNow)
	if got == nil || got.Number != 4 {
		t.Fatalf("expected spot 4, got %+v", got)
	}
}

func TestAssignSpotNoneAvailable(t *testing.T) {
	v := &vehicle.Vehicle{ID: "v-1"}
	spots := pool(
		Spot{ID: "s-1", Number: 1, Category: CategoryHourly, IsOccupied: true},
		Spot{ID: "s-2", Number: 2, Category: CategorySubscription}, // 普通车辆不可用包月位
		Spot{ID: "s-3", Number: 3, Category: CategoryDisabled},    // 也不可用无障碍位
	)

	if got := AssignSpot(v, spots, testNow); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestAssignSpotDisabledFallbackToHourly(t *testing.T) {
	v := &vehicle.Vehicle{ID: "v-1", IsDisabled: true}
	spots := pool(
		Spot{ID: "s-1", Number: 1, Category: CategoryDisabled, IsOccupied: true},
		Spot{ID: "s-2", Number: 2, Category: CategoryHourly},
	)

	got := AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-2" {
		t.Fatalf("expected fallback to hourly s-2, got %+v", got)
	}

	// 有空闲无障碍位时优先
	spots[0].IsOccupied = false
	got = AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-1" {
		t.Fatalf("expected disabled s-1, got %+v", got)
	}
}

func TestAssignSpotSubscriptionPrefersBoundSpot(t *testing.T) {
	bound := "s-5"
	v := &vehicle.Vehicle{
		ID:                  "v-1",
		SubscriptionEndDate: subEnd(10),
		ParkingSpotID:       &bound,
	}
	spots := pool(
		Spot{ID: "s-1", Number: 1, Category: CategorySubscription},
		Spot{ID: "s-5", Number: 5, Category: CategorySubscription},
	)

	got := AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-5" {
		t.Fatalf("expected bound spot s-5, got %+v", got)
	}
}

func TestAssignSpotSubscriptionFallbackWhenBoundGone(t *testing.T) {
	bound := "s-gone"
	v := &vehicle.Vehicle{
		ID:                  "v-1",
		SubscriptionEndDate: subEnd(0), // 截止日当天仍算有效
		ParkingSpotID:       &bound,
	}
	spots := pool(
		Spot{ID: "s-2", Number: 2, Category: CategorySubscription},
		Spot{ID: "s-1", Number: 1, Category: CategorySubscription, IsOccupied: true},
	)

	got := AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-2" {
		t.Fatalf("expected free subscription s-2, got %+v", got)
	}
}

func TestAssignSpotExpiredSubscriptionFallsThrough(t *testing.T) {
	v := &vehicle.Vehicle{
		ID:                  "v-1",
		SubscriptionEndDate: subEnd(-1),
	}
	spots := pool(
		Spot{ID: "s-1", Number: 1, Category: CategorySubscription},
		Spot{ID: "s-2", Number: 2, Category: CategoryHourly},
	)

	// 包月过期按普通车辆处理，走 HOURLY
	got := AssignSpot(v, spots, testNow)
	if got == nil || got.ID != "s-2" {
		t.Fatalf("expected hourly s-2, got %+v", got)
	}
}
