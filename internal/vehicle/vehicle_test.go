package vehicle

import (
	"testing"
	"time"
)

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ab 123 cd", "AB123CD"},
		{"AB-123-CD", "AB123CD"},
		{"  a b-1 ", "AB1"},
		{"AB123CD", "AB123CD"},
	}
	for _, c := range cases {
		if got := NormalizePlate(c.in); got != c.want {
			t.Fatalf("NormalizePlate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePlateEquality(t *testing.T) {
	// 归一化相同的两个车牌应视为同一车辆
	if NormalizePlate("ab-123") != NormalizePlate("AB 123") {
		t.Fatalf("expected equal normalized plates")
	}
}

func TestHasActiveSubscription(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	endToday := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	v := &Vehicle{SubscriptionEndDate: &endToday}
	// 截止日当天仍有效
	if !v.HasActiveSubscription(now) {
		t.Fatalf("expected active on end date")
	}

	endYesterday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	v2 := &Vehicle{SubscriptionEndDate: &endYesterday}
	if v2.HasActiveSubscription(now) {
		t.Fatalf("expected expired")
	}

	v3 := &Vehicle{}
	if v3.HasActiveSubscription(now) {
		t.Fatalf("expected no subscription")
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{TypeCar, TypeMotorcycle, TypeTruck, TypeBus} {
		if !ValidType(typ) {
			t.Fatalf("expected %s valid", typ)
		}
	}
	if ValidType("bicycle") {
		t.Fatalf("expected bicycle invalid")
	}
}
