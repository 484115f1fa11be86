package owner

import (
	"strings"
	"time"
)

// Owner 是 owners 表的 GORM 模型（车主账号）。
type Owner struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	FirstName    string    `gorm:"size:64"`
	LastName     string    `gorm:"size:64"`
	Roles        string    `gorm:"size:256;not null"` // 逗号分隔，例如 "user,staff"
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (o Owner) RolesSlice() []string {
	if strings.TrimSpace(o.Roles) == "" {
		return nil
	}
	parts := strings.Split(o.Roles, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsStaff staff 角色可见全量车辆/会话数据。
func (o Owner) IsStaff() bool {
	for _, r := range o.RolesSlice() {
		if strings.EqualFold(r, "staff") {
			return true
		}
	}
	return false
}

func RolesJoin(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return strings.Join(out, ",")
}
