package parking

import (
	"math/big"
)

// SessionCost 计算已结束会话的费用，返回如 "12.50 USD" 的字符串。
// 进行中的会话费用未定义，返回 ErrSessionInProgress；
// rate 为 nil（费率表未命中）返回 ErrUnknownVehicleType。
//
// 计算使用精确有理数而非浮点：
// cost = 秒数/3600 * 分/100，四舍五入到两位小数。
func SessionCost(s *Session, rate *Rate) (string, error) {
	d, done := s.Duration()
	if !done {
		return "", ErrSessionInProgress
	}
	if rate == nil {
		return "", ErrUnknownVehicleType
	}
	if d < 0 {
		return "", ErrExitBeforeEntry
	}

	seconds := int64(d.Seconds())
	// seconds/3600 小时 * HourlyCents/100 元
	cost := new(big.Rat).SetFrac64(seconds*rate.HourlyCents, 3600*100)
	return cost.FloatString(2) + " " + rate.Currency, nil
}
