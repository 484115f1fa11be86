package parking

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
)

// inProgressMarker 进行中的会话在报表里不输出零值费用，而是显式标记。
const inProgressMarker = "In Progress"

var reportHeader = []string{"Vehicle", "Owner", "Entry time", "Exit time", "Total duration", "Cost"}

// WriteReportCSV 把会话台账投影为 CSV 报表。
// 已结束的行输出时长和 "12.50 USD" 形式的费用；
// 进行中的行在离场时间、时长、费用三列都输出 "In Progress"。
// 费率表未命中车辆类型是硬错误（ErrUnknownVehicleType）；
// 离场早于入场的坏行跳过，不拖垮整份导出。
func WriteReportCSV(w io.Writer, views []SessionView, rates map[string]Rate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}

	for i := range views {
		row, err := reportRow(&views[i], rates)
		if errors.Is(err, ErrExitBeforeEntry) {
			continue
		}
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func reportRow(view *SessionView, rates map[string]Rate) ([]string, error) {
	entry := view.EntryTime.Format(time.RFC3339)

	if view.ExitTime == nil {
		return []string{
			view.LicensePlate,
			view.Username,
			entry,
			inProgressMarker,
			inProgressMarker,
			inProgressMarker,
		}, nil
	}

	rate, ok := rates[view.VehicleType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVehicleType, view.VehicleType)
	}

	session := Session{EntryTime: view.EntryTime, ExitTime: view.ExitTime}
	cost, err := SessionCost(&session, &rate)
	if err != nil {
		return nil, err
	}

	duration := view.ExitTime.Sub(view.EntryTime)
	return []string{
		view.LicensePlate,
		view.Username,
		entry,
		view.ExitTime.Format(time.RFC3339),
		duration.String(),
		cost,
	}, nil
}
