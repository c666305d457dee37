package strategy

import "StockSentinel/internal/model"

// EvaluateMonitor checks one rule against a snapshot. The rule is unavailable
// when the snapshot lacks the value it watches.
func EvaluateMonitor(rule model.MonitorRule, snap *model.Snapshot) model.MonitorResult {
	result := model.MonitorResult{Rule: rule}
	if snap == nil {
		return result
	}

	switch rule.Type {
	case model.MonitorKDJJ:
		if snap.KDJ == nil {
			return result
		}
		result.Actual = snap.KDJ.J
	case model.MonitorWeeklyKDJJ:
		if snap.WeeklyKDJ == nil {
			return result
		}
		result.Actual = snap.WeeklyKDJ.J
	case model.MonitorPrice:
		result.Actual = snap.CurrentPrice
	case model.MonitorVolume:
		result.Actual = snap.Volume
	default:
		return result
	}
	result.Available = true

	switch rule.Condition {
	case model.ConditionAbove:
		result.Triggered = result.Actual > rule.Value
	case model.ConditionBelow:
		result.Triggered = result.Actual < rule.Value
	}
	return result
}

// EvaluateMonitors checks every rule in order.
func EvaluateMonitors(rules []model.MonitorRule, snap *model.Snapshot) []model.MonitorResult {
	results := make([]model.MonitorResult, 0, len(rules))
	for _, r := range rules {
		results = append(results, EvaluateMonitor(r, snap))
	}
	return results
}

// ValidMonitorRule reports whether a rule uses a known type and condition.
func ValidMonitorRule(rule model.MonitorRule) bool {
	switch rule.Type {
	case model.MonitorKDJJ, model.MonitorWeeklyKDJJ, model.MonitorPrice, model.MonitorVolume:
	default:
		return false
	}
	return rule.Condition == model.ConditionAbove || rule.Condition == model.ConditionBelow
}
