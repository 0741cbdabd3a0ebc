package lifecycle

import "github.com/polkiloo/tableside/internal/domain/model"

// Merge reduces an externally pushed update into the local snapshot.
//
// The later status along the lifecycle always wins, so a delayed update can
// never move an order backwards. Between equal statuses the most recent write
// wins and may refresh the estimated time. The second result reports whether
// local changed.
func Merge(local model.Order, update model.StatusUpdate) (model.Order, bool) {
	if update.OrderID != "" && local.ID != "" && update.OrderID != local.ID {
		return local, false
	}
	if update.Status.Rank() == 0 {
		return local, false
	}

	merged := local
	switch {
	case update.Status.Rank() > local.Status.Rank():
		merged.Status = update.Status
		merged.StatusChangedAt = update.UpdatedAt
		if update.EstimatedTime != nil {
			merged.EstimatedTime = *update.EstimatedTime
		}
		if update.UpdatedAt.After(merged.UpdatedAt) {
			merged.UpdatedAt = update.UpdatedAt
		}
		return merged, true
	case update.Status == local.Status && update.UpdatedAt.After(local.UpdatedAt):
		merged.UpdatedAt = update.UpdatedAt
		if update.EstimatedTime != nil {
			merged.EstimatedTime = *update.EstimatedTime
		}
		return merged, merged.EstimatedTime != local.EstimatedTime
	default:
		return local, false
	}
}
