package schedule

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"serviqo/models"
	"serviqo/utils"
)

// WeeklyCalendar expands the provider's recurring slots over the 7 days
// starting at anchorDate, applies the blackout overlay, and reports the
// remaining capacity per slot. Results are cached briefly; every slot or
// exception mutation invalidates the provider's cache entries.
func (s *DefaultScheduleService) WeeklyCalendar(ctx context.Context, providerID, anchorDate string) ([]models.CalendarDay, error) {
	anchor, err := utils.ParseDate(anchorDate)
	if err != nil {
		return nil, utils.NewValidationError("date", err.Error())
	}

	cacheKey := utils.CalendarCachePrefix + providerID + ":" + anchorDate
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var days []models.CalendarDay
			if err := json.Unmarshal([]byte(cached), &days); err == nil {
				return days, nil
			}
		}
	}

	slots, err := s.Slots.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.Slots.ListExceptions(ctx, providerID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]models.AvailabilitySlot, 7)
	for _, slot := range slots {
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot)
	}

	days := make([]models.CalendarDay, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := anchor.AddDate(0, 0, offset)
		dateStr := day.Format(utils.DateLayout)
		weekday := utils.ISOWeekday(day)

		cd := models.CalendarDay{
			Date:      dateStr,
			DayOfWeek: weekday,
			Slots:     []models.CalendarSlot{},
		}
		for i := range exceptions {
			if exceptions[i].Covers(dateStr) {
				cd.Blocked = true
				cd.BlockedReason = exceptions[i].Reason
				break
			}
		}
		for _, slot := range byDay[weekday] {
			remaining := slot.MaxBookings - slot.CurrentBookings
			if remaining < 0 {
				remaining = 0
			}
			cd.Slots = append(cd.Slots, models.CalendarSlot{
				SlotID:            slot.ID,
				StartTime:         slot.StartTime,
				EndTime:           slot.EndTime,
				MaxBookings:       slot.MaxBookings,
				RemainingCapacity: remaining,
				IsAvailable:       slot.IsAvailable && !cd.Blocked,
			})
		}
		days = append(days, cd)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(days); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, utils.CalendarCacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache calendar", zap.Error(err))
			}
		}
	}
	return days, nil
}

// invalidateCalendar drops all cached calendar views for the provider.
func (s *DefaultScheduleService) invalidateCalendar(ctx context.Context, providerID string) {
	if s.Cache == nil {
		return
	}
	pattern := utils.CalendarCachePrefix + providerID + ":*"
	iter := s.Cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.Logger.Warn("failed to invalidate calendar cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.Logger.Warn("calendar cache scan failed", zap.Error(err))
	}
}
