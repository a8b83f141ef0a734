package out

import (
	"context"

	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

// SlotCachePort — кэширование рассчитанных слотов по ключу (врач, дата)
// Кэш не источник истины, записи живут в пределах окна свежести
type SlotCachePort interface {
	GetSlots(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, bool)
	StoreSlots(ctx context.Context, doctorID string, date json_types.Date, slots []json_types.TimeOfDay)
	Invalidate(ctx context.Context, doctorID string, date json_types.Date)

	// Удаление всех просроченных записей, вызывается периодически
	Sweep(ctx context.Context)
}
