// File: utils/constants.go
package utils

import "time"

// CalendarCachePrefix is the prefix used for Redis calendar cache keys.
const CalendarCachePrefix = "calendar:"

// CalendarCacheTTL is the time-to-live for cached weekly calendar views.
const CalendarCacheTTL = 5 * time.Minute
