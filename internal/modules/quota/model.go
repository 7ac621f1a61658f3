// README: Monthly generation quota per client, stored in Postgres.
package quota

import "errors"

// ErrQuotaExceeded is returned when a client has no generations remaining for the current month.
var ErrQuotaExceeded = errors.New("monthly generation quota exceeded")

// DefaultMonthly is the number of generations granted per month.
const DefaultMonthly = 100

// monthLayout keys the lazy monthly reset.
const monthLayout = "2006-01"
