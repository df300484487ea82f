package player

import "time"

func OverloadTimeAfter(overload func(time.Duration) <-chan time.Time) func() {
	timeAfterRef := timeAfter
	timeAfter = overload
	return func() { timeAfter = timeAfterRef }
}
