package helper

import (
	"strconv"
	"strings"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

const defaultTimerMsg = "Time taken: {cost}s"

// Timer starts a stopwatch. The returned function stops it, logs msg at info
// level and returns the measured span. A "{cost}" placeholder in msg is
// replaced by the elapsed seconds.
//
//	defer helper.Timer(logger, "load users took {cost}s")()
func Timer(logger *zap.Logger, msg string) func() timespan.TimeSpan {
	if msg == "" {
		msg = defaultTimerMsg
	}
	start := time.Now()
	return func() timespan.TimeSpan {
		end := time.Now()
		cost := end.Sub(start)
		if logger != nil {
			logger.Info(
				strings.ReplaceAll(msg, "{cost}", formatSeconds(cost)),
				zap.Duration("cost", cost),
			)
		}
		return timespan.BetweenTimes(start, end)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
