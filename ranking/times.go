package ranking

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidSeconds is the sentinel for an unparsable finish time. Invalid
// records sort to the bottom of every group instead of breaking aggregation.
const InvalidSeconds = 999999

// TimeToSeconds converts "HH:MM:SS", "MM:SS" or a bare seconds count to
// total seconds. Anything else yields InvalidSeconds.
func TimeToSeconds(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return InvalidSeconds
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	case 2:
		return nums[0]*60 + nums[1]
	case 1:
		return nums[0]
	}
	return InvalidSeconds
}

// FormatTime normalises a finish time to canonical zero-padded "HH:MM:SS".
// Unparsable input formats as "00:00:00"; callers detect bad records through
// the seconds sentinel, not the display string.
func FormatTime(s string) string {
	secs := TimeToSeconds(s)
	if secs == InvalidSeconds {
		return "00:00:00"
	}
	return SecondsToTime(secs)
}

// SecondsToTime renders a seconds count as "HH:MM:SS".
func SecondsToTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
