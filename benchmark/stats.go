package benchmark

import (
	"math"
	"slices"
	"time"
)

// Statistics summarizes the wall time of a group of invocations
type Statistics struct {
	N      int
	Total  time.Duration
	Mean   time.Duration
	Median time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// CalculateStatistics computes Statistics over durations.
func CalculateStatistics(durations []time.Duration) Statistics {
	if len(durations) == 0 {
		return Statistics{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	stats := Statistics{
		N:   len(durations),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}

	for _, d := range durations {
		stats.Total += d
	}
	mean := stats.Total.Seconds() / float64(len(durations))
	stats.Mean = seconds(mean)

	variance := 0.0
	for _, d := range durations {
		diff := d.Seconds() - mean
		variance += diff * diff
	}
	variance /= float64(len(durations))
	stats.StdDev = seconds(math.Sqrt(variance))

	stats.Median = median(sorted)

	return stats
}

// median interpolates between the two middle elements of sorted
func median(sorted []time.Duration) time.Duration {
	if len(sorted)%2 == 1 {
		return sorted[len(sorted)/2]
	}
	lower := sorted[len(sorted)/2-1]
	upper := sorted[len(sorted)/2]
	return lower + (upper-lower)/2
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
