package anomaly

import "sort"

// TopSpikes returns the k flagged months with the largest absolute
// scores, most extreme first. Ties break toward the most recent month.
func TopSpikes(r *Result, k int) []Point {
	spikes := r.Spikes()
	sort.SliceStable(spikes, func(i, j int) bool {
		ai, aj := abs(spikes[i].Score), abs(spikes[j].Score)
		if ai != aj {
			return ai > aj
		}
		return spikes[i].Month > spikes[j].Month
	})
	if k < 0 {
		k = 0
	}
	if k > len(spikes) {
		k = len(spikes)
	}
	return spikes[:k]
}
