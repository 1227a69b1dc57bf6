package output

import "strings"

// sparkline block characters from lowest to highest
var sparkBlocks = []rune{
	'\u2581', // ▁
	'\u2582', // ▂
	'\u2583', // ▃
	'\u2584', // ▄
	'\u2585', // ▅
	'\u2586', // ▆
	'\u2587', // ▇
	'\u2588', // █
}

// Sparkline renders percentages on a fixed 0-100 scale. When there are more
// values than width, consecutive values are averaged into width buckets.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 1 {
		width = 60
	}

	buckets := values
	if len(values) > width {
		buckets = make([]float64, width)
		for i := range buckets {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			buckets[i] = sum / float64(end-start)
		}
	}

	var b strings.Builder
	for _, v := range buckets {
		idx := int(v / 100 * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}
