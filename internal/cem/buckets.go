package cem

import "sort"

// scoreBuckets groups sample indices by score. Ties share a bucket in
// insertion order; draining consumes buckets from the highest score down
// and pops each bucket from the end, so the most recently added of a tied
// pair is selected first.
type scoreBuckets struct {
	byScore map[float64][]int
}

func newScoreBuckets() *scoreBuckets {
	return &scoreBuckets{byScore: make(map[float64][]int)}
}

func (b *scoreBuckets) add(score float64, index int) {
	b.byScore[score] = append(b.byScore[score], index)
}

// drainTop removes and returns exactly n indices, walking buckets from the
// highest score downward and emptying each before moving to the next.
// Returns fewer than n only if the buckets run out.
func (b *scoreBuckets) drainTop(n int) []int {
	scores := make([]float64, 0, len(b.byScore))
	for score := range b.byScore {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	out := make([]int, 0, n)
	for _, score := range scores {
		bucket := b.byScore[score]
		for len(bucket) > 0 && len(out) < n {
			out = append(out, bucket[len(bucket)-1])
			bucket = bucket[:len(bucket)-1]
		}
		b.byScore[score] = bucket
		if len(out) == n {
			break
		}
	}
	return out
}
