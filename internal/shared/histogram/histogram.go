// Package histogram partitions numeric values into fixed threshold buckets.
// Every value lands in exactly one bucket and buckets are reported ascending
// by their minimum contained value.
package histogram

import "sort"

// Spec defines a threshold partition. N ascending thresholds produce N+1
// buckets: (-inf, t0], (t0, t1], ..., (tN-1, +inf). Labels name the buckets
// in the same order.
type Spec struct {
	Thresholds []float64
	Labels     []string
}

// Bucket is one partition with its observation count and value sum.
type Bucket struct {
	Name  string
	Count int64
	Total float64
}

// Partition distributes values over the spec's buckets. Buckets that
// receive no values are omitted, matching a SQL GROUP BY over the bucket
// expression. A spec whose label count does not fit its thresholds is a
// programming error and panics.
func Partition(values []float64, spec Spec) []Bucket {
	if len(spec.Labels) != len(spec.Thresholds)+1 {
		panic("histogram: spec needs exactly len(thresholds)+1 labels")
	}
	if !sort.Float64sAreSorted(spec.Thresholds) {
		panic("histogram: thresholds must be ascending")
	}

	counts := make([]int64, len(spec.Labels))
	totals := make([]float64, len(spec.Labels))
	for _, v := range values {
		i := sort.SearchFloat64s(spec.Thresholds, v)
		counts[i]++
		totals[i] += v
	}

	out := make([]Bucket, 0, len(spec.Labels))
	for i, label := range spec.Labels {
		if counts[i] == 0 {
			continue
		}
		out = append(out, Bucket{Name: label, Count: counts[i], Total: totals[i]})
	}
	return out
}
