// Package timeseries groups timestamped rows into day or month buckets and
// reduces each bucket to counts, sums, averages or OHLC values. Buckets with
// no rows produce no point; output is always ordered ascending by date.
package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Period selects the truncation unit for bucketing.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a caller-supplied period string. An empty string
// defaults to day.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "", string(PeriodDay):
		return PeriodDay, nil
	case string(PeriodMonth):
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Truncate floors t (in UTC) to the start of its period. An unrecognized
// period is a programming error and panics.
func Truncate(t time.Time, p Period) time.Time {
	u := t.UTC()
	switch p {
	case PeriodDay:
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodMonth:
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		panic("timeseries: unknown period " + string(p))
	}
}

// Row is a timestamped ledger row projected to its numeric columns.
type Row struct {
	Time   time.Time
	Amount float64
	Rials  float64
}

// Point is one aggregated bucket of a series.
type Point struct {
	Date        time.Time
	Count       int64
	TotalAmount float64
	TotalRials  float64
}

// Bucket groups rows by truncated timestamp and sums each bucket.
func Bucket(rows []Row, p Period) []Point {
	acc := make(map[time.Time]*Point)
	for _, r := range rows {
		d := Truncate(r.Time, p)
		pt, ok := acc[d]
		if !ok {
			pt = &Point{Date: d}
			acc[d] = pt
		}
		pt.Count++
		pt.TotalAmount += r.Amount
		pt.TotalRials += r.Rials
	}
	return sortPoints(acc)
}

// ValueRow is a timestamped scalar observation, e.g. an exchange rate.
type ValueRow struct {
	Time  time.Time
	Value float64
}

// AvgPoint carries the mean of a bucket's observations.
type AvgPoint struct {
	Date time.Time
	Avg  float64
}

// Average groups observations by truncated timestamp and averages each
// bucket.
func Average(rows []ValueRow, p Period) []AvgPoint {
	type sums struct {
		total float64
		n     int64
	}
	acc := make(map[time.Time]*sums)
	for _, r := range rows {
		d := Truncate(r.Time, p)
		s, ok := acc[d]
		if !ok {
			s = &sums{}
			acc[d] = s
		}
		s.total += r.Value
		s.n++
	}

	out := make([]AvgPoint, 0, len(acc))
	for d, s := range acc {
		out = append(out, AvgPoint{Date: d, Avg: s.total / float64(s.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// OHLC is a candlestick bar: first, last, lowest and highest observation
// within one bucket.
type OHLC struct {
	Date  time.Time
	Open  float64
	Close float64
	Low   float64
	High  float64
}

// Candlesticks reduces observations to one OHLC bar per bucket. Open and
// close follow observation timestamps, so input order does not matter.
func Candlesticks(rows []ValueRow, p Period) []OHLC {
	sorted := make([]ValueRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var out []OHLC
	for _, r := range sorted {
		d := Truncate(r.Time, p)
		if len(out) == 0 || !out[len(out)-1].Date.Equal(d) {
			out = append(out, OHLC{Date: d, Open: r.Value, Close: r.Value, Low: r.Value, High: r.Value})
			continue
		}
		bar := &out[len(out)-1]
		bar.Close = r.Value
		if r.Value < bar.Low {
			bar.Low = r.Value
		}
		if r.Value > bar.High {
			bar.High = r.Value
		}
	}
	return out
}

// KeyedRow is a timestamped row carrying an identity key, e.g. a wallet.
type KeyedRow struct {
	Time time.Time
	Key  string
}

// DistinctCount counts distinct keys per bucket.
func DistinctCount(rows []KeyedRow, p Period) []Point {
	seen := make(map[time.Time]map[string]struct{})
	for _, r := range rows {
		d := Truncate(r.Time, p)
		keys, ok := seen[d]
		if !ok {
			keys = make(map[string]struct{})
			seen[d] = keys
		}
		keys[r.Key] = struct{}{}
	}

	acc := make(map[time.Time]*Point, len(seen))
	for d, keys := range seen {
		acc[d] = &Point{Date: d, Count: int64(len(keys))}
	}
	return sortPoints(acc)
}

// FirstSeen reduces keyed rows to each key's earliest timestamp, then counts
// first appearances per bucket. Used for new-users-per-month style series.
func FirstSeen(rows []KeyedRow, p Period) []Point {
	first := make(map[string]time.Time)
	for _, r := range rows {
		if t, ok := first[r.Key]; !ok || r.Time.Before(t) {
			first[r.Key] = r.Time
		}
	}

	acc := make(map[time.Time]*Point)
	for _, t := range first {
		d := Truncate(t, p)
		pt, ok := acc[d]
		if !ok {
			pt = &Point{Date: d}
			acc[d] = pt
		}
		pt.Count++
	}
	return sortPoints(acc)
}

func sortPoints(acc map[time.Time]*Point) []Point {
	out := make([]Point, 0, len(acc))
	for _, pt := range acc {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
