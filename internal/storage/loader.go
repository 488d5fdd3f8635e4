package storage

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// DefaultBatchSize is used when Config.BatchSize is not positive.
const DefaultBatchSize = 500

// CopyFn abstracts a backend's bulk insert capability. Implementations should
// insert the provided rows (aligned to 'columns' order) and return the number
// of rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of size batchSize and calls copyFn for
// each one, in order. It returns the total number of rows reported by copyFn
// and the first error encountered; no further batches run after an error.
//
// Progress is logged on each successful flush with running totals and
// instantaneous rows/sec since the previous flush.
func LoadBatches(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
	)

	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: table=%s copy failed after=%d total=%d err=%v", table, n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(n) / sinceLast.Seconds()
		}
		log.Printf(
			"loader: table=%s batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			table,
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
	}

	return total, nil
}

// FiniteOrNil replaces ±Inf and NaN float64 cells with nil, for backends
// whose float columns reject non-finite values. rows is modified in place.
func FiniteOrNil(rows [][]any) [][]any {
	for _, row := range rows {
		for i, v := range row {
			if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				row[i] = nil
			}
		}
	}
	return rows
}
