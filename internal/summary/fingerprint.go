package summary

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes column names and rows, in order, with xxh3. Two tables
// with the same columns, cell values and row order have the same
// fingerprint. Integral floats hash like the equal int64 so a value read
// back from a REAL column matches what was written.
func Fingerprint(columns []string, rows [][]any) string {
	h := xxh3.New()
	var buf [8]byte
	for _, c := range columns {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0x1f})
	}
	_, _ = h.Write([]byte{0x1e})
	for _, row := range rows {
		for _, v := range row {
			switch x := v.(type) {
			case nil:
				_, _ = h.Write([]byte{'N'})
			case int64:
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(x)))
				_, _ = h.Write([]byte{'F'})
				_, _ = h.Write(buf[:])
			case float64:
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
				_, _ = h.Write([]byte{'F'})
				_, _ = h.Write(buf[:])
			case string:
				_, _ = h.Write([]byte{'S'})
				_, _ = h.WriteString(strconv.Itoa(len(x)) + ":")
				_, _ = h.WriteString(x)
			default:
				_, _ = h.Write([]byte{'?'})
				_, _ = h.WriteString(fmt.Sprint(x))
			}
		}
		_, _ = h.Write([]byte{0x1e})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
