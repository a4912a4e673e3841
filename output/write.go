package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ChristianF88/lsdsort/pools"
	"github.com/natefinch/atomic"
)

var lineBuilders = pools.NewLineBuilderPool()

// WriteValues writes one value per line to filename. The file is replaced
// atomically so readers never observe a partially written result.
func WriteValues(filename string, values []int64) error {
	sb := pools.GetBuilderFromPool(lineBuilders)
	defer pools.ReturnBuilderToPool(lineBuilders, sb)

	sb.Grow(len(values) * 8)
	var buf [20]byte
	for _, v := range values {
		sb.Write(strconv.AppendInt(buf[:0], v, 10))
		sb.WriteByte('\n')
	}

	if err := atomic.WriteFile(filename, strings.NewReader(sb.String())); err != nil {
		return fmt.Errorf("writing sorted values to %s: %w", filename, err)
	}
	return nil
}
