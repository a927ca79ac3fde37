package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift    = 5
	vlqBase     = 1 << vlqShift
	vlqMask     = vlqBase - 1
	vlqContinue = vlqBase
)

var base64Values = func() [256]int {
	var t [256]int
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		t[base64Chars[i]] = i
	}
	return t
}()

// writeVLQ appends the base64 VLQ encoding of v.
func writeVLQ(b *strings.Builder, v int) {
	var n int
	if v < 0 {
		n = (-v << 1) | 1
	} else {
		n = v << 1
	}
	for {
		digit := n & vlqMask
		n >>= vlqShift
		if n > 0 {
			digit |= vlqContinue
		}
		b.WriteByte(base64Chars[digit])
		if n == 0 {
			return
		}
	}
}

// readVLQ decodes one value starting at s[i] and returns it with the next index.
func readVLQ(s string, i int) (int, int, error) {
	var result, shift int
	for {
		if i >= len(s) {
			return 0, i, fmt.Errorf("unterminated VLQ value")
		}
		digit := base64Values[s[i]]
		if digit < 0 {
			return 0, i, fmt.Errorf("invalid base64 character %q at %d", s[i], i)
		}
		i++
		result += (digit & vlqMask) << shift
		shift += vlqShift
		if digit&vlqContinue == 0 {
			break
		}
	}
	if result&1 == 1 {
		return -(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
