package edifact

import (
	"strings"

	"github.com/rezonia/edifact-generator/internal/config"
)

// Escape applies the EDIFACT release-character convention to one atomic
// value: the release character itself is doubled, each reserved delimiter is
// prefixed with the release character, and any residual control character is
// dropped. It must never be applied to an already-assembled segment.
func Escape(value string, d config.Delimiters) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case d.ReleaseChar:
			b.WriteByte(d.ReleaseChar)
			b.WriteByte(d.ReleaseChar)
		case d.SegmentTerminator, d.ElementSeparator, d.ComponentSeparator, d.RepetitionSeparator:
			b.WriteByte(d.ReleaseChar)
			b.WriteByte(c)
		default:
			// Sanitization already removed control characters; drop any
			// stragglers rather than corrupt the segment.
			if c < 0x20 || c == 0x7F {
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
