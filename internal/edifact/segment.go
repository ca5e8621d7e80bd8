package edifact

import (
	"fmt"
	"strings"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/model"
)

// element is one data element of a segment: a sequence of atomic component
// values. Escaping is applied per component, then components are joined with
// the component separator.
type element []string

// el builds a data element from its component values. A single value yields
// a simple element, several values a composite.
func el(values ...string) element {
	return element(values)
}

// buildSegment assembles one segment: tag, element separator, escaped
// elements joined by the element separator, segment terminator. The
// assembled segment must not exceed the configured maximum length.
func buildSegment(tag string, elements []element, cfg config.Config) (string, error) {
	d := cfg.Delimiters
	var b strings.Builder
	b.WriteString(tag)
	for _, e := range elements {
		b.WriteByte(d.ElementSeparator)
		for i, comp := range e {
			if i > 0 {
				b.WriteByte(d.ComponentSeparator)
			}
			b.WriteString(Escape(comp, d))
		}
	}
	b.WriteByte(d.SegmentTerminator)

	seg := b.String()
	if len(seg) > cfg.MaxSegmentLen {
		return "", model.NewGenerationError(model.CodeSegmentTooLong,
			fmt.Sprintf("segment %s exceeds maximum length %d", tag, cfg.MaxSegmentLen),
			map[string]any{
				"tag":     tag,
				"segment": model.Truncate(seg),
				"length":  len(seg),
				"max":     cfg.MaxSegmentLen,
			})
	}
	return seg, nil
}

// serviceStringAdvice renders the UNA segment literally: the service
// characters in canonical order followed by the terminator. It is not built
// via buildSegment and is never escaped.
func serviceStringAdvice(d config.Delimiters) string {
	return "UNA" + string([]byte{
		d.ComponentSeparator,
		d.ElementSeparator,
		d.DecimalMark,
		d.ReleaseChar,
		' ', // reserved placeholder
		d.SegmentTerminator,
	})
}
