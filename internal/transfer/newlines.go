package transfer

import "golang.org/x/text/transform"

// lineEndings rewrites CRLF and lone CR record terminators to LF so that
// encoding/csv, which only ends records on LF, splits them. Line breaks
// inside a quoted field are copied unchanged.
type lineEndings struct {
	quoted     bool
	fieldStart bool
}

func newLineEndings() *lineEndings {
	return &lineEndings{fieldStart: true}
}

// Reset implements transform.Transformer.
func (l *lineEndings) Reset() {
	*l = lineEndings{fieldStart: true}
}

// Transform implements transform.Transformer.
func (l *lineEndings) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		c := src[nSrc]
		width := 1

		switch {
		case l.quoted:
			if c == '"' {
				if nSrc+1 == len(src) && !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				if nSrc+1 < len(src) && src[nSrc+1] == '"' {
					if nDst+2 > len(dst) {
						return nDst, nSrc, transform.ErrShortDst
					}
					dst[nDst] = '"'
					nDst++
					width = 2
				} else {
					l.quoted = false
				}
			}
			l.fieldStart = false

		case c == '\r':
			if nSrc+1 == len(src) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nSrc+1 < len(src) && src[nSrc+1] == '\n' {
				width = 2
			}
			c = '\n'
			l.fieldStart = true

		case c == '\n' || c == ',':
			l.fieldStart = true

		case c == '"' && l.fieldStart:
			l.quoted = true
			l.fieldStart = false

		default:
			l.fieldStart = false
		}

		dst[nDst] = c
		nDst++
		nSrc += width
	}
	return nDst, nSrc, nil
}
