package xmlctx

import (
	"encoding/xml"
	"io"
)

// rawTokens exposes a decoder's raw token stream so namespace translation is
// left to whichever decoder consumes it last.
type rawTokens struct {
	d *xml.Decoder
}

func (r rawTokens) Token() (xml.Token, error) {
	return r.d.RawToken()
}

// NewTokenSource returns a raw token stream over r, suitable for
// ValidateRootElement and xml.NewTokenDecoder.
func NewTokenSource(r io.Reader) xml.TokenReader {
	return rawTokens{d: xml.NewDecoder(r)}
}

// replay serves buffered tokens before reading from the source again.
type replay struct {
	buf []xml.Token
	src xml.TokenReader
}

func (r *replay) Token() (xml.Token, error) {
	if len(r.buf) > 0 {
		tok := r.buf[0]
		r.buf[0] = nil
		r.buf = r.buf[1:]
		return tok, nil
	}
	return r.src.Token()
}

// peekRoot reads up to and including the first start element, keeping every
// token it saw for replay.
func peekRoot(src xml.TokenReader) (*replay, xml.StartElement, error) {
	r := &replay{src: src}
	for {
		tok, err := src.Token()
		if tok != nil {
			tok = xml.CopyToken(tok)
			r.buf = append(r.buf, tok)
			if start, ok := tok.(xml.StartElement); ok {
				return r, start, nil
			}
		}
		if err == io.EOF {
			return nil, xml.StartElement{}, ErrEmptyDocument
		}
		if err != nil {
			return nil, xml.StartElement{}, err
		}
	}
}

// ValidateRootElement checks that the first element of src has the local name
// expected. Tokens before the root are skipped for the comparison but not
// consumed: the returned reader yields the whole stream from the start.
//
// It fails with ErrEmptyDocument when src ends before any element and with a
// *RootElementError on mismatch. Syntax errors from src are returned unchanged.
func ValidateRootElement(src xml.TokenReader, expected string) (xml.TokenReader, error) {
	r, start, err := peekRoot(src)
	if err != nil {
		return nil, err
	}
	if start.Name.Local != expected {
		return nil, &RootElementError{Expected: expected, Actual: start.Name.Local}
	}
	return r, nil
}

// RequireRootElement only checks that src contains an element.
func RequireRootElement(src xml.TokenReader) (xml.TokenReader, error) {
	r, _, err := peekRoot(src)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// checkRoot applies t's root declaration to src.
func checkRoot(src xml.TokenReader, t Type) (xml.TokenReader, error) {
	switch {
	case !t.Root.Explicit:
		return src, nil
	case t.Root.Name == "":
		return RequireRootElement(src)
	default:
		return ValidateRootElement(src, t.Root.Name)
	}
}
