package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

// wrapCData rewrites data so that non-blank text whose parent element has a
// local name in elements is written as a CDATA section. Everything else is
// copied token for token with its original prefixes.
func wrapCData(data []byte, elements []string) ([]byte, error) {
	if len(elements) == 0 {
		return data, nil
	}
	names := make(map[string]struct{}, len(elements))
	for _, e := range elements {
		names[e] = struct{}{}
	}

	d := xml.NewDecoder(bytes.NewReader(data))
	var (
		out   bytes.Buffer
		stack []string
	)
	out.Grow(len(data) + 32)
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			out.WriteByte('<')
			out.WriteString(qualified(t.Name))
			for _, a := range t.Attr {
				out.WriteByte(' ')
				out.WriteString(qualified(a.Name))
				out.WriteString(`="`)
				out.WriteString(attrEscaper.Replace(a.Value))
				out.WriteByte('"')
			}
			out.WriteByte('>')
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out.WriteString("</")
			out.WriteString(qualified(t.Name))
			out.WriteByte('>')
		case xml.CharData:
			text := string(t)
			if len(stack) > 0 && strings.TrimSpace(text) != "" {
				if _, ok := names[stack[len(stack)-1]]; ok {
					out.WriteString("<![CDATA[")
					out.WriteString(strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>"))
					out.WriteString("]]>")
					continue
				}
			}
			out.WriteString(textEscaper.Replace(text))
		case xml.Comment:
			out.WriteString("<!--")
			out.Write(t)
			out.WriteString("-->")
		case xml.ProcInst:
			out.WriteString("<?")
			out.WriteString(t.Target)
			if len(t.Inst) > 0 {
				out.WriteByte(' ')
				out.Write(t.Inst)
			}
			out.WriteString("?>")
		case xml.Directive:
			out.WriteString("<!")
			out.Write(t)
			out.WriteByte('>')
		}
	}
	return out.Bytes(), nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
