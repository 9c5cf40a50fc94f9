package xmlctx_test

import (
	"encoding/xml"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/zoobzio/xmlctx"
	xmlctxtest "github.com/zoobzio/xmlctx/testing"
)

func source(doc string) xml.TokenReader {
	return xmlctx.NewTokenSource(strings.NewReader(doc))
}

func TestValidateRootElement(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
		wantErr  error
	}{
		{"match", `<foo/>`, "foo", nil},
		{"match with prolog", `<?xml version="1.0"?><!-- c --><!DOCTYPE foo><foo><bar/></foo>`, "foo", nil},
		{"prefixed root", `<p:foo xmlns:p="urn:p"/>`, "foo", nil},
		{"mismatch", `<foo/>`, "bar", xmlctx.ErrRootElementMismatch},
		{"nested name does not count", `<outer><foo/></outer>`, "foo", xmlctx.ErrRootElementMismatch},
		{"empty", ``, "foo", xmlctx.ErrEmptyDocument},
		{"whitespace only", "  \n\t", "foo", xmlctx.ErrEmptyDocument},
		{"prolog only", `<?xml version="1.0"?><!-- nothing -->`, "foo", xmlctx.ErrEmptyDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := xmlctx.ValidateRootElement(source(tt.doc), tt.expected)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateRootElement() error: %v", err)
				}
				if r == nil {
					t.Error("ValidateRootElement() returned nil reader")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRootElement() error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("ValidateRootElement() returned a reader on failure")
			}
		})
	}
}

func TestValidateRootElement_MismatchDetail(t *testing.T) {
	_, err := xmlctx.ValidateRootElement(source(`<client id="1"/>`), "customer")

	var re *xmlctx.RootElementError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RootElementError, got %T: %v", err, err)
	}
	if re.Expected != "customer" {
		t.Errorf("Expected = %q, want %q", re.Expected, "customer")
	}
	if re.Actual != "client" {
		t.Errorf("Actual = %q, want %q", re.Actual, "client")
	}
	if !strings.Contains(err.Error(), "<client>") {
		t.Errorf("error %q does not name the actual root", err)
	}
}

func TestValidateRootElement_Malformed(t *testing.T) {
	_, err := xmlctx.ValidateRootElement(source(`<foo`), "foo")
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
	if errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Error("truncated document reported as empty")
	}
	if errors.Is(err, xmlctx.ErrRootElementMismatch) {
		t.Error("truncated document reported as mismatch")
	}

	var syntax *xml.SyntaxError
	if !errors.As(err, &syntax) {
		t.Errorf("expected *xml.SyntaxError, got %T", err)
	}
}

func TestValidateRootElement_Replay(t *testing.T) {
	doc := `<?xml version="1.0"?><!-- lead --><invoice xmlns="urn:acme:billing"><number>42</number><total>3.5</total></invoice>`

	r, err := xmlctx.ValidateRootElement(source(doc), "invoice")
	if err != nil {
		t.Fatalf("ValidateRootElement() error: %v", err)
	}

	var v xmlctxtest.Invoice
	if err := xml.NewTokenDecoder(r).Decode(&v); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if v.Number != "42" {
		t.Errorf("Number = %q, want %q", v.Number, "42")
	}
	if v.Total != 3.5 {
		t.Errorf("Total = %v, want 3.5", v.Total)
	}
	if v.XMLName.Space != xmlctxtest.BillingNamespace {
		t.Errorf("XMLName.Space = %q, want %q", v.XMLName.Space, xmlctxtest.BillingNamespace)
	}
}

func TestValidateRootElement_ReplayOrder(t *testing.T) {
	r, err := xmlctx.ValidateRootElement(source(`<!--a--><foo x="1">text</foo>`), "foo")
	if err != nil {
		t.Fatalf("ValidateRootElement() error: %v", err)
	}

	var kinds []string
	for {
		tok, err := r.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Token() error: %v", err)
		}
		switch tok := tok.(type) {
		case xml.Comment:
			kinds = append(kinds, "comment:"+string(tok))
		case xml.StartElement:
			kinds = append(kinds, "start:"+tok.Name.Local)
		case xml.CharData:
			kinds = append(kinds, "text:"+string(tok))
		case xml.EndElement:
			kinds = append(kinds, "end:"+tok.Name.Local)
		}
	}

	want := []string{"comment:a", "start:foo", "text:text", "end:foo"}
	if !slices.Equal(kinds, want) {
		t.Errorf("tokens = %v, want %v", kinds, want)
	}
}

func TestRequireRootElement(t *testing.T) {
	r, err := xmlctx.RequireRootElement(source(`<anything/>`))
	if err != nil {
		t.Fatalf("RequireRootElement() error: %v", err)
	}
	if r == nil {
		t.Error("RequireRootElement() returned nil reader")
	}

	_, err = xmlctx.RequireRootElement(source(`<!-- only -->`))
	if !errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Errorf("RequireRootElement() error = %v, want ErrEmptyDocument", err)
	}
}
