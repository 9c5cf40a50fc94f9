package xmlctx_test

import (
	"encoding/xml"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/zoobzio/xmlctx"
	"github.com/zoobzio/xmlctx/json"
	xmlctxtest "github.com/zoobzio/xmlctx/testing"
	xmlcodec "github.com/zoobzio/xmlctx/xml"
)

type looseRoot struct {
	XMLName xml.Name
	V       string `xml:"v"`
}

// bulletin writes its body and footer as CDATA through field tags alone.
type bulletin struct {
	XMLName xml.Name `xml:"bulletin"`
	Title   string   `xml:"title"`
	Body    string   `xml:"body" xmlctx:"cdata"`
	Footer  string   `xmlctx:"cdata"`
}

func declared[T any](t *testing.T, c *xmlctx.Catalog) xmlctx.Type {
	t.Helper()
	ty, ok := c.Lookup(reflect.TypeFor[T]())
	if !ok {
		t.Fatalf("type %s not declared", reflect.TypeFor[T]())
	}
	return ty
}

func fixtureContext(t *testing.T, codec xmlctx.Codec) xmlctx.Context {
	t.Helper()
	c := xmlctxtest.Catalog()
	ctx, err := xmlctx.NewBuilder(codec).Build([]xmlctx.Type{
		declared[xmlctxtest.Customer](t, c),
		declared[xmlctxtest.Draft](t, c),
		declared[xmlctxtest.Note](t, c),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return ctx
}

func TestBuild_Errors(t *testing.T) {
	c := xmlctxtest.Catalog()

	t.Run("no codec", func(t *testing.T) {
		_, err := xmlctx.NewBuilder(nil).Build(nil)
		if !errors.Is(err, xmlctx.ErrBuild) {
			t.Errorf("Build() error = %v, want ErrBuild", err)
		}
	})

	t.Run("missing reflect type", func(t *testing.T) {
		_, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{{Name: "Ghost", Package: "x.y"}})
		var be *xmlctx.BuildError
		if !errors.As(err, &be) {
			t.Fatalf("expected *BuildError, got %T: %v", err, err)
		}
		if !slices.Equal(be.Types, []string{"x.y.Ghost"}) {
			t.Errorf("Types = %v, want [x.y.Ghost]", be.Types)
		}
	})

	t.Run("non-struct", func(t *testing.T) {
		_, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{xmlctx.TypeOf(reflect.TypeFor[int]())})
		if !errors.Is(err, xmlctx.ErrBuild) {
			t.Errorf("Build() error = %v, want ErrBuild", err)
		}
	})

	t.Run("duplicate element", func(t *testing.T) {
		clash := declared[xmlctxtest.Customer](t, c)
		clash.Name = "Client"
		clash.Reflect = reflect.TypeFor[xmlctxtest.Shipment]()
		_, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{declared[xmlctxtest.Customer](t, c), clash})
		if !errors.Is(err, xmlctx.ErrBuild) {
			t.Fatalf("Build() error = %v, want ErrBuild", err)
		}
		if !strings.Contains(err.Error(), "customer") {
			t.Errorf("error %q does not name the element", err)
		}
	})

	t.Run("same element in different namespaces", func(t *testing.T) {
		other := declared[xmlctxtest.Customer](t, c)
		other.Name = "Client"
		other.Namespace = "urn:other"
		other.Reflect = reflect.TypeFor[xmlctxtest.Shipment]()
		if _, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{declared[xmlctxtest.Customer](t, c), other}); err != nil {
			t.Errorf("Build() error: %v", err)
		}
	})
}

func TestBound_Types(t *testing.T) {
	ctx := fixtureContext(t, xmlcodec.New())

	if got := ctx.ContentType(); got != "application/xml" {
		t.Errorf("ContentType() = %q, want application/xml", got)
	}
	want := []string{
		"com.acme.model.Customer",
		"com.acme.model.Draft",
		"com.acme.model.plain.Note",
	}
	if got := typeNames(ctx.Types()); !slices.Equal(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}

	ty, ok := ctx.Lookup(reflect.TypeFor[*xmlctxtest.Note]())
	if !ok {
		t.Fatal("Note not bound")
	}
	if !slices.Equal(ty.CData, []string{"body"}) {
		t.Errorf("CData = %v, want [body]", ty.CData)
	}

	if _, ok := ctx.Lookup(reflect.TypeFor[xmlctxtest.Invoice]()); ok {
		t.Error("Invoice should not be bound")
	}
}

func TestBound_Marshal(t *testing.T) {
	ctx := fixtureContext(t, xmlcodec.New())

	data, err := ctx.Marshal(&xmlctxtest.Customer{ID: "c1", Name: "Ada"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := `<customer id="c1"><name>Ada</name></customer>`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	data, err = ctx.Marshal(xmlctxtest.Note{Title: "t", Body: "<b>"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := `<note><title>t</title><body><![CDATA[<b>]]></body></note>`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	if _, err := ctx.Marshal(xmlctxtest.Invoice{}); !errors.Is(err, xmlctx.ErrUnboundType) {
		t.Errorf("Marshal(Invoice) error = %v, want ErrUnboundType", err)
	}
	if _, err := ctx.Marshal(nil); !errors.Is(err, xmlctx.ErrUnboundType) {
		t.Errorf("Marshal(nil) error = %v, want ErrUnboundType", err)
	}
}

func TestBound_TaggedCData(t *testing.T) {
	c := xmlctx.NewCatalog()
	xmlctx.MustDeclare[bulletin](c, xmlctx.InPackage("org.news"))

	ctx, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{declared[bulletin](t, c)})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	in := bulletin{Title: "a & b", Body: "x < y", Footer: "]]> end"}
	data, err := ctx.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `<title>a &amp; b</title>`) {
		t.Errorf("untagged field should stay escaped text: %s", got)
	}
	if !strings.Contains(got, `<body><![CDATA[x < y]]></body>`) {
		t.Errorf("tagged body not written as CDATA: %s", got)
	}
	if !strings.Contains(got, `<Footer><![CDATA[`) {
		t.Errorf("tagged footer not written as CDATA: %s", got)
	}

	var back bulletin
	if err := ctx.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back.Body != in.Body || back.Footer != in.Footer || back.Title != in.Title {
		t.Errorf("round trip = %+v, want %+v", back, in)
	}
}

func TestBound_Unmarshal(t *testing.T) {
	ctx := fixtureContext(t, xmlcodec.New())

	var c xmlctxtest.Customer
	if err := ctx.Unmarshal([]byte(`<!-- x --><customer id="c2"><name>Grace</name></customer>`), &c); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if c.ID != "c2" || c.Name != "Grace" {
		t.Errorf("Unmarshal() = %+v, want id c2 name Grace", c)
	}

	err := ctx.Unmarshal([]byte(`<client id="c2"/>`), &c)
	if !errors.Is(err, xmlctx.ErrRootElementMismatch) {
		t.Errorf("error = %v, want ErrRootElementMismatch", err)
	}
	if errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Error("root mismatch should not wrap ErrUnmarshal")
	}

	if err := ctx.Unmarshal([]byte(`  `), &c); !errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Errorf("error = %v, want ErrEmptyDocument", err)
	}

	err = ctx.Unmarshal([]byte(`<customer`), &c)
	if !errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Errorf("error = %v, want ErrUnmarshal", err)
	}
	if errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Error("truncated document reported as empty")
	}
}

func TestBound_UnmarshalTargets(t *testing.T) {
	ctx := fixtureContext(t, xmlcodec.New())

	var c xmlctxtest.Customer
	if err := ctx.Unmarshal([]byte(`<customer/>`), c); !errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Errorf("non-pointer target error = %v, want ErrUnmarshal", err)
	}
	if err := ctx.Unmarshal([]byte(`<customer/>`), (*xmlctxtest.Customer)(nil)); !errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Errorf("nil pointer target error = %v, want ErrUnmarshal", err)
	}

	var inv xmlctxtest.Invoice
	if err := ctx.Unmarshal([]byte(`<invoice/>`), &inv); !errors.Is(err, xmlctx.ErrUnboundType) {
		t.Errorf("unbound target error = %v, want ErrUnboundType", err)
	}
}

func TestBound_ImplicitRootSkipsValidation(t *testing.T) {
	ctx := fixtureContext(t, xmlcodec.New())

	var d xmlctxtest.Draft
	if err := ctx.Decode(strings.NewReader(`<sketch><text>hi</text></sketch>`), &d); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if d.Text != "hi" {
		t.Errorf("Text = %q, want hi", d.Text)
	}
	if d.XMLName.Local != "sketch" {
		t.Errorf("XMLName.Local = %q, want sketch", d.XMLName.Local)
	}

	// Without a declared root the codec reports the empty input itself.
	err := ctx.Unmarshal(nil, &d)
	if !errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Errorf("error = %v, want ErrUnmarshal", err)
	}
	if errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Error("implicit root should not report ErrEmptyDocument")
	}
}

func TestBound_ExplicitEmptyRoot(t *testing.T) {
	c := xmlctx.NewCatalog()
	xmlctx.MustDeclare[looseRoot](c, xmlctx.InPackage("org.loose"), xmlctx.WithRootName(""))

	ctx, err := xmlctx.NewBuilder(xmlcodec.New()).Build([]xmlctx.Type{declared[looseRoot](t, c)})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var v looseRoot
	if err := ctx.Unmarshal([]byte(`<anything><v>1</v></anything>`), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.V != "1" {
		t.Errorf("V = %q, want 1", v.V)
	}

	if err := ctx.Unmarshal([]byte(`<!-- none -->`), &v); !errors.Is(err, xmlctx.ErrEmptyDocument) {
		t.Errorf("error = %v, want ErrEmptyDocument", err)
	}
}

func TestBound_NonTokenCodec(t *testing.T) {
	ctx := fixtureContext(t, json.New())
	if got := ctx.ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q, want application/json", got)
	}

	data, err := ctx.Marshal(xmlctxtest.Customer{ID: "c1", Name: "Ada"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var back xmlctxtest.Customer
	if err := ctx.Decode(strings.NewReader(string(data)), &back); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if back.Name != "Ada" {
		t.Errorf("Name = %q, want Ada", back.Name)
	}

	if err := ctx.Unmarshal([]byte(`{`), &back); !errors.Is(err, xmlctx.ErrUnmarshal) {
		t.Errorf("error = %v, want ErrUnmarshal", err)
	}
}
