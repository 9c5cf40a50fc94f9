// Package testing provides fixtures for xmlctx tests: a small acme type
// hierarchy spread over a base package, a namespaced sub-package, and a
// dependent package.
package testing

import (
	"encoding/xml"

	"github.com/zoobzio/xmlctx"
)

// Packages and namespaces used by the fixture catalog.
const (
	BasePackage      = "com.acme.model"
	BillingPackage   = "com.acme.model.billing"
	BillingNamespace = "urn:acme:billing"
	AuditPackage     = "com.acme.model.audit"
	AuditNamespace   = "urn:acme:audit"
	SharedPackage    = "com.acme.shared"
	PlainPackage     = "com.acme.model.plain"
)

// Customer lives in the base package, so it stays in the default context.
type Customer struct {
	XMLName xml.Name `xml:"customer"`
	ID      string   `xml:"id,attr"`
	Name    string   `xml:"name"`
}

// Invoice lives in the billing package, which declares a namespace.
type Invoice struct {
	XMLName xml.Name `xml:"urn:acme:billing invoice"`
	Number  string   `xml:"number"`
	Total   float64  `xml:"total"`
}

// Payment shares the billing namespace with Invoice.
type Payment struct {
	XMLName xml.Name `xml:"urn:acme:billing payment"`
	Amount  float64  `xml:"amount"`
}

// Entry lives in the audit package, a second namespace.
type Entry struct {
	XMLName xml.Name `xml:"urn:acme:audit entry"`
	Action  string   `xml:"action"`
}

// Note lives in a sub-package without a namespace and writes its body as CDATA.
type Note struct {
	XMLName xml.Name `xml:"note"`
	Title   string   `xml:"title"`
	Body    string   `xml:"body"`
}

// Address has no XMLName field and is never discovered.
type Address struct {
	Street string `xml:"street"`
	City   string `xml:"city"`
}

// Shipment lives in the dependent package.
type Shipment struct {
	XMLName xml.Name `xml:"shipment"`
	Carrier string   `xml:"carrier"`
}

// Draft declares an XMLName without a name, so it relies on the default
// element name and skips root validation.
type Draft struct {
	XMLName xml.Name
	Text    string `xml:"text"`
}

// Catalog declares every fixture type and both namespaces.
func Catalog() *xmlctx.Catalog {
	c := xmlctx.NewCatalog()
	xmlctx.MustDeclare[Customer](c, xmlctx.InPackage(BasePackage))
	xmlctx.MustDeclare[Draft](c, xmlctx.InPackage(BasePackage))
	xmlctx.MustDeclare[Address](c, xmlctx.InPackage(BasePackage))
	xmlctx.MustDeclare[Invoice](c, xmlctx.InPackage(BillingPackage))
	xmlctx.MustDeclare[Payment](c, xmlctx.InPackage(BillingPackage))
	xmlctx.MustDeclare[Entry](c, xmlctx.InPackage(AuditPackage))
	xmlctx.MustDeclare[Note](c, xmlctx.InPackage(PlainPackage), xmlctx.WithCData("body"))
	xmlctx.MustDeclare[Shipment](c, xmlctx.InPackage(SharedPackage))
	c.SetNamespace(BillingPackage, BillingNamespace)
	c.SetNamespace(AuditPackage, AuditNamespace)
	return c
}
