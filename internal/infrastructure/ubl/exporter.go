// Package ubl serializa facturas como documentos UBL 2.1 (Invoice o
// CreditNote) para intercambio con sistemas contables externos. Sin firma
// digital: el documento se exporta tal cual, sin extensiones XAdES.
package ubl

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// Namespaces oficiales UBL 2.1.
const (
	NsInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	NsCac        = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc        = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Exporter implementa invoicing.InvoiceXMLExporter con etree.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportInvoiceXML genera el documento UBL. Las facturas DEBET salen como
// <Invoice>; las notas crédito como <CreditNote> con la referencia a la
// factura acreditada en cac:BillingReference.
func (e *Exporter) ExportInvoiceXML(docData *invoicing.InvoiceDocument) ([]byte, error) {
	if docData == nil || docData.Invoice == nil || docData.Organization == nil || docData.Client == nil {
		return nil, fmt.Errorf("ubl: faltan invoice, organization o client en el documento")
	}
	inv := docData.Invoice

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootName, rootNs, lineName := "Invoice", NsInvoice, "InvoiceLine"
	if inv.Type == entity.TypeCredit {
		rootName, rootNs, lineName = "CreditNote", NsCreditNote, "CreditNoteLine"
	}
	root := doc.CreateElement(rootName)
	root.CreateAttr("xmlns", rootNs)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.InvoiceNumber)
	cbc(root, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	if !inv.DueDate.IsZero() && inv.Type == entity.TypeDebet {
		cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	}
	cbc(root, "DocumentCurrencyCode", inv.Currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(docData.Items)))

	// Referencia a la factura acreditada (solo notas crédito).
	if inv.CreditedInvoiceID != "" {
		billingRef := cac(root, "BillingReference")
		docRef := cac(billingRef, "InvoiceDocumentReference")
		cbc(docRef, "ID", inv.CreditedInvoiceID)
	}

	e.writeParty(root, "AccountingSupplierParty", docData.Organization.Name, docData.Organization.Email)
	e.writeParty(root, "AccountingCustomerParty", docData.Client.Name, docData.Client.Email)

	e.writeMonetaryTotal(root, inv)

	for _, it := range docData.Items {
		e.writeLine(root, lineName, inv.Currency, it)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeParty escribe un bloque cac:*Party con nombre y contacto.
func (e *Exporter) writeParty(root *etree.Element, role, name, email string) {
	party := cac(root, role)
	inner := cac(party, "Party")
	partyName := cac(inner, "PartyName")
	cbc(partyName, "Name", name)
	if email != "" {
		contact := cac(inner, "Contact")
		cbc(contact, "ElectronicMail", email)
	}
}

// writeMonetaryTotal escribe cac:LegalMonetaryTotal con montos absolutos:
// UBL expresa el signo con el tipo de documento, no con montos negativos.
func (e *Exporter) writeMonetaryTotal(root *etree.Element, inv *entity.Invoice) {
	total := cac(root, "LegalMonetaryTotal")
	amount(total, "LineExtensionAmount", inv.Currency, inv.AbsTotal())
	amount(total, "PayableAmount", inv.Currency, inv.AbsTotal())
}

func (e *Exporter) writeLine(root *etree.Element, lineName, currency string, it *entity.LineItem) {
	line := cac(root, lineName)
	cbc(line, "ID", strconv.Itoa(it.Position))
	qtyName := "InvoicedQuantity"
	if lineName == "CreditNoteLine" {
		qtyName = "CreditedQuantity"
	}
	cbc(line, qtyName, it.Quantity.Abs().String())

	subtotal := it.Quantity.Mul(it.UnitPrice).Abs()
	amount(line, "LineExtensionAmount", currency, subtotal)

	item := cac(line, "Item")
	cbc(item, "Description", it.Description)

	price := cac(line, "Price")
	amount(price, "PriceAmount", currency, it.UnitPrice)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cbc(parent *etree.Element, name, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + name)
	el.SetText(value)
	return el
}

func cac(parent *etree.Element, name string) *etree.Element {
	return parent.CreateElement("cac:" + name)
}

func amount(parent *etree.Element, name, currency string, d decimal.Decimal) *etree.Element {
	el := cbc(parent, name, d.StringFixed(2))
	el.CreateAttr("currencyID", currency)
	return el
}
