package ubl_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/infrastructure/ubl"
)

func sampleDocument(invType string, total int64) *invoicing.InvoiceDocument {
	return &invoicing.InvoiceDocument{
		Invoice: &entity.Invoice{
			ID:            "inv-1",
			InvoiceNumber: "INV-0001",
			Type:          invType,
			Currency:      "EUR",
			TotalAmount:   decimal.NewFromInt(total),
			IssueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		Items: []*entity.LineItem{
			{Position: 1, Description: "Consultoría", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromFloat(0.19)},
		},
		Organization: &entity.Organization{Name: "Mi Empresa SL", Email: "admin@miempresa.test"},
		Client:       &entity.Client{Name: "ACME Ltda", Email: "facturacion@acme.test"},
	}
}

func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	return doc
}

func TestExportInvoiceXML_FacturaDebet(t *testing.T) {
	exporter := ubl.NewExporter()

	out, err := exporter.ExportInvoiceXML(sampleDocument(entity.TypeDebet, 238))

	require.NoError(t, err)
	doc := parseXML(t, out)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "INV-0001", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "2026-03-15", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "2026-04-15", root.FindElement("cbc:DueDate").Text())
	assert.Equal(t, "EUR", root.FindElement("cbc:DocumentCurrencyCode").Text())
	assert.Equal(t, "238.00", root.FindElement("cac:LegalMonetaryTotal/cbc:PayableAmount").Text())
	assert.Nil(t, root.FindElement("cac:BillingReference"), "una DEBET no lleva referencia de crédito")

	line := root.FindElement("cac:InvoiceLine")
	require.NotNil(t, line)
	assert.Equal(t, "2", line.FindElement("cbc:InvoicedQuantity").Text())
	assert.Equal(t, "Consultoría", line.FindElement("cac:Item/cbc:Description").Text())
}

func TestExportInvoiceXML_NotaCreditoConReferencia(t *testing.T) {
	docData := sampleDocument(entity.TypeCredit, -119)
	docData.Invoice.CreditedInvoiceID = "inv-original"
	docData.Items[0].Quantity = decimal.NewFromInt(-1)
	exporter := ubl.NewExporter()

	out, err := exporter.ExportInvoiceXML(docData)

	require.NoError(t, err)
	doc := parseXML(t, out)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "CreditNote", root.Tag)
	assert.Equal(t, "inv-original",
		root.FindElement("cac:BillingReference/cac:InvoiceDocumentReference/cbc:ID").Text())
	// UBL expresa el signo con el tipo de documento: los montos van en absoluto.
	assert.Equal(t, "119.00", root.FindElement("cac:LegalMonetaryTotal/cbc:PayableAmount").Text())

	line := root.FindElement("cac:CreditNoteLine")
	require.NotNil(t, line)
	assert.Equal(t, "1", line.FindElement("cbc:CreditedQuantity").Text())
	assert.Nil(t, root.FindElement("cbc:DueDate"), "una nota crédito no lleva vencimiento")
}

func TestExportInvoiceXML_DocumentoIncompleto(t *testing.T) {
	exporter := ubl.NewExporter()

	_, err := exporter.ExportInvoiceXML(nil)
	assert.Error(t, err)

	docData := sampleDocument(entity.TypeDebet, 100)
	docData.Client = nil
	_, err = exporter.ExportInvoiceXML(docData)
	assert.Error(t, err)
}
