package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// InvoiceDocument reúne todo lo necesario para renderizar una factura como
// documento descargable: cabecera, líneas, emisor, receptor y el estado
// derivado del libro de pagos al momento de la descarga.
type InvoiceDocument struct {
	Invoice      *entity.Invoice
	Items        []*entity.LineItem
	Organization *entity.Organization
	Client       *entity.Client
	PaidAmount   decimal.Decimal
	Status       string
}

// InvoicePDFGenerator renderiza el documento como PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// InvoiceXMLExporter serializa el documento como UBL Invoice / CreditNote.
type InvoiceXMLExporter interface {
	ExportInvoiceXML(doc *InvoiceDocument) ([]byte, error)
}

// DocumentUseCase genera las representaciones descargables de una factura
// (PDF y XML). Lectura pura: no muta la factura ni emite eventos.
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	orgRepo     repository.OrganizationRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	pdfGen      InvoicePDFGenerator
	xmlExporter InvoiceXMLExporter
}

// NewDocumentUseCase construye el caso de uso inyectando los renderizadores.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	orgRepo repository.OrganizationRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	pdfGen InvoicePDFGenerator,
	xmlExporter InvoiceXMLExporter,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		orgRepo:     orgRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		pdfGen:      pdfGen,
		xmlExporter: xmlExporter,
	}
}

// load arma el InvoiceDocument completo verificando el tenant.
func (uc *DocumentUseCase) load(ctx context.Context, orgID, invoiceID string) (*InvoiceDocument, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener líneas: %w", err)
	}
	org, err := uc.orgRepo.GetByID(ctx, orgID)
	if err != nil || org == nil {
		return nil, fmt.Errorf("documento: obtener organización: %w", err)
	}
	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil || client == nil {
		return nil, fmt.Errorf("documento: obtener cliente: %w", err)
	}
	paid, err := uc.paymentRepo.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: sumar pagos: %w", err)
	}
	return &InvoiceDocument{
		Invoice:      inv,
		Items:        items,
		Organization: org,
		Client:       client,
		PaidAmount:   paid,
		Status:       entity.DeriveStatus(inv, paid, time.Now()),
	}, nil
}

// DownloadPDF genera el PDF de la factura y devuelve bytes + nombre de archivo.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, orgID, invoiceID string) ([]byte, string, error) {
	doc, err := uc.load(ctx, orgID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdfGen.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("documento: generación de PDF fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", doc.Invoice.InvoiceNumber), nil
}

// DownloadXML genera el XML UBL de la factura y devuelve bytes + nombre de
// archivo. Las notas crédito se exportan como CreditNote.
func (uc *DocumentUseCase) DownloadXML(ctx context.Context, orgID, invoiceID string) ([]byte, string, error) {
	doc, err := uc.load(ctx, orgID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	xmlBytes, err := uc.xmlExporter.ExportInvoiceXML(doc)
	if err != nil {
		return nil, "", fmt.Errorf("documento: exportación XML fallida: %w", err)
	}
	return xmlBytes, fmt.Sprintf("factura_%s.xml", doc.Invoice.InvoiceNumber), nil
}
