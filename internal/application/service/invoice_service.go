package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/domain/tax"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/fiscal"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

// Customer document types accepted by the gateway
const (
	DocTypeRUC  = "6"
	DocTypeDNI  = "1"
	DocTypeVoid = "-"
)

const (
	fiscalDate   = "02-01-2006"
	currencyPEN  = 1
	currencyUSD  = 2
	igvTaxed     = 1
	igvExempt    = 8
	unitProduct  = "NIU"
	unitServices = "ZZ"
)

// FiscalSubmitter sends a voucher to the tax authority gateway
type FiscalSubmitter interface {
	Submit(ctx context.Context, doc *fiscal.Document) (*fiscal.Result, error)
}

// InvoiceService turns the uninvoiced charges of a folio into a fiscal voucher
type InvoiceService struct {
	tx          repository.Transactor
	folioRepo   repository.FolioRepository
	seriesRepo  repository.VoucherSeriesRepository
	invoiceRepo repository.InvoiceRepository
	tenantRepo  repository.TenantRepository
	vouchers    *VoucherSeriesService
	submitter   FiscalSubmitter
	metrics     *metrics.LedgerMetrics
	log         *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service. A nil submitter leaves
// invoices PENDING for later submission.
func NewInvoiceService(
	tx repository.Transactor,
	folioRepo repository.FolioRepository,
	seriesRepo repository.VoucherSeriesRepository,
	invoiceRepo repository.InvoiceRepository,
	tenantRepo repository.TenantRepository,
	vouchers *VoucherSeriesService,
	submitter FiscalSubmitter,
	m *metrics.LedgerMetrics,
	log *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		tx:          tx,
		folioRepo:   folioRepo,
		seriesRepo:  seriesRepo,
		invoiceRepo: invoiceRepo,
		tenantRepo:  tenantRepo,
		vouchers:    vouchers,
		submitter:   submitter,
		metrics:     m,
		log:         log,
		now:         utcNow,
	}
}

// IssueInvoiceInput represents the issue invoice input
type IssueInvoiceInput struct {
	VoucherType       enum.VoucherType
	CustomerDocType   string
	CustomerDocNumber string
	CustomerName      string
	CustomerAddress   string
	CustomerEmail     string
}

// defaultSeriesAttempts bounds how often issuing chases a default that moved
// between the lookup and the row lock.
const defaultSeriesAttempts = 3

// lockDefaultSeries locks the tenant's default series for voucherType. The default is
// read without a lock first, so it is re-checked once the row lock is held.
func (s *InvoiceService) lockDefaultSeries(ctx context.Context, voucherType enum.VoucherType) (*entity.VoucherSeries, error) {
	for attempt := 0; attempt < defaultSeriesAttempts; attempt++ {
		def, err := s.seriesRepo.GetDefault(ctx, voucherType)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, apperror.ErrSeriesNotFoundOrInactive.WithMessage("No active default series for " + string(voucherType))
		}
		series, err := s.seriesRepo.GetByIDForUpdate(ctx, def.ID)
		if err != nil {
			return nil, err
		}
		if series != nil && series.IsActive && series.IsDefault && series.VoucherType == voucherType {
			return series, nil
		}
		s.log.Debug("default series changed while locking, retrying",
			zap.String("voucher_type", string(voucherType)),
			zap.String("series_id", def.ID.String()),
		)
	}
	return nil, apperror.ErrRetryable
}

// IssueForFolio numbers and stores an invoice for the folio's invoiceable charges
// that have not been invoiced yet, then submits it to the fiscal gateway.
// Numbering and charge stamping commit together; submission happens afterwards
// so a gateway outage never holds the series lock.
func (s *InvoiceService) IssueForFolio(ctx context.Context, folioID uuid.UUID, input *IssueInvoiceInput) (*entity.Invoice, error) {
	if err := validateCustomer(input); err != nil {
		return nil, err
	}
	rate, err := tenantTaxRate(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}

	var invoice *entity.Invoice
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		folio, err := s.folioRepo.GetByIDForUpdate(ctx, folioID)
		if err != nil {
			return err
		}
		if folio == nil {
			return apperror.NewNotFoundError("Folio")
		}

		charges, err := s.folioRepo.ListUninvoicedCharges(ctx, folio.ID)
		if err != nil {
			return err
		}
		if len(charges) == 0 {
			return apperror.ErrNothingToInvoice
		}

		series, err := s.lockDefaultSeries(ctx, input.VoucherType)
		if err != nil {
			return err
		}
		number, err := s.vouchers.advance(ctx, series)
		if err != nil {
			return err
		}

		invoice = newInvoice(folio, series, number, rate, charges, input, s.now())
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(charges))
		for i, c := range charges {
			ids[i] = c.ID
		}
		marked, err := s.folioRepo.MarkChargesInvoiced(ctx, ids, invoice.ID)
		if err != nil {
			return err
		}
		if marked != int64(len(ids)) {
			return apperror.ErrRetryable
		}
		for i := range charges {
			charges[i].InvoiceID = &invoice.ID
		}
		invoice.Charges = charges
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VoucherIssued(string(invoice.VoucherType))
	s.log.Info("invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("full_number", invoice.FullNumber),
		zap.String("total", invoice.Total.StringFixed(2)),
	)

	s.submit(ctx, invoice)
	return invoice, nil
}

// submit records the gateway outcome on the invoice. Failures are logged and
// kept on the invoice; they do not undo the issuance.
func (s *InvoiceService) submit(ctx context.Context, invoice *entity.Invoice) {
	if s.submitter == nil {
		return
	}

	tenant, err := s.tenantRepo.GetByID(ctx, invoice.TenantID)
	if err != nil || tenant == nil {
		s.log.Error("invoice submission skipped: tenant lookup failed", zap.Error(err))
		return
	}

	submittedAt := s.now()
	invoice.SubmittedAt = &submittedAt

	result, err := s.submitter.Submit(ctx, buildDocument(invoice, tenant.Settings.Currency))
	switch {
	case errors.Is(err, fiscal.ErrNotConfigured):
		return
	case err != nil:
		invoice.Status = enum.InvoiceStatusError
		invoice.ResponseDescription = err.Error()
	default:
		applyResult(invoice, result)
	}

	if err := s.invoiceRepo.UpdateSubmission(ctx, invoice); err != nil {
		s.log.Error("failed to store fiscal response", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}
	s.metrics.FiscalSubmitted(string(invoice.Status))
	if invoice.Status != enum.InvoiceStatusAccepted {
		s.log.Warn("invoice not accepted by fiscal gateway",
			zap.String("full_number", invoice.FullNumber),
			zap.String("status", string(invoice.Status)),
			zap.String("description", invoice.ResponseDescription),
		)
	}
}

// GetInvoice returns an invoice with its charges
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

func newInvoice(
	folio *entity.Folio,
	series *entity.VoucherSeries,
	number *entity.VoucherNumber,
	rate decimal.Decimal,
	charges []entity.FolioCharge,
	input *IssueInvoiceInput,
	issuedAt time.Time,
) *entity.Invoice {
	subtotal, taxAmount, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, c := range charges {
		subtotal = subtotal.Add(c.Subtotal)
		taxAmount = taxAmount.Add(c.Tax)
		total = total.Add(c.Total)
	}

	return &entity.Invoice{
		TenantID:          folio.TenantID,
		FolioID:           folio.ID,
		SeriesID:          series.ID,
		VoucherType:       series.VoucherType,
		Series:            number.Series,
		Number:            number.Number,
		FullNumber:        number.FullNumber,
		Status:            enum.InvoiceStatusPending,
		Subtotal:          subtotal,
		Tax:               taxAmount,
		Total:             total,
		TaxRate:           rate,
		CustomerDocType:   input.CustomerDocType,
		CustomerDocNumber: strings.TrimSpace(input.CustomerDocNumber),
		CustomerName:      strings.TrimSpace(input.CustomerName),
		CustomerAddress:   input.CustomerAddress,
		CustomerEmail:     input.CustomerEmail,
		IssuedAt:          issuedAt,
	}
}

func buildDocument(invoice *entity.Invoice, currency string) *fiscal.Document {
	moneda := currencyPEN
	if strings.EqualFold(currency, "USD") {
		moneda = currencyUSD
	}
	igvType := igvTaxed
	if invoice.TaxRate.IsZero() {
		igvType = igvExempt
	}

	items := make([]fiscal.Item, 0, len(invoice.Charges))
	for _, c := range invoice.Charges {
		unit := unitServices
		if c.ProductID != nil {
			unit = unitProduct
		}
		netUnit := c.Subtotal.DivRound(c.Quantity, tax.Scale)
		items = append(items, fiscal.Item{
			UnidadDeMedida: unit,
			Codigo:         string(c.ChargeType),
			Descripcion:    c.Description,
			Cantidad:       fiscal.Amount(c.Quantity),
			ValorUnitario:  fiscal.Amount(netUnit),
			PrecioUnitario: fiscal.Amount(c.UnitPrice),
			Subtotal:       fiscal.Amount(c.Subtotal),
			TipoDeIGV:      igvType,
			IGV:            fiscal.Amount(c.Tax),
			Total:          fiscal.Amount(c.Total),
		})
	}

	return &fiscal.Document{
		Operacion:                "generar_comprobante",
		TipoDeComprobante:        invoice.VoucherType.FiscalCode(),
		Serie:                    invoice.Series,
		Numero:                   invoice.Number,
		ClienteTipoDeDocumento:   invoice.CustomerDocType,
		ClienteNumeroDeDocumento: invoice.CustomerDocNumber,
		ClienteDenominacion:      invoice.CustomerName,
		ClienteDireccion:         invoice.CustomerAddress,
		ClienteEmail:             invoice.CustomerEmail,
		FechaDeEmision:           invoice.IssuedAt.Format(fiscalDate),
		Moneda:                   moneda,
		PorcentajeDeIGV:          fiscal.Amount(invoice.TaxRate),
		TotalGravada:             fiscal.Amount(invoice.Subtotal),
		TotalIGV:                 fiscal.Amount(invoice.Tax),
		Total:                    fiscal.Amount(invoice.Total),
		Items:                    items,
	}
}

func applyResult(invoice *entity.Invoice, result *fiscal.Result) {
	switch {
	case result.Rejected():
		invoice.Status = enum.InvoiceStatusRejected
		invoice.ResponseDescription = result.Errors
	case result.AceptadaPorSunat:
		invoice.Status = enum.InvoiceStatusAccepted
		invoice.ResponseDescription = result.SunatDescription
	default:
		// Received but not yet ruled on by the authority
		invoice.ResponseDescription = result.SunatDescription
	}
	invoice.ResponseCode = result.SunatResponseCode
	invoice.PDFURL = result.EnlaceDelPDF
	invoice.XMLURL = result.EnlaceDelXML
	invoice.Hash = result.CodigoHash
	if len(result.Raw) > 0 {
		invoice.FiscalResponse = datatypes.JSON(result.Raw)
	}
}

func validateCustomer(input *IssueInvoiceInput) error {
	switch input.VoucherType {
	case enum.VoucherTypeFactura:
		if input.CustomerDocType != DocTypeRUC || len(strings.TrimSpace(input.CustomerDocNumber)) != 11 {
			return apperror.NewBadRequestError("A factura requires an 11 digit RUC")
		}
		if strings.TrimSpace(input.CustomerName) == "" {
			return apperror.NewBadRequestError("A factura requires the customer's legal name")
		}
	case enum.VoucherTypeBoleta:
		if input.CustomerDocType == "" {
			input.CustomerDocType = DocTypeVoid
		}
		if strings.TrimSpace(input.CustomerName) == "" {
			input.CustomerName = "CLIENTE VARIOS"
		}
	default:
		return apperror.NewBadRequestError("Only FACTURA and BOLETA can be issued from a folio")
	}
	return nil
}
