package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"github.com/sangkips/hotel-ledger-api/pkg/printer"
)

const receiptDate = "02/01/2006 15:04"

// PrinterService formats folio receipts and cashier close slips and sends them to a thermal printer.
type PrinterService struct {
	printer      printer.Printer
	folioRepo    repository.FolioRepository
	sessionRepo  repository.CashierSessionRepository
	reservations repository.ReservationRepository
	tenantRepo   repository.TenantRepository
	printerType  string
	width        int
	log          *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	folioRepo repository.FolioRepository,
	sessionRepo repository.CashierSessionRepository,
	reservations repository.ReservationRepository,
	tenantRepo repository.TenantRepository,
	printerType string,
	width int,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		folioRepo:    folioRepo,
		sessionRepo:  sessionRepo,
		reservations: reservations,
		tenantRepo:   tenantRepo,
		printerType:  printerType,
		width:        width,
		log:          log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Width:      s.width,
	}
}

// PrintFolioReceipt prints a folio with its charges and payments.
// The receipt is returned even when printing fails so the caller can show it.
func (s *PrinterService) PrintFolioReceipt(ctx context.Context, folioID uuid.UUID) (*entity.Receipt, error) {
	folio, err := s.folioRepo.GetWithDetails(ctx, folioID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.NewNotFoundError("Folio")
	}
	tenant, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:    receiptHeader(tenant),
		Title:     "FOLIO",
		Reference: shortID(folio.ID),
		Date:      folio.CreatedAt.Format(receiptDate),
		Footer:    tenant.Settings.ReceiptFooter,
	}
	if folio.ReservationID != nil {
		reservation, err := s.reservations.GetByID(ctx, *folio.ReservationID)
		if err != nil {
			return nil, err
		}
		if reservation != nil {
			receipt.Guest = fmt.Sprintf("%s (Hab. %s)", reservation.GuestName, reservation.RoomNumber)
		}
	}

	for _, c := range folio.Charges {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      c.Description,
			Quantity:  c.Quantity.String(),
			UnitPrice: c.UnitPrice.StringFixed(2),
			Total:     c.Total.StringFixed(2),
		})
	}

	label := tenant.Settings.TaxLabel
	if label == "" {
		label = "Tax"
	}
	receipt.Totals = []entity.ReceiptLine{
		{Label: "Subtotal:", Value: folio.Subtotal.StringFixed(2)},
		{Label: fmt.Sprintf("%s (%s%%):", label, tenant.Settings.TaxRate.String()), Value: folio.Tax.StringFixed(2)},
		{Label: "TOTAL:", Value: folio.Total.StringFixed(2)},
		{Label: "Balance:", Value: folio.Balance.StringFixed(2)},
	}
	for _, p := range folio.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptLine{
			Label: fmt.Sprintf("%s %s", p.Method, p.ReferenceNumber),
			Value: p.Amount.StringFixed(2),
		})
	}

	return receipt, s.print(receipt)
}

// PrintCashierClose prints the reconciliation slip of a closed session.
func (s *PrinterService) PrintCashierClose(ctx context.Context, sessionID uuid.UUID) (*entity.Receipt, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cashier session")
	}
	if session.IsOpen() {
		return nil, apperror.NewBadRequestError("Cashier session is still open")
	}
	tenant, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:    receiptHeader(tenant),
		Title:     "CIERRE DE CAJA",
		Reference: shortID(session.ID),
		Date:      closedAt(session).Format(receiptDate),
		Totals: []entity.ReceiptLine{
			{Label: "Opened:", Value: session.OpenedAt.Format(receiptDate)},
			{Label: "Opening:", Value: session.OpeningAmount.StringFixed(2)},
			{Label: "Expected:", Value: session.ExpectedAmount.Decimal.StringFixed(2)},
			{Label: "Counted:", Value: session.CountedAmount.Decimal.StringFixed(2)},
			{Label: "Difference:", Value: session.Difference.Decimal.StringFixed(2)},
		},
	}
	if session.ClosingNotes != nil {
		receipt.Footer = *session.ClosingNotes
	}

	return receipt, s.print(receipt)
}

func (s *PrinterService) print(receipt *entity.Receipt) error {
	if err := s.printer.Print(FormatReceipt(receipt, s.width)); err != nil {
		s.log.Warn("printer error", zap.String("reference", receipt.Reference), zap.Error(err))
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

func (s *PrinterService) tenant(ctx context.Context) (*entity.Tenant, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

func receiptHeader(t *entity.Tenant) entity.ReceiptHeader {
	return entity.ReceiptHeader{
		StoreName: t.Name,
		Address:   t.Address,
		Phone:     t.Phone,
		TaxID:     t.TaxID,
	}
}

func closedAt(s *entity.CashierSession) time.Time {
	if s.ClosedAt != nil {
		return *s.ClosedAt
	}
	return s.OpenedAt
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.TaxID != "" {
		doc.TextF("RUC: %s", r.Header.TaxID)
	}
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetBold(true).Text(r.Title).SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("No:", r.Reference).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Guest != "" {
		doc.KeyValue("Guest:", r.Guest)
	}

	if len(r.Items) > 0 {
		doc.Separator('-')
		for _, item := range r.Items {
			doc.ItemLine(item.Quantity, item.Name, item.Total)
		}
	}

	doc.Separator('-')
	for i, line := range r.Totals {
		bold := line.Label == "TOTAL:" || (r.Title != "FOLIO" && i == len(r.Totals)-1)
		doc.SetBold(bold).KeyValue(line.Label, line.Value).SetBold(false)
	}

	if len(r.Payments) > 0 {
		doc.Separator('-')
		for _, p := range r.Payments {
			doc.KeyValue(p.Label, p.Value)
		}
	}

	doc.Separator('-')
	if r.Footer != "" {
		doc.SetAlign(printer.AlignCenter).
			LineFeed().
			Text(r.Footer).
			SetAlign(printer.AlignLeft)
	}

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
