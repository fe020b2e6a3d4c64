// Package fiscal submits electronic vouchers to the tax authority gateway.
package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/config"
)

// ErrNotConfigured is returned when no gateway URL is set
var ErrNotConfigured = errors.New("fiscal gateway not configured")

// Amount is a decimal rendered as a bare JSON number with two decimals
type Amount decimal.Decimal

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(2)), nil
}

// Document is the gateway request for one voucher
type Document struct {
	Operacion                string `json:"operacion"`
	TipoDeComprobante        int    `json:"tipo_de_comprobante"`
	Serie                    string `json:"serie"`
	Numero                   int64  `json:"numero"`
	ClienteTipoDeDocumento   string `json:"cliente_tipo_de_documento"`
	ClienteNumeroDeDocumento string `json:"cliente_numero_de_documento"`
	ClienteDenominacion      string `json:"cliente_denominacion"`
	ClienteDireccion         string `json:"cliente_direccion"`
	ClienteEmail             string `json:"cliente_email"`
	FechaDeEmision           string `json:"fecha_de_emision"`
	Moneda                   int    `json:"moneda"`
	PorcentajeDeIGV          Amount `json:"porcentaje_de_igv"`
	TotalGravada             Amount `json:"total_gravada"`
	TotalIGV                 Amount `json:"total_igv"`
	Total                    Amount `json:"total"`
	Items                    []Item `json:"items"`
}

// Item is one voucher line
type Item struct {
	UnidadDeMedida string `json:"unidad_de_medida"`
	Codigo         string `json:"codigo"`
	Descripcion    string `json:"descripcion"`
	Cantidad       Amount `json:"cantidad"`
	ValorUnitario  Amount `json:"valor_unitario"`
	PrecioUnitario Amount `json:"precio_unitario"`
	Subtotal       Amount `json:"subtotal"`
	TipoDeIGV      int    `json:"tipo_de_igv"`
	IGV            Amount `json:"igv"`
	Total          Amount `json:"total"`
}

// Result is the gateway answer. Raw keeps the body as received.
type Result struct {
	AceptadaPorSunat  bool   `json:"aceptada_por_sunat"`
	SunatDescription  string `json:"sunat_description"`
	SunatResponseCode string `json:"sunat_responsecode"`
	Enlace            string `json:"enlace"`
	EnlaceDelPDF      string `json:"enlace_del_pdf"`
	EnlaceDelXML      string `json:"enlace_del_xml"`
	CodigoHash        string `json:"codigo_hash"`
	Errors            string `json:"errors,omitempty"`

	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// Rejected reports whether the gateway refused the document
func (r *Result) Rejected() bool {
	return r.Errors != ""
}

// Client talks to the gateway. Connection failures and 5xx answers are retried;
// a 4xx answer is a rejection and is returned as a Result, not an error.
type Client struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
}

// NewClient creates a gateway client
func NewClient(cfg config.FiscalConfig, log *zap.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = leveledLogger{log.Sugar().Named("fiscal")}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: rc,
	}
}

// Submit posts a document to the gateway
func (c *Client) Submit(ctx context.Context, doc *Document) (*Result, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Token token=%q", c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	result := &Result{StatusCode: resp.StatusCode, Raw: raw}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest && result.Errors == "" {
		result.Errors = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
	}
	return result, nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
