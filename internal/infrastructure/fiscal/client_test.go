package fiscal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.FiscalConfig{
		BaseURL:  url,
		Token:    "secret",
		Timeout:  time.Second,
		RetryMax: 2,
	}, zap.NewNop())
}

func sampleDocument() *Document {
	return &Document{
		Operacion:         "generar_comprobante",
		TipoDeComprobante: 2,
		Serie:             "B001",
		Numero:            7,
		FechaDeEmision:    "05-03-2025",
		Moneda:            1,
		PorcentajeDeIGV:   Amount(decimal.NewFromInt(18)),
		TotalGravada:      Amount(decimal.RequireFromString("42.37")),
		TotalIGV:          Amount(decimal.RequireFromString("7.63")),
		Total:             Amount(decimal.NewFromInt(50)),
	}
}

func TestSubmit_Accepted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, `Token token="secret"`, r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "B001", body["serie"])
		assert.Equal(t, 50.0, body["total"])
		assert.Equal(t, 7.63, body["total_igv"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"aceptada_por_sunat":true,"sunat_description":"La Boleta B001-7 ha sido aceptada","sunat_responsecode":"0","enlace_del_pdf":"https://gw/pdf/1","codigo_hash":"abc"}`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Submit(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, res.AceptadaPorSunat)
	assert.False(t, res.Rejected())
	assert.Equal(t, "https://gw/pdf/1", res.EnlaceDelPDF)
	assert.Equal(t, "0", res.SunatResponseCode)
	assert.NotEmpty(t, res.Raw)
}

func TestSubmit_RejectedIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":"El numero de documento ya existe","codigo":23}`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Submit(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, res.Rejected())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSubmit_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"aceptada_por_sunat":true}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	c.httpClient.RetryWaitMin = time.Millisecond
	c.httpClient.RetryWaitMax = 5 * time.Millisecond

	res, err := c.Submit(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, res.AceptadaPorSunat)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubmit_NotConfigured(t *testing.T) {
	_, err := newTestClient("").Submit(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
