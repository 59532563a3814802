package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestRecordSaleExposesCounters(t *testing.T) {
	r := NewRecorder()
	r.RecordSale(ModeSingle, decimal.NewFromInt(20), decimal.NewFromInt(18))
	r.RecordSale(ModeBulk, decimal.NewFromInt(10), decimal.NewFromInt(9))

	out := scrape(t, r)
	for _, want := range []string{
		`depot_sales_total{mode="single"} 1`,
		`depot_sales_total{mode="bulk"} 1`,
		`depot_sales_revenue_total 30`,
		`depot_seller_payouts_total 27`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in scrape output", want)
		}
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRecorder()
	r.RecordHTTPRequest(http.MethodPost, "/transaction", http.StatusCreated, 15*time.Millisecond)

	out := scrape(t, r)
	if !strings.Contains(out, `depot_http_requests_total{method="POST",route="/transaction",status="201"} 1`) {
		t.Fatalf("request counter missing:\n%s", out)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordSale(ModeSingle, decimal.NewFromInt(1), decimal.NewFromInt(1))
	r.RecordHTTPRequest(http.MethodGet, "/", 200, time.Millisecond)

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil recorder, got %d", rr.Code)
	}
}
