package opendart

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"disclosure_backend/internal/feature/statements/domain/entity"
	"disclosure_backend/internal/feature/sync/domain"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}
	return NewClient(cfg, server.Client())
}

func registryKind(t *testing.T, err error) domain.ErrorKind {
	t.Helper()
	var regErr *domain.RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error %v is not a RegistryError", err)
	}
	return regErr.Kind
}

func TestListCorporations_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("crtfc_key") != "test-key" {
			t.Errorf("expected crtfc_key test-key, got %s", r.URL.Query().Get("crtfc_key"))
		}
		if r.URL.Query().Get("corp_cls") != "Y" {
			t.Errorf("expected corp_cls Y, got %s", r.URL.Query().Get("corp_cls"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "000",
			"message": "정상",
			"list": [
				{"corp_code": "00126380", "corp_name": "삼성전자", "stock_code": "005930", "corp_cls": "Y", "induty_code": "264"},
				{"corp_code": "00164779", "corp_name": "SK하이닉스", "stock_code": "000660", "corp_cls": "Y", "induty_code": "261"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	corps, err := client.ListCorporations(context.Background(), "Y")
	if err != nil {
		t.Fatalf("ListCorporations() error = %v", err)
	}
	if len(corps) != 2 {
		t.Fatalf("got %d corporations, want 2", len(corps))
	}
	if corps[0].CorpCode != "00126380" {
		t.Errorf("corp code = %q, want 00126380", corps[0].CorpCode)
	}
	if corps[0].Market != "KOSPI" {
		t.Errorf("market = %q, want KOSPI", corps[0].Market)
	}
}

func TestListCorporations_BadCorpCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "000", "message": "정상", "list": [{"corp_code": "1234", "corp_name": "broken", "corp_cls": "Y"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).ListCorporations(context.Background(), "")
	if kind := registryKind(t, err); kind != domain.KindMalformed {
		t.Errorf("error kind = %v, want malformed", kind)
	}
}

func TestFetchStatements_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("corp_code") != "00126380" {
			t.Errorf("expected corp_code 00126380, got %s", r.URL.Query().Get("corp_code"))
		}
		if r.URL.Query().Get("bsns_year") != "2024" {
			t.Errorf("expected bsns_year 2024, got %s", r.URL.Query().Get("bsns_year"))
		}
		if r.URL.Query().Get("reprt_code") != entity.ReportAnnual {
			t.Errorf("expected reprt_code %s, got %s", entity.ReportAnnual, r.URL.Query().Get("reprt_code"))
		}

		_, _ = w.Write([]byte(`{
			"status": "000",
			"message": "정상",
			"list": [
				{"sj_div": "BS", "account_id": "ifrs-full_Assets", "account_nm": "자산총계", "thstrm_amount": "1,234,567", "currency": "KRW", "ord": "1"},
				{"sj_div": "IS", "account_id": "ifrs-full_Revenue", "account_nm": "매출액", "thstrm_amount": "987,654", "ord": "5"},
				{"sj_div": "IS", "account_nm": "주석", "thstrm_amount": "-", "ord": "9"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	stmts, err := client.FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)
	if err != nil {
		t.Fatalf("FetchStatements() error = %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2 (unparseable row dropped)", len(stmts))
	}
	if stmts[0].Amount != 1234567 {
		t.Errorf("amount = %d, want 1234567", stmts[0].Amount)
	}
	if stmts[0].Currency != "KRW" {
		t.Errorf("currency = %q, want KRW", stmts[0].Currency)
	}
	if stmts[1].Currency != "KRW" {
		t.Errorf("missing currency should default to KRW, got %q", stmts[1].Currency)
	}
	if stmts[0].BsnsYear != 2024 || stmts[0].CorpCode != "00126380" {
		t.Errorf("request identity not stamped on rows: %+v", stmts[0])
	}
}

func TestFetchStatements_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		want   domain.ErrorKind
	}{
		{"invalid key", "010", domain.KindAuth},
		{"no data", "013", domain.KindNotFound},
		{"quota exceeded", "020", domain.KindRateLimited},
		{"bad request", "100", domain.KindMalformed},
		{"unknown status", "800", domain.KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "` + tt.status + `", "message": "registry message"}`))
			}))
			defer server.Close()

			_, err := newTestClient(server).FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)
			if kind := registryKind(t, err); kind != tt.want {
				t.Errorf("status %s: error kind = %v, want %v", tt.status, kind, tt.want)
			}
		})
	}
}

func TestFetchStatements_HTTPErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		want domain.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, domain.KindAuth},
		{"forbidden", http.StatusForbidden, domain.KindAuth},
		{"server error", http.StatusInternalServerError, domain.KindTransient},
		{"bad request", http.StatusBadRequest, domain.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			_, err := newTestClient(server).FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)
			if kind := registryKind(t, err); kind != tt.want {
				t.Errorf("http %d: error kind = %v, want %v", tt.code, kind, tt.want)
			}
		})
	}
}

func TestFetchStatements_RateLimitRetryAfter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)

	var regErr *domain.RegistryError
	if !errors.As(err, &regErr) {
		t.Fatalf("error %v is not a RegistryError", err)
	}
	if regErr.Kind != domain.KindRateLimited {
		t.Errorf("error kind = %v, want rate limited", regErr.Kind)
	}
	if regErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", regErr.RetryAfter)
	}
}

func TestFetchStatements_EmptyListIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "000", "message": "정상", "list": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)
	if kind := registryKind(t, err); kind != domain.KindNotFound {
		t.Errorf("error kind = %v, want not found", kind)
	}
}

func TestFetchStatements_AllRowsUnparseable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "000", "message": "정상", "list": [{"sj_div": "BS", "account_nm": "자산총계", "thstrm_amount": "-"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchStatements(context.Background(), "00126380", 2024, entity.ReportAnnual)
	if kind := registryKind(t, err); kind != domain.KindMalformed {
		t.Errorf("error kind = %v, want malformed", kind)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1,234,567", 1234567, false},
		{"-5,000", -5000, false},
		{" 42 ", 42, false},
		{"0", 0, false},
		{"", 0, true},
		{"-", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q) expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAmount(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
