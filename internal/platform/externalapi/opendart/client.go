package opendart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"disclosure_backend/internal/feature/corporations/domain/entity"
	stmtentity "disclosure_backend/internal/feature/statements/domain/entity"
	"disclosure_backend/internal/feature/sync/domain"
	syncusecase "disclosure_backend/internal/feature/sync/usecase"
	"disclosure_backend/internal/platform/externalapi/opendart/dto"
	platformhttp "disclosure_backend/internal/platform/http"
)

var _ syncusecase.DisclosureRegistry = (*Client)(nil)

// defaultRetryAfter is assumed when a quota response carries no hint.
// The registry resets its per-minute window at most this far out.
const defaultRetryAfter = 60 * time.Second

// Client fetches disclosure data from the OpenDART API.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client with the given configuration. A nil
// httpClient gets a client with the configured timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = platformhttp.NewHTTPClient(cfg.Timeout)
	}
	return &Client{cfg: cfg, client: httpClient}
}

// ListCorporations fetches the full registry listing, optionally filtered
// by market class (Y/K/N/E). Order is as published by the registry.
func (c *Client) ListCorporations(ctx context.Context, corpCls string) ([]entity.Corporation, error) {
	q := url.Values{}
	q.Set("crtfc_key", c.cfg.APIKey)
	if corpCls != "" {
		q.Set("corp_cls", corpCls)
	}

	body, err := c.get(ctx, "/api/corpCode.json", q)
	if err != nil {
		return nil, err
	}

	var res dto.CorpListResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &domain.RegistryError{Kind: domain.KindMalformed, Message: "decode corporation list", Err: err}
	}
	if err := statusError(res.Status, res.Message); err != nil {
		return nil, err
	}

	corps := make([]entity.Corporation, 0, len(res.List))
	for _, v := range res.List {
		if len(v.CorpCode) != 8 {
			return nil, &domain.RegistryError{
				Kind:    domain.KindMalformed,
				Message: fmt.Sprintf("corp_code %q is not 8 digits", v.CorpCode),
			}
		}
		corps = append(corps, entity.Corporation{
			CorpCode:  v.CorpCode,
			CorpName:  v.CorpName,
			StockCode: v.StockCode,
			CorpCls:   v.CorpCls,
			Market:    entity.MarketName(v.CorpCls),
			Sector:    v.IndutyCode,
		})
	}
	return corps, nil
}

// FetchStatements fetches all statement accounts for one corporation and
// fiscal year. Rows whose amount cannot be parsed are dropped; an entirely
// unusable payload is a malformed error.
func (c *Client) FetchStatements(ctx context.Context, corpCode string, year int, reprtCode string) ([]stmtentity.Statement, error) {
	q := url.Values{}
	q.Set("crtfc_key", c.cfg.APIKey)
	q.Set("corp_code", corpCode)
	q.Set("bsns_year", strconv.Itoa(year))
	q.Set("reprt_code", reprtCode)
	q.Set("fs_div", stmtentity.FsDivConsolidated)

	body, err := c.get(ctx, "/api/fnlttSinglAcntAll.json", q)
	if err != nil {
		return nil, err
	}

	var res dto.StatementResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &domain.RegistryError{Kind: domain.KindMalformed, Message: "decode statements", Err: err}
	}
	if err := statusError(res.Status, res.Message); err != nil {
		return nil, err
	}
	if len(res.List) == 0 {
		return nil, &domain.RegistryError{
			Kind:    domain.KindNotFound,
			Message: fmt.Sprintf("no statements for %s/%d", corpCode, year),
		}
	}

	stmts := make([]stmtentity.Statement, 0, len(res.List))
	dropped := 0
	for _, v := range res.List {
		amount, err := parseAmount(v.ThstrmAmount)
		if err != nil {
			dropped++
			continue
		}
		ord, _ := strconv.Atoi(v.Ord)
		currency := v.Currency
		if currency == "" {
			currency = "KRW"
		}
		stmts = append(stmts, stmtentity.Statement{
			CorpCode:    corpCode,
			BsnsYear:    year,
			ReprtCode:   reprtCode,
			FsDiv:       stmtentity.FsDivConsolidated,
			SjDiv:       v.SjDiv,
			AccountID:   v.AccountID,
			AccountName: v.AccountNm,
			Amount:      amount,
			Currency:    currency,
			Ord:         ord,
		})
	}
	if len(stmts) == 0 {
		return nil, &domain.RegistryError{
			Kind:    domain.KindMalformed,
			Message: fmt.Sprintf("all %d statement rows unparseable for %s/%d", dropped, corpCode, year),
		}
	}
	return stmts, nil
}

// get performs the HTTP request and maps transport/HTTP failures to the
// registry error taxonomy. The response body is returned undecoded.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.RegistryError{Kind: domain.KindMalformed, Message: "build request", Err: err}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.RegistryError{Kind: domain.KindTransient, Message: "request failed", Err: err}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, &domain.RegistryError{Kind: domain.KindAuth, Message: fmt.Sprintf("http %d", res.StatusCode)}
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.RegistryError{
			Kind:       domain.KindRateLimited,
			Message:    "http 429",
			RetryAfter: retryAfter(res),
		}
	case res.StatusCode >= 500:
		return nil, &domain.RegistryError{Kind: domain.KindTransient, Message: fmt.Sprintf("http %d", res.StatusCode)}
	case res.StatusCode >= 400:
		return nil, &domain.RegistryError{Kind: domain.KindMalformed, Message: fmt.Sprintf("http %d", res.StatusCode)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.RegistryError{Kind: domain.KindTransient, Message: "read body", Err: err}
	}
	return body, nil
}

// statusError maps the registry's application-level status codes onto the
// error taxonomy. "000" is success.
func statusError(status, message string) error {
	switch status {
	case "000":
		return nil
	case "010", "011", "012":
		return &domain.RegistryError{Kind: domain.KindAuth, Message: fmt.Sprintf("status %s: %s", status, message)}
	case "013":
		return &domain.RegistryError{Kind: domain.KindNotFound, Message: fmt.Sprintf("status %s: %s", status, message)}
	case "020", "021":
		return &domain.RegistryError{
			Kind:       domain.KindRateLimited,
			Message:    fmt.Sprintf("status %s: %s", status, message),
			RetryAfter: defaultRetryAfter,
		}
	case "100", "101":
		return &domain.RegistryError{Kind: domain.KindMalformed, Message: fmt.Sprintf("status %s: %s", status, message)}
	default:
		return &domain.RegistryError{Kind: domain.KindTransient, Message: fmt.Sprintf("status %s: %s", status, message)}
	}
}

// retryAfter reads the Retry-After header in seconds.
func retryAfter(res *http.Response) time.Duration {
	if v := res.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

// parseAmount parses a comma-grouped registry amount into an int64.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty amount")
	}
	return strconv.ParseInt(s, 10, 64)
}
