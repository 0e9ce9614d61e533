package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/metrics"
)

type stubAssembler struct {
	got      []config.Settings
	response domain.DigestResponse
	err      error
}

func (s *stubAssembler) Assemble(_ context.Context, settings config.Settings) (domain.DigestResponse, error) {
	s.got = append(s.got, settings)
	return s.response, s.err
}

var baseSettings = config.Settings{
	Provider: config.ProviderConfig{SamplePath: "fixture.json"},
	Digest:   config.DigestConfig{Country: "us", Topic: "technology", MaxHeadlines: 5},
	Scoring:  config.ScoringConfig{Enabled: true},
}

func setupRouter(assembler *stubAssembler, token string, collector *metrics.Collector) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Assembler:    assembler,
		Settings:     baseSettings,
		ServiceToken: token,
		Metrics:      collector,
	})
}

func serve(router *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	router := setupRouter(&stubAssembler{}, "secret", nil)

	resp := serve(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestRun_UsesBaseSettingsForEmptyBody(t *testing.T) {
	score := 0.8
	reasoning := "Keyword heuristic score"
	mode := domain.ModeKeyword
	assembler := &stubAssembler{response: domain.DigestResponse{
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Topic:       "technology",
		Country:     "us",
		ScoringMode: &mode,
		Items:       []domain.Article{{Title: "A", URL: "https://a", Score: &score, Reasoning: &reasoning}},
	}}
	router := setupRouter(assembler, "", nil)

	resp := serve(router, http.MethodPost, "/run", "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Len(t, assembler.got, 1)
	assert.Equal(t, baseSettings, assembler.got[0])

	assert.JSONEq(t, `{
		"generated_at": "2024-05-01T12:00:00Z",
		"topic": "technology",
		"country": "us",
		"scoring_mode": "keyword",
		"items": [{
			"title": "A",
			"description": null,
			"url": "https://a",
			"published_at": null,
			"source": null,
			"score": 0.8,
			"reasoning": "Keyword heuristic score"
		}]
	}`, resp.Body.String())
}

func TestRun_AppliesOverrides(t *testing.T) {
	assembler := &stubAssembler{response: domain.DigestResponse{Items: []domain.Article{}}}
	router := setupRouter(assembler, "", nil)

	resp := serve(router, http.MethodPost, "/run", `{"topic":"custody","country":"gb","max_headlines":2}`, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	got := assembler.got[0]
	assert.Equal(t, "custody", got.Digest.Topic)
	assert.Equal(t, "gb", got.Digest.Country)
	assert.Equal(t, 2, got.Digest.MaxHeadlines)
	assert.Equal(t, "custody", got.ScoringConfig().Topic)

	resp = serve(router, http.MethodPost, "/run", `{"topic":"","max_headlines":0}`, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, baseSettings, assembler.got[1], "empty values keep the defaults")

	resp = serve(router, http.MethodPost, "/run", `{}`, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `null`, jsonField(t, resp.Body.Bytes(), "scoring_mode"))
}

func TestRun_RejectsBadInput(t *testing.T) {
	assembler := &stubAssembler{}
	router := setupRouter(assembler, "", nil)

	resp := serve(router, http.MethodPost, "/run", `{"max_headlines":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = serve(router, http.MethodPost, "/run", `{bad json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = serve(router, http.MethodPost, "/run", `{"max_headlines":"two"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	assert.Empty(t, assembler.got)
}

func TestRun_BearerToken(t *testing.T) {
	assembler := &stubAssembler{response: domain.DigestResponse{Items: []domain.Article{}}}
	router := setupRouter(assembler, "secret", nil)

	tests := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"secret", http.StatusUnauthorized},
		{"bearer secret", http.StatusUnauthorized},
		{"Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		header := map[string]string{}
		if tt.header != "" {
			header["Authorization"] = tt.header
		}
		resp := serve(router, http.MethodPost, "/run", "", header)
		assert.Equal(t, tt.status, resp.Code, tt.header)
	}
	assert.Len(t, assembler.got, 1)
}

func TestRun_ErrorStatuses(t *testing.T) {
	cfgErr := &domain.ConfigurationError{Setting: "NEWSAPI_KEY", Reason: "missing"}
	statusErr := &domain.ProviderStatusError{Status: "error"}
	transportErr := &url.Error{
		Op:  "Get",
		URL: "http://127.0.0.1:1/v2/top-headlines?apiKey=SECRET-KEY",
		Err: errors.New("connection refused"),
	}

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"configuration", cfgErr, http.StatusInternalServerError, cfgErr.Error()},
		{"provider http", &domain.ProviderHTTPError{StatusCode: 500, Status: "500 Internal Server Error"}, http.StatusBadGateway, ""},
		{"provider status", statusErr, http.StatusBadGateway, statusErr.Error()},
		{"wrapped provider", fmt.Errorf("fetch: %w", statusErr), http.StatusBadGateway, "fetch: " + statusErr.Error()},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Headline provider timed out"},
		{"transport", fmt.Errorf("request headlines: %w", transportErr), http.StatusInternalServerError, "Internal server error"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&stubAssembler{err: tt.err}, "", nil)
			resp := serve(router, http.MethodPost, "/run", "", nil)
			assert.Equal(t, tt.status, resp.Code)
			assert.NotContains(t, resp.Body.String(), "SECRET-KEY")
			if tt.detail != "" {
				assert.JSONEq(t, strconv.Quote(tt.detail), jsonField(t, resp.Body.Bytes(), "detail"))
			} else {
				assert.Contains(t, resp.Body.String(), `"detail"`)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector()
	router := setupRouter(&stubAssembler{}, "", collector)

	serve(router, http.MethodGet, "/health", "", nil)

	resp := serve(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `newsdigest_http_requests_total{endpoint="/health",method="GET",status="200"} 1`))
}

func jsonField(t *testing.T, body []byte, key string) string {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &doc))
	raw, ok := doc[key]
	require.True(t, ok, "missing %s", key)
	return string(raw)
}
