package rajaongkir

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ongkir-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityListBody = `{"rajaongkir":{"query":[],"status":{"code":200,"description":"OK"},"results":[
 {"city_id":"22","province_id":"9","province":"Jawa Barat","type":"Kabupaten","city_name":"Bandung","postal_code":"40311"},
 {"city_id":"23","province_id":"9","province":"Jawa Barat","type":"Kota","city_name":"Bandung","postal_code":"40111"},
 {"city_id":"152","province_id":"6","province":"DKI Jakarta","type":"Kota","city_name":"Jakarta Pusat","postal_code":"10540"}
]}}`

const costBody = `{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[
 {"code":"jne","name":"Jalur Nugraha Ekakurir (JNE)","costs":[
   {"service":"OKE","description":"Ongkos Kirim Ekonomis","cost":[{"value":15000,"etd":"2-3","note":""}]},
   {"service":"REG","description":"Layanan Reguler","cost":[{"value":18000,"etd":"1-2","note":""}]}
 ]}
]}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/starter/", "secret-key", 2*time.Second)
}

func TestResolveCityIDMatchesCaseInsensitively(t *testing.T) {
	var gotKey, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("key")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(cityListBody))
	})

	id, err := c.ResolveCityID(context.Background(), "jakarta PUSAT")
	require.NoError(t, err)
	assert.Equal(t, "152", id)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "/starter/city", gotPath)

	// first exact match wins
	id, err = c.ResolveCityID(context.Background(), "bandung")
	require.NoError(t, err)
	assert.Equal(t, "22", id)
}

func TestResolveCityIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cityListBody))
	})

	_, err := c.ResolveCityID(context.Background(), "Bandung Barat")

	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "city", notFound.Entity)
}

func TestResolveCityIDUpstreamStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":400,"description":"Invalid key."}}}`))
	})

	_, err := c.ResolveCityID(context.Background(), "Bandung")

	var upstream *models.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "Invalid key.")
}

func TestListCitiesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(base, "k", time.Second)
	_, err := c.ListCities(context.Background())

	var netErr *models.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "city", netErr.Op)
}

func TestListCitiesEmptyResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[]}}`))
	})

	cities, err := c.ListCities(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cities)
	assert.Empty(t, cities)
}

func TestQuoteCostSendsFormAndReadsFirstCost(t *testing.T) {
	var form map[string]string
	var method, contentType, key string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		key = r.Header.Get("key")
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"origin":      r.PostForm.Get("origin"),
			"destination": r.PostForm.Get("destination"),
			"weight":      r.PostForm.Get("weight"),
			"courier":     r.PostForm.Get("courier"),
		}
		_, _ = w.Write([]byte(costBody))
	})

	quote, err := c.QuoteCost(context.Background(), QuoteRequest{
		Origin: "23", Destination: "152", Weight: decimal.RequireFromString("7.5"), Courier: "jne",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "secret-key", key)
	assert.Equal(t, map[string]string{
		"origin": "23", "destination": "152", "weight": "7.5", "courier": "jne",
	}, form)

	assert.True(t, quote.Value.Equal(decimal.NewFromInt(15000)), "got %s", quote.Value)
	assert.Equal(t, "OKE", quote.Service)
	assert.Equal(t, "2-3", quote.ETD)
	assert.Equal(t, "jne", quote.Courier)
}

func TestQuoteCostMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>gateway</html>`,
		"no envelope":     `{}`,
		"no results":      `{"rajaongkir":{"status":{"code":200}}}`,
		"empty results":   `{"rajaongkir":{"results":[]}}`,
		"results object":  `{"rajaongkir":{"results":{"code":"jne"}}}`,
		"empty costs":     `{"rajaongkir":{"results":[{"code":"jne","costs":[]}]}}`,
		"missing costs":   `{"rajaongkir":{"results":[{"code":"jne"}]}}`,
		"empty cost list": `{"rajaongkir":{"results":[{"code":"jne","costs":[{"service":"OKE","cost":[]}]}]}}`,
		"missing value":   `{"rajaongkir":{"results":[{"code":"jne","costs":[{"service":"OKE","cost":[{"etd":"1"}]}]}]}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			quote, err := c.QuoteCost(context.Background(), QuoteRequest{
				Origin: "1", Destination: "2", Weight: decimal.NewFromInt(1), Courier: "jne",
			})

			assert.Nil(t, quote)
			var upstream *models.UpstreamError
			require.True(t, errors.As(err, &upstream), "got %v", err)
			assert.Equal(t, 0, upstream.StatusCode)
			assert.Equal(t, "malformed response", upstream.Description)
		})
	}
}

func TestQuoteCostUpstreamDescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":400,"description":"Weight harus diisi."}}}`))
	})

	_, err := c.QuoteCost(context.Background(), QuoteRequest{Origin: "1", Destination: "2", Courier: "jne"})

	var upstream *models.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, "Weight harus diisi.", upstream.Description)
}

func TestQuoteCostUpstreamGenericDescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	})

	_, err := c.QuoteCost(context.Background(), QuoteRequest{Origin: "1", Destination: "2", Courier: "jne"})

	var upstream *models.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "failed to calculate shipping cost", upstream.Description)
}

func TestQuoteCostTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "k", 50*time.Millisecond)
	_, err := c.QuoteCost(context.Background(), QuoteRequest{Origin: "1", Destination: "2", Courier: "jne"})

	var netErr *models.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "cost", netErr.Op)
}
