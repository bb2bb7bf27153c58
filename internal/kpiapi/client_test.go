package kpiapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL, time.Second, opts...)
	require.NoError(t, err)
	return client
}

func TestGlobalKPIsSendsFilters(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathGlobal, r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ca_total":2297200.86,"profit_total":286397.02,"marge_moyenne":12.47,"nb_commandes":5009,"nb_clients":793,"quantite_vendue":37873,"panier_moyen":458.61}`))
	})

	snapshot, err := client.GlobalKPIs(context.Background(), Filter{
		From:     "2023-01-01",
		To:       "2023-12-31",
		Region:   "West",
		Segment:  "all",
		Category: "",
	})
	require.NoError(t, err)

	assert.InDelta(t, 2297200.86, snapshot.Revenue, 1e-6)
	assert.Equal(t, int64(5009), snapshot.Orders)
	assert.Equal(t, int64(793), snapshot.Customers)
	assert.Equal(t, []string{"2023-01-01"}, gotQuery["date_debut"])
	assert.Equal(t, []string{"2023-12-31"}, gotQuery["date_fin"])
	assert.Equal(t, []string{"West"}, gotQuery["region"])
	assert.NotContains(t, gotQuery, "segment")
	assert.NotContains(t, gotQuery, "categorie")
}

func TestClientsAndProductsParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathClients:
			assert.Equal(t, "5", r.URL.Query().Get("limite"))
			_, _ = w.Write([]byte(`{"top_clients":[{"nom":"Sean Miller","ca_total":25043.05}],"recurrence":{"total_clients":793,"clients_recurrents":781,"nb_commandes_moyen":6.3},"segments":[{"segment":"Consumer","ca":1161401.3,"profit":134119.2,"nb_clients":409}]}`))
		case PathTopProducts:
			assert.Equal(t, "8", r.URL.Query().Get("limite"))
			assert.Equal(t, "ca", r.URL.Query().Get("tri_par"))
			_, _ = w.Write([]byte(`[{"produit":"Canon imageCLASS 2200","ca":61599.82,"profit":25199.93,"quantite":20}]`))
		case PathTimeSeries:
			assert.Equal(t, "mois", r.URL.Query().Get("periode"))
			_, _ = w.Write([]byte(`[{"periode":"2023-01","ca":100,"profit":10},{"periode":"2023-02","ca":120,"profit":14}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	clients, err := client.Clients(ctx, 5)
	require.NoError(t, err)
	require.Len(t, clients.TopClients, 1)
	assert.Equal(t, "Sean Miller", clients.TopClients[0].Name)
	assert.Equal(t, int64(781), clients.Recurrence.RecurringCustomers)
	assert.Equal(t, "Consumer", clients.Segments[0].Segment)

	products, err := client.TopProducts(ctx, 8, "ca")
	require.NoError(t, err)
	assert.Equal(t, int64(20), products[0].Quantity)

	series, err := client.TimeSeries(ctx, "mois")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2023-02", series[1].Period)
}

func TestClientClassifiesHTTPErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Regions(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, PathRegions, httpErr.Endpoint)
	assert.Equal(t, KindHTTP, Classify(err))
}

func TestClientClassifiesMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"categorie":`))
	})

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, KindMalformed, Classify(err))
}

func TestClientClassifiesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client, err := New(addr, time.Second)
	require.NoError(t, err)

	_, err = client.Info(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Equal(t, KindUnreachable, Classify(err))
}

func TestClientClassifiesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client, err := New(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.FilterOptions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Equal(t, KindTimeout, Classify(err))
}

func TestClientRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dataset":"Superstore","nb_lignes":9994,"periode":{"debut":"2020-01-03","fin":"2023-12-30"}}`))
	}, WithMetrics(metrics))

	info, err := client.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9994), info.Rows)
	assert.Equal(t, "2020-01-03", info.Period.Start)

	families, err := registry.Gather()
	require.NoError(t, err)
	var found bool
	for _, family := range families {
		if family.GetName() != "superstore_kpi_api_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["endpoint"] == PathInfo && labels["outcome"] == "ok" {
				found = metric.GetCounter().GetValue() == 1
			}
		}
	}
	assert.True(t, found, "expected one successful call to be recorded")
}

func TestNewValidatesBaseURL(t *testing.T) {
	client, err := New("", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	_, err = New("ftp://example.com", time.Second)
	assert.Error(t, err)
}

func TestFilterValues(t *testing.T) {
	f := Filter{From: "2023-01-01", Region: "All", Segment: "Corporate", Category: " "}
	assert.Equal(t, "date_debut=2023-01-01&segment=Corporate", f.Key())
	assert.True(t, IsAll("ALL"))
	assert.False(t, IsAll("West"))
}
