package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("correlator", rec)

	scoped.ReportBroken("resolver.scripture", "boom")
	scoped.ReportWarning("resolver.footnote")
	NewScopedAPI("pipeline", scoped).ReportBroken("cache.set")

	require.Equal(t, []string{"correlator: resolver.scripture"}, rec.Broken("resolver.scripture"))
	require.Equal(t, []string{"correlator: pipeline: cache.set"}, rec.Broken("cache.set"))
	require.Empty(t, rec.Broken("resolver.footnote"))
}

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	res, err := client.R().SetContext(context.Background()).Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	kinds := map[string]int{}
	for _, r := range rec.reports {
		kinds[r.Id]++
	}
	require.Equal(t, 1, kinds[report_resty_request])
	require.Equal(t, 1, kinds[report_resty_response])
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
