package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinRisk/internal/domain/models"
	svcmetrics "FinRisk/internal/service/metrics"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, *svcmetrics.StreamMetrics) {
	t.Helper()
	m := svcmetrics.NewStreamMetrics(prometheus.NewRegistry())
	h := NewHub(nil, m)
	go h.Run()

	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		srv.Close()
		h.Stop()
	})
	return h, srv, m
}

func dial(t *testing.T, srv *httptest.Server, taxID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/risk?taxId=" + taxID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversOnlyToSubscribers(t *testing.T) {
	h, srv, m := startHub(t)
	mine := dial(t, srv, "0101999888")
	other := dial(t, srv, "0309876543")

	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Clients))

	h.Notify(models.ReportEvent{ID: "e1", TaxID: "0101999888", Year: 2024})

	_ = mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)
	var ev models.ReportEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "e1", ev.ID)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other company's subscriber gets nothing")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Delivered))
}

func TestHubUnregistersClosedClients(t *testing.T) {
	h, srv, _ := startHub(t)
	conn := dial(t, srv, "0101999888")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWSRequiresTaxID(t *testing.T) {
	_, srv, _ := startHub(t)
	for _, q := range []string{"", "?taxId=", "?taxId=0101*", "?taxId=0101%5B99988"} {
		resp, err := http.Get(srv.URL + "/ws/risk" + q)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestNotifyDoesNotBlockWhenFull(t *testing.T) {
	h := NewHub(nil, nil)
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Notify(models.ReportEvent{TaxID: "x"})
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}
