package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kebtye/orderdesk/internal/notify"
	"github.com/kebtye/orderdesk/internal/orders"
	"github.com/kebtye/orderdesk/internal/store"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (s *recordingSender) Send(ctx context.Context, m notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return nil
}

func (s *recordingSender) messages() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.sent...)
}

type testApp struct {
	router   *chi.Mux
	store    *store.Store
	notifier *notify.Notifier
	sender   *recordingSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zaptest.NewLogger(t)
	st := store.New(filepath.Join(t.TempDir(), "orders.json"), log)
	sender := &recordingSender{}
	n := notify.New(sender, "+2348000000000", log, 8)
	n.Start(context.Background())

	r := NewRouter()
	NewOrdersHandler(st, n, log).Register(r)
	return &testApp{router: r, store: st, notifier: n, sender: sender}
}

// drain stops the notifier and waits until every queued message was attempted.
func (a *testApp) drain() {
	a.notifier.Close()
	a.notifier.WaitClosed()
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRootRedirectsHome(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
}

func TestHomeRenders(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/home")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "promoCode")
}

func TestPromoCarryThrough(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/order", url.Values{"promoCode": {"KEBTYE10"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/temu?code=KEBTYE10", w.Header().Get("Location"))

	w = app.postForm("/order", url.Values{"promoCode": {"   "}})
	assert.Equal(t, "/temu", w.Header().Get("Location"))

	w = app.postForm("/order", url.Values{})
	assert.Equal(t, "/temu", w.Header().Get("Location"))
}

func TestOfferPrefillsCode(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/temu?code=kebtye10")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="kebtye10"`)
}

func TestCheckoutCreatesOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	app := newTestApp(t)
	w := app.postForm("/checkout", url.Values{
		"customerName":  {"Ada"},
		"senderPhone":   {"0801"},
		"receiverPhone": {"0802"},
		"quantity":      {"3"},
		"promoCode":     {"KEBTYE10"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "₦1350")
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, strconv.FormatInt(now.UnixMilli(), 10))

	o, ok := app.store.FindByID(now.UnixMilli())
	require.True(t, ok)
	assert.Equal(t, 1350, o.Total)
	assert.True(t, o.Discount)
	assert.Equal(t, orders.StatusPending, o.Status)

	app.drain()
	sent := app.sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "NEW ORDER")
	assert.Contains(t, sent[0].Body, "₦1350")
}

func TestCheckoutWithoutPromo(t *testing.T) {
	app := newTestApp(t)
	w := app.postForm("/checkout", url.Values{
		"customerName": {"Bo"},
		"quantity":     {"2"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "₦1000")

	got := app.store.List()
	require.Len(t, got, 1)
	assert.False(t, got[0].Discount)
}

func TestCheckoutRejectsBadQuantity(t *testing.T) {
	app := newTestApp(t)
	for _, qty := range []string{"", "abc", "0", "-2"} {
		w := app.postForm("/checkout", url.Values{
			"customerName": {"Ada"},
			"quantity":     {qty},
		})
		require.Equal(t, http.StatusOK, w.Code, "qty %q", qty)
		assert.Contains(t, w.Body.String(), "valid quantity", "qty %q", qty)
	}
	assert.Empty(t, app.store.List())

	app.drain()
	assert.Empty(t, app.sender.messages())
}

func TestTrackResult(t *testing.T) {
	app := newTestApp(t)
	o := orders.New(orders.CheckoutInput{Name: "Ada", Qty: 1}, time.Now())
	require.NoError(t, app.store.Append(o))

	w := app.get("/track-result?orderId=" + strconv.FormatInt(o.ID, 10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada")
	assert.NotContains(t, w.Body.String(), "Order Not Found.")
}

func TestTrackResultNotFound(t *testing.T) {
	app := newTestApp(t)
	for _, q := range []string{"999", "banana", ""} {
		w := app.get("/track-result?orderId=" + q)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Order Not Found.", "orderId %q", q)
	}
}

func TestAdminListsAllOrders(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(orders.Order{ID: 1, Name: "Ada", Status: orders.StatusPending}))
	require.NoError(t, app.store.Append(orders.Order{ID: 2, Name: "Bo", Status: orders.StatusDelivered}))

	w := app.get("/admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada")
	assert.Contains(t, w.Body.String(), "Bo")
}

func TestUpdateStatusToDeliveredNotifies(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(orders.Order{ID: 5, Name: "Ada", Status: orders.StatusPending}))

	w := app.postForm("/update-status", url.Values{
		"orderId":   {"5"},
		"newStatus": {orders.StatusDelivered},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	o, ok := app.store.FindByID(5)
	require.True(t, ok)
	assert.Equal(t, orders.StatusDelivered, o.Status)

	app.drain()
	sent := app.sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "DELIVERED")
	assert.Contains(t, sent[0].Body, "#5")
}

func TestUpdateStatusOtherValueDoesNotNotify(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(orders.Order{ID: 5, Name: "Ada", Status: orders.StatusPending}))

	w := app.postForm("/update-status", url.Values{
		"orderId":   {"5"},
		"newStatus": {"On The Way"},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	o, _ := app.store.FindByID(5)
	assert.Equal(t, "On The Way", o.Status)

	app.drain()
	assert.Empty(t, app.sender.messages())
}

func TestUpdateStatusUnknownIsSilent(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/update-status", url.Values{
		"orderId":   {"404"},
		"newStatus": {orders.StatusDelivered},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	app.drain()
	assert.Empty(t, app.sender.messages())
}

func TestDeleteRemovesOrder(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(orders.Order{ID: 7, Name: "Ada"}))

	w := app.postForm("/delete", url.Values{"idToDelete": {"7"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.Empty(t, app.store.List())
}

func TestDeleteUnknownIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(orders.Order{ID: 7, Name: "Ada"}))

	w := app.postForm("/delete", url.Values{"idToDelete": {"42"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, app.store.List(), 1)
}
