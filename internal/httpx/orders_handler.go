package httpx

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kebtye/orderdesk/internal/notify"
	"github.com/kebtye/orderdesk/internal/orders"
	"github.com/kebtye/orderdesk/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// timeNow is swapped out in tests to pin order ids and timestamps.
var timeNow = time.Now

// OrdersHandler serves the customer funnel, order tracking, and the admin
// panel. Notifications are queued, never awaited.
type OrdersHandler struct {
	Store    *store.Store
	Notifier *notify.Notifier
	Log      *zap.Logger

	tmpl *template.Template
}

func NewOrdersHandler(st *store.Store, n *notify.Notifier, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		Store:    st,
		Notifier: n,
		Log:      log,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	r.Get("/home", h.home)
	r.Post("/order", h.promoNext)
	r.Get("/temu", h.offer)
	r.Post("/checkout", h.checkout)
	r.Get("/track", h.trackForm)
	r.Get("/track-result", h.trackResult)
	r.Get("/admin", h.adminList)
	r.Post("/update-status", h.updateStatus)
	r.Post("/delete", h.deleteOrder)
}

func (h *OrdersHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.Log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *OrdersHandler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", nil)
}

// promoNext carries an optional promo code from the landing page to the offer
// page as a query parameter. Blank or whitespace codes are treated as absent.
func (h *OrdersHandler) promoNext(w http.ResponseWriter, r *http.Request) {
	dest := "/temu"
	if code := strings.TrimSpace(r.PostFormValue("promoCode")); code != "" {
		dest += "?code=" + url.QueryEscape(code)
	}
	http.Redirect(w, r, dest, http.StatusFound)
}

type offerView struct {
	Code  string
	Error string
}

func (h *OrdersHandler) offer(w http.ResponseWriter, r *http.Request) {
	h.render(w, "temu.html", offerView{Code: r.URL.Query().Get("code")})
}

type receiptView struct {
	Order orders.Order
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil || qty <= 0 {
		h.render(w, "temu.html", offerView{
			Code:  r.PostFormValue("promoCode"),
			Error: "Please enter a valid quantity.",
		})
		return
	}

	o := orders.New(orders.CheckoutInput{
		Name:          r.PostFormValue("customerName"),
		SenderPhone:   r.PostFormValue("senderPhone"),
		ReceiverPhone: r.PostFormValue("receiverPhone"),
		Qty:           qty,
		PromoCode:     r.PostFormValue("promoCode"),
	}, timeNow())

	if err := h.Store.Append(o); err != nil {
		// The receipt still renders; the next reload simply won't see the order.
		h.Log.Error("persist order", zap.Int64("id", o.ID), zap.Error(err))
	}

	h.Notifier.Notify(fmt.Sprintf(
		"📦 *NEW ORDER!*\n\n👤 %s\n📱 %s\n🛍️ %d Bags\n💰 ₦%d",
		o.Name, o.SenderPhone, o.Qty, o.Total,
	))

	h.render(w, "receipt.html", receiptView{Order: o})
}

type trackView struct {
	Found *orders.Order
	Error string
}

func (h *OrdersHandler) trackForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "track.html", trackView{})
}

func (h *OrdersHandler) trackResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil {
		h.render(w, "track.html", trackView{Error: "Order Not Found."})
		return
	}
	o, ok := h.Store.FindByID(id)
	if !ok {
		h.render(w, "track.html", trackView{Error: "Order Not Found."})
		return
	}
	h.render(w, "track.html", trackView{Found: &o})
}

type adminView struct {
	Orders []orders.Order
}

func (h *OrdersHandler) adminList(w http.ResponseWriter, r *http.Request) {
	h.render(w, "admin.html", adminView{Orders: h.Store.List()})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/admin", http.StatusFound)

	id, err := strconv.ParseInt(r.PostFormValue("orderId"), 10, 64)
	if err != nil {
		return
	}
	newStatus := r.PostFormValue("newStatus")
	o, ok, err := h.Store.UpdateStatus(id, newStatus)
	if err != nil {
		h.Log.Error("persist status", zap.Int64("id", id), zap.Error(err))
	}
	if !ok {
		// Unknown id is a silent no-op.
		return
	}
	if newStatus == orders.StatusDelivered {
		h.Notifier.Notify(fmt.Sprintf(
			"✅ *DELIVERED!* \n\nHello %s, your order #%d has arrived! 📦",
			o.Name, o.ID,
		))
	}
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/admin", http.StatusFound)

	id, err := strconv.ParseInt(r.PostFormValue("idToDelete"), 10, 64)
	if err != nil {
		return
	}
	if _, err := h.Store.Remove(id); err != nil {
		h.Log.Error("persist delete", zap.Int64("id", id), zap.Error(err))
	}
}
