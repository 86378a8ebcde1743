package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"facepay-be/internal/buyer"
	"facepay-be/internal/logger"
	"facepay-be/internal/precreate"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler exposes the three user-triggered operations (submit, open QR
// wizard, run status query) plus the supporting CRUD reads.
type Handler struct {
	orders precreate.Service
	buyers buyer.Service
}

func NewHandler(orders precreate.Service, buyers buyer.Service) *Handler {
	return &Handler{orders: orders, buyers: buyers}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("GET /orders/{id}/notes", h.listNotes)
	mux.HandleFunc("POST /orders/{id}/submit", h.submit)
	mux.HandleFunc("POST /orders/{id}/qrcode", h.openQRCode)
	mux.HandleFunc("POST /orders/{id}/query", h.queryStatus)
	mux.HandleFunc("GET /buyers/{user_id}", h.getBuyer)

	return mux
}

// --- Request / response DTOs ---

type createOrderLineRequest struct {
	ProductName string          `json:"product_name"`
	GoodsID     string          `json:"goods_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	Subject     string                   `json:"subject"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Body        string                   `json:"body,omitempty"`
	Lines       []createOrderLineRequest `json:"lines"`
}

type orderLineResponse struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	GoodsID     string          `json:"goods_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID            uint                `json:"id"`
	OutBizNo      string              `json:"out_biz_no"`
	Subject       string              `json:"subject"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Body          string              `json:"body,omitempty"`
	Status        string              `json:"status"`
	PrecreateTime *string             `json:"precreate_time,omitempty"`
	PayTime       *string             `json:"pay_time,omitempty"`
	QRCode        string              `json:"qr_code,omitempty"`
	TradeNo       string              `json:"trade_no,omitempty"`
	Company       string              `json:"company,omitempty"`
	BuyerID       *uint               `json:"buyer_id,omitempty"`
	Lines         []orderLineResponse `json:"lines,omitempty"`
}

type qrCodeViewResponse struct {
	OrderID     uint   `json:"order_id"`
	OutBizNo    string `json:"out_biz_no"`
	Subject     string `json:"subject"`
	Image       []byte `json:"image"`
	ImageMedium []byte `json:"image_medium"`
	ImageSmall  []byte `json:"image_small"`
}

type buyerResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name,omitempty"`
	LoginID  string `json:"login_id,omitempty"`
	UserID   string `json:"user_id"`
	UserType string `json:"user_type,omitempty"`
}

type noteResponse struct {
	ID        uint   `json:"id"`
	Body      string `json:"body"`
	NoteType  string `json:"note_type"`
	CreatedAt string `json:"created_at"`
}

// --- Handlers ---

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	input := precreate.CreateOrderInput{
		Subject:     req.Subject,
		TotalAmount: req.TotalAmount,
		Body:        req.Body,
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, precreate.CreateOrderLineInput{
			ProductName: l.ProductName,
			GoodsID:     l.GoodsID,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}

	o, err := h.orders.CreateOrder(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *precreate.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := precreate.OrderStatus(s)
		status = &st
	}

	limit := queryInt32(r, "limit", 50)
	offset := queryInt32(r, "offset", 0)

	orders, err := h.orders.ListOrders(r.Context(), status, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	notes, err := h.orders.Notes(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteResponse{
			ID:        n.ID,
			Body:      n.Body,
			NoteType:  n.NoteType,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Submit(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) openQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := h.orders.OpenQRCode(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, qrCodeViewResponse{
		OrderID:     view.OrderID,
		OutBizNo:    view.OutBizNo,
		Subject:     view.Subject,
		Image:       view.Image,
		ImageMedium: view.ImageMedium,
		ImageSmall:  view.ImageSmall,
	})
}

func (h *Handler) queryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.QueryStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) getBuyer(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		http.Error(w, "invalid buyer user id", http.StatusBadRequest)
		return
	}

	b, err := h.buyers.GetByUserID(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, buyerResponse{
		ID:       b.ID,
		Name:     b.Name,
		LoginID:  b.LoginID,
		UserID:   b.UserID,
		UserType: b.UserType,
	})
}

// --- Helpers ---

func toOrderResponse(o *precreate.Order) orderResponse {
	res := orderResponse{
		ID:          o.ID,
		OutBizNo:    o.OutBizNo,
		Subject:     o.Subject,
		TotalAmount: o.TotalAmount,
		Body:        o.Body,
		Status:      string(o.Status),
		QRCode:      o.QRCode,
		TradeNo:     o.TradeNo,
		Company:     o.Company,
		BuyerID:     o.BuyerID,
	}
	if o.PrecreateTime != nil {
		s := o.PrecreateTime.Format("2006-01-02T15:04:05Z07:00")
		res.PrecreateTime = &s
	}
	if o.PayTime != nil {
		s := o.PayTime.Format("2006-01-02T15:04:05Z07:00")
		res.PayTime = &s
	}
	for _, l := range o.Lines {
		res.Lines = append(res.Lines, orderLineResponse{
			ID:          l.ID,
			ProductName: l.ProductName,
			GoodsID:     l.GoodsID,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}
	return res
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, precreate.ErrOrderNotFound),
		errors.Is(err, buyer.ErrBuyerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, precreate.ErrNotDraft),
		errors.Is(err, precreate.ErrNotSubmitted),
		errors.Is(err, precreate.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, precreate.ErrMissingSubject),
		errors.Is(err, precreate.ErrInvalidAmount),
		errors.Is(err, precreate.ErrInvalidQuantity),
		errors.Is(err, precreate.ErrNoLines),
		errors.Is(err, precreate.ErrNoPaymentCode),
		errors.Is(err, precreate.ErrPrecreateRejected):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		http.Error(w, "internal error", status)
		return
	}

	http.Error(w, err.Error(), status)
}
