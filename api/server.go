// Package api - Thin HTTP layer over the order pipeline.
// The API is only responsible for input ingestion, pipeline orchestration
// and output serialization. It never computes prices or interprets
// upstream payloads itself.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"vps-order/core/catalog"
	"vps-order/core/checkout"
	"vps-order/core/gateway"
	"vps-order/core/pricing"
	"vps-order/core/types"
	"vps-order/internal/errors"
	"vps-order/internal/metrics"
)

// maxBodySize bounds inbound request bodies.
const maxBodySize = 1 << 20 // 1MB

// Server is the API server.
type Server struct {
	engine   *pricing.Engine
	filter   *catalog.Filter
	source   *catalog.Source
	checkout *checkout.Service
	gateway  *gateway.Gateway
	metrics  *metrics.Metrics

	mux       *http.ServeMux
	handler   http.Handler
	version   string
	publicURL string
}

// Deps bundles the pipeline components the server fronts.
type Deps struct {
	Engine   *pricing.Engine
	Source   *catalog.Source
	Checkout *checkout.Service
	Gateway  *gateway.Gateway
	Metrics  *metrics.Metrics

	// PublicURL is the redirect origin used when requests carry no
	// Origin header
	PublicURL string
}

// NewServer creates the API server and registers all routes.
func NewServer(version string, deps Deps) *Server {
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		engine:    deps.Engine,
		filter:    catalog.NewFilter(deps.Engine),
		source:    deps.Source,
		checkout:  deps.Checkout,
		gateway:   deps.Gateway,
		metrics:   m,
		mux:       http.NewServeMux(),
		version:   version,
		publicURL: deps.PublicURL,
	}

	s.registerRoutes()

	handler := http.Handler(s.mux)
	handler = s.corsMiddleware(handler)
	handler = s.observeMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	s.handler = handler

	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Order pipeline
	s.mux.HandleFunc("GET /api/v1/plans", s.handlePlans)
	s.mux.HandleFunc("POST /api/v1/quote", s.handleQuote)
	s.mux.HandleFunc("POST /api/v1/checkout", s.handleCheckout)

	// Provisioning gateway: the path suffix selects the operation
	s.mux.HandleFunc("GET /api/v1/do/{op...}", s.handleProvision)
	s.mux.HandleFunc("POST /api/v1/do/{op...}", s.handleProvision)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// handlePlans handles GET /api/v1/plans
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	all := s.source.List(r.Context())
	matched := s.filter.FilterAndSort(all, criteria)

	resp := PlansResponse{
		Plans:      make([]PlanResponse, 0, len(matched)),
		Categories: categoryCounts(s.filter, all),
		Count:      len(matched),
	}
	for _, entry := range matched {
		resp.Plans = append(resp.Plans, PlanResponse{
			ID:           entry.Identifier,
			Label:        catalog.Label(entry),
			Category:     string(catalog.Classify(entry)),
			VCPUCount:    entry.VCPUCount,
			MemoryMB:     entry.MemoryMB,
			DiskGB:       entry.DiskGB,
			MonthlyPrice: s.filter.DisplayPrice(entry).StringFixed(2),
			Regions:      entry.RegionTags,
		})
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// handleQuote handles POST /api/v1/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.PlanID == "" {
		s.writeError(w, http.StatusBadRequest, "planId is required")
		return
	}

	entry, err := s.source.Find(r.Context(), req.PlanID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	order, err := s.engine.Quote(entry, types.BillingTerm(req.TermMonths))
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, QuoteResponse{
		PlanID:     order.Entry.Identifier,
		TermMonths: int(order.Term),
		FinalPrice: order.FinalPrice.StringFixed(2),
		Currency:   "USD",
	}, http.StatusOK)
}

// handleCheckout handles POST /api/v1/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	term := types.TermMonthly
	if req.IsAnnual {
		term = types.TermAnnual
	}

	order := types.PricedOrder{
		Entry:      types.RateCardEntry{Identifier: req.OrderDetails.ProductName},
		Term:       term,
		FinalPrice: decimal.NewFromFloat(req.OrderDetails.Amount).Round(2),
	}

	session, err := s.checkout.CreateCheckout(r.Context(), order, checkout.Options{
		CustomerEmail: req.OrderDetails.CustomerEmail,
		Origin:        s.origin(r),
		Currency:      req.OrderDetails.Currency,
		ProductName:   req.OrderDetails.ProductName,
		Description:   req.OrderDetails.Description,
		Metadata:      req.OrderDetails.Metadata,
	})
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, CheckoutResponse{
		SessionID:  session.SessionID,
		SessionURL: session.RedirectURL,
	}, http.StatusOK)
}

// handleProvision handles /api/v1/do/{op...} for GET and POST
func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	resp, err := s.gateway.Dispatch(r.Context(), proxyRequest(r, body))
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	// Mirror the upstream status verbatim, success or not
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "vps-order",
		"api_version": "v1",
	}, http.StatusOK)
}

// proxyRequest maps an inbound gateway call onto a ProxyRequest. Known
// path suffixes select their operation; anything else is a passthrough.
func proxyRequest(r *http.Request, body []byte) types.ProxyRequest {
	op := r.PathValue("op")

	req := types.ProxyRequest{
		Method:    r.Method,
		AuthToken: r.Header.Get("x-do-api-key"),
		Body:      body,
	}

	switch op {
	case "validate":
		req.Op = types.OpValidate
	case "sizes":
		req.Op = types.OpListSizes
	case "regions":
		req.Op = types.OpListRegions
	case "droplets":
		req.Op = types.OpCreateInstance
	default:
		req.Op = types.OpPassthrough
		req.Path = op
	}

	return req
}

// criteriaFromQuery builds FilterCriteria from plans query parameters.
func criteriaFromQuery(r *http.Request) (types.FilterCriteria, error) {
	q := r.URL.Query()

	criteria := types.FilterCriteria{
		SearchText: q.Get("q"),
		Category:   types.Category(q.Get("category")),
		SortKey:    types.SortKey(q.Get("sort")),
	}

	if raw := q.Get("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return criteria, errors.Input("min_price is not a number")
		}
		criteria.MinPrice = min
	}
	if raw := q.Get("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return criteria, errors.Input("max_price is not a number")
		}
		criteria.MaxPrice = max
	}

	return criteria, nil
}

// categoryCounts flattens the category tally for the wire.
func categoryCounts(filter *catalog.Filter, entries []types.RateCardEntry) map[string]int {
	counts := filter.CategoryCounts(entries)
	out := make(map[string]int, len(counts))
	for category, count := range counts {
		out[string(category)] = count
	}
	return out
}

// statusForError maps the error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch errors.TypeOf(err) {
	case errors.TypeInput, errors.TypeInvalidTerm, errors.TypeInvalidRate, errors.TypeInvalidRequestBody:
		return http.StatusBadRequest
	case errors.TypeMissingCredential:
		return http.StatusUnauthorized
	case errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeUpstream, errors.TypeUpstreamParse:
		return http.StatusBadGateway
	default:
		// CONFIG_ERROR, PROVIDER_UNAVAILABLE, INVALID_ORDER and the
		// rest surface as the checkout contract's generic 500
		return http.StatusInternalServerError
	}
}

// origin resolves the redirect origin for payment flows.
func (s *Server) origin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	return s.publicURL
}

func (s *Server) parseJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, map[string]string{"error": message}, status)
}

// ServeHTTP implements http.Handler with the full middleware chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
