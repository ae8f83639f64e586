// Package gateway routes abstract infrastructure operations to the
// provider's HTTP API, normalizing credential resolution and error shape.
// The gateway is a stateless forwarder: it preserves upstream status codes
// verbatim and never interprets payload schema. It keeps no cross-request
// memory and guarantees no idempotency; issuing at most one create per
// order is the caller's responsibility.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"vps-order/core/types"
	"vps-order/internal/errors"
	"vps-order/internal/logging"
)

// maxErrorExcerpt bounds the raw-body excerpt attached to parse errors so
// diagnostics never grow with the upstream payload.
const maxErrorExcerpt = 500

// Upstream executes one HTTP call against the infrastructure provider and
// returns the raw status and body. Network-level failures come back as an
// error; any HTTP status, including 4xx/5xx, is a successful exchange.
type Upstream interface {
	Do(ctx context.Context, method, path, token string, body []byte) (int, []byte, error)
}

// Gateway is the provisioning request router.
type Gateway struct {
	upstream    Upstream
	credentials []CredentialProvider
}

// New creates a gateway over the given upstream. Credential providers are
// consulted in the given order on every dispatch.
func New(upstream Upstream, credentials ...CredentialProvider) *Gateway {
	return &Gateway{
		upstream:    upstream,
		credentials: credentials,
	}
}

// route resolves an operation to the upstream method and path. Size and
// region listings are forced to GET regardless of the inbound method: the
// provider has no creation semantics for those resources, so a POST from
// the caller is treated as a read.
func route(req types.ProxyRequest) (method, path string) {
	switch req.Op {
	case types.OpValidate:
		return http.MethodGet, "account"
	case types.OpListSizes:
		return http.MethodGet, "sizes"
	case types.OpListRegions:
		return http.MethodGet, "regions"
	case types.OpCreateInstance:
		return http.MethodPost, "droplets"
	default:
		method = req.Method
		if method == "" {
			method = http.MethodGet
		}
		return method, strings.TrimPrefix(req.Path, "/")
	}
}

// Dispatch forwards one request upstream. The returned error covers only
// gateway-local failures (missing credential, malformed body, network
// failure, unparsable success body); upstream 4xx/5xx are returned as a
// ProxyResponse carrying the upstream status and a normalized JSON body.
func (g *Gateway) Dispatch(ctx context.Context, req types.ProxyRequest) (types.ProxyResponse, error) {
	token := g.resolveCredential(ctx, req)
	if token == "" {
		return types.ProxyResponse{}, errors.MissingCredential()
	}

	// Fail fast on malformed bodies; nothing is dispatched upstream
	if len(req.Body) > 0 && !json.Valid(req.Body) {
		return types.ProxyResponse{}, errors.InvalidRequestBody(nil)
	}

	method, path := route(req)

	status, body, err := g.upstream.Do(ctx, method, path, token, req.Body)
	if err != nil {
		return types.ProxyResponse{}, errors.Upstream("infrastructure API unreachable", err)
	}

	logging.Debug("gateway dispatch",
		zap.String("op", string(req.Op)),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)

	if status >= 200 && status < 300 {
		return g.successResponse(status, body)
	}
	return g.errorResponse(status, body), nil
}

// resolveCredential walks the configured providers in order; the request's
// own token is the final fallback.
func (g *Gateway) resolveCredential(ctx context.Context, req types.ProxyRequest) string {
	for _, provider := range g.credentials {
		if token := provider.Credential(ctx); token != "" {
			return token
		}
	}
	return req.AuthToken
}

// successResponse passes a 2xx body through as JSON. A non-JSON body on a
// success status is a contract violation upstream, surfaced with a bounded
// excerpt for diagnostics.
func (g *Gateway) successResponse(status int, body []byte) (types.ProxyResponse, error) {
	if len(body) == 0 {
		return types.ProxyResponse{StatusCode: status}, nil
	}
	if !json.Valid(body) {
		return types.ProxyResponse{}, errors.UpstreamParse(excerpt(body))
	}

	return types.ProxyResponse{
		StatusCode: status,
		Body:       json.RawMessage(body),
	}, nil
}

// errorResponse normalizes a non-2xx body: the raw text is kept when it
// already is structured data, otherwise it is wrapped as {"message": raw}.
// The status code is preserved either way.
func (g *Gateway) errorResponse(status int, body []byte) types.ProxyResponse {
	raw := strings.TrimSpace(string(body))

	var normalized json.RawMessage
	if raw != "" && gjson.Valid(raw) {
		normalized = json.RawMessage(raw)
	} else {
		wrapped, _ := json.Marshal(map[string]string{"message": raw})
		normalized = wrapped
	}

	return types.ProxyResponse{
		StatusCode: status,
		Body:       normalized,
	}
}

func excerpt(body []byte) string {
	if len(body) > maxErrorExcerpt {
		return string(body[:maxErrorExcerpt])
	}
	return string(body)
}
