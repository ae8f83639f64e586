// Package types - Provisioning gateway wire types
package types

import "encoding/json"

// Operation is an abstract infrastructure operation the gateway knows how
// to route upstream.
type Operation string

const (
	// OpValidate checks the resolved credential against the provider
	OpValidate Operation = "validate"

	// OpListSizes lists purchasable instance sizes (always a read)
	OpListSizes Operation = "sizes"

	// OpListRegions lists available regions (always a read)
	OpListRegions Operation = "regions"

	// OpCreateInstance provisions a new compute instance
	OpCreateInstance Operation = "droplets"

	// OpPassthrough forwards an arbitrary path with the inbound method
	OpPassthrough Operation = "passthrough"
)

// ProxyRequest is one inbound gateway call. Requests are stateless; the
// gateway keeps no memory between dispatches.
type ProxyRequest struct {
	// Op selects the upstream route
	Op Operation `json:"op"`

	// Path is the upstream path segment for OpPassthrough
	Path string `json:"path,omitempty"`

	// Method is the inbound HTTP method, mirrored upstream for
	// passthrough operations
	Method string `json:"method,omitempty"`

	// AuthToken is a caller-supplied credential. It ranks last in the
	// resolution order, after the configured server-side credentials.
	AuthToken string `json:"-"`

	// Body is the raw request body, if any
	Body []byte `json:"-"`
}

// ProxyResponse carries the upstream result. The status code is always the
// upstream's; the gateway never translates it. The body is opaque JSON:
// the gateway forwards and surfaces status, it does not interpret payload
// schema.
type ProxyResponse struct {
	// StatusCode is the upstream HTTP status, preserved verbatim
	StatusCode int `json:"status_code"`

	// Body is the upstream payload, normalized to valid JSON
	Body json.RawMessage `json:"body,omitempty"`
}

// OK reports whether the upstream answered with a 2xx status.
func (r ProxyResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
