package reqsign

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign/internal/pctenc"
)

// RequestHead is the transport-agnostic mutable request a RequestSigner
// operates on: method, URI components, and headers. It deliberately does
// not carry a body -- the body is represented only by whatever content-hash
// header the caller has already set, per spec's "Signing Request" data
// model. Keeping this independent of *http.Request is what lets presign
// mode rewrite a query string with no round-trippable request at all.
type RequestHead struct {
	Method string
	Scheme string
	Host   string
	Path   string
	Query  url.Values
	Header http.Header
}

// NewRequestHead builds an empty RequestHead ready for population.
func NewRequestHead(method, scheme, host, path string) *RequestHead {
	return &RequestHead{
		Method: method,
		Scheme: scheme,
		Host:   host,
		Path:   path,
		Query:  url.Values{},
		Header: http.Header{},
	}
}

// Clone deep-copies h so a signer can compute into the copy and the
// original is only replaced on success (spec's mutation-atomicity rule).
func (h *RequestHead) Clone() *RequestHead {
	cp := &RequestHead{
		Method: h.Method,
		Scheme: h.Scheme,
		Host:   h.Host,
		Path:   h.Path,
		Query:  make(url.Values, len(h.Query)),
		Header: make(http.Header, len(h.Header)),
	}
	for k, v := range h.Query {
		cp.Query[k] = append([]string(nil), v...)
	}
	for k, v := range h.Header {
		cp.Header[k] = append([]string(nil), v...)
	}
	return cp
}

// assign overwrites h's fields with src's, used by the kernel to commit a
// clone back onto the caller's head after a successful sign.
func (h *RequestHead) assign(src *RequestHead) {
	*h = *src
}

// encodeQuery renders query the same way every signer's canonical query
// string does (pctenc's unreserved-set rule), not url.Values.Encode's
// QueryEscape rule, so a presigned URL's query is byte-identical to the
// one the signature was computed over. url.QueryEscape disagrees with
// that rule on space ('+' vs '%20'), which a provider's signature check
// would otherwise reject.
func encodeQuery(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		encodedKey := pctenc.Encode(k)
		for _, v := range values {
			parts = append(parts, encodedKey+"="+pctenc.Encode(v))
		}
	}
	return strings.Join(parts, "&")
}

// URL renders the head's scheme, host, path and query into a full URL
// string. Used by presign callers to obtain the final signed URL.
func (h *RequestHead) URL() string {
	u := url.URL{
		Scheme:   h.Scheme,
		Host:     h.Host,
		Path:     h.Path,
		RawQuery: encodeQuery(h.Query),
	}
	return u.String()
}

// FromHTTPRequest builds a RequestHead from a *http.Request, cloning its
// header and query so later mutation never touches the original request
// until ApplyTo is called.
func FromHTTPRequest(r *http.Request) *RequestHead {
	h := &RequestHead{
		Method: r.Method,
		Scheme: r.URL.Scheme,
		Host:   r.Host,
		Path:   r.URL.Path,
		Query:  make(url.Values, len(r.URL.Query())),
		Header: r.Header.Clone(),
	}
	for k, v := range r.URL.Query() {
		h.Query[k] = append([]string(nil), v...)
	}
	if h.Host == "" {
		h.Host = r.URL.Host
	}
	return h
}

// ApplyTo writes h's method, path, query and headers back onto r.
func (h *RequestHead) ApplyTo(r *http.Request) {
	r.Method = h.Method
	r.URL.Scheme = h.Scheme
	r.URL.Path = h.Path
	r.URL.RawQuery = encodeQuery(h.Query)
	r.Host = h.Host
	r.Header = h.Header.Clone()
}
