package yahoo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies API failures into the three buckets callers care about.
type Kind int

const (
	// KindUnknown is anything we could not classify.
	KindUnknown Kind = iota
	// KindAuth is an unrecoverable credential failure. Never retried.
	KindAuth
	// KindTransient is rate limiting or server-side instability. Retried.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// APIError is the normalized failure surfaced by every accessor call.
type APIError struct {
	Kind        Kind
	Endpoint    string // URL path of the failed call
	Description string
	Detail      string // optional detail extracted from the failure payload
	Err         error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Description)
	if e.Endpoint != "" {
		fmt.Fprintf(&b, " (endpoint: %s)", e.Endpoint)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// authMarkers are substrings that identify an unrecoverable credential
// failure in Yahoo error text. Matching any of them means fail fast.
var authMarkers = []string{
	"401",
	"invalid_grant",
	"Not authorized",
	"token_expired",
}

func isAuthText(msg string) bool {
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classifyStatus maps an HTTP status code onto a failure kind.
func classifyStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return KindAuth
	case code == 429 || code >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}

// normalizeError builds an APIError from a failed call. Yahoo error bodies
// look like {"error":{"description":"...","yahoo:uri":"..."}}; when the body
// parses we prefer its description and carry the uri as detail.
func normalizeError(kind Kind, endpoint string, body []byte, err error) *APIError {
	out := &APIError{
		Kind:     kind,
		Endpoint: endpoint,
		Err:      err,
	}
	if err != nil {
		out.Description = err.Error()
	}
	if len(body) > 0 && gjson.ValidBytes(body) {
		e := gjson.GetBytes(body, "error")
		if e.IsObject() {
			if desc := firstNonEmpty(e.Get("description").String(), e.Get("message").String()); desc != "" {
				out.Description = desc
			}
			if uri := firstNonEmpty(e.Get("yahoo\\:uri").String(), e.Get("uri").String()); uri != "" {
				out.Detail = uri
			}
		}
	}
	if out.Description == "" {
		out.Description = "yahoo API error"
	}
	return out
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}

func jsonString(body []byte, path string) string {
	return gjson.GetBytes(body, path).String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
