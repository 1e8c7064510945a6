package service

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// Kind classifies why an upstream call failed.
type Kind string

// Failure kinds. The set is closed; anything unrecognized is KindUnknown.
const (
	KindTimeout    Kind = "timeout"
	KindCanceled   Kind = "canceled"
	KindDNS        Kind = "dns"
	KindRefused    Kind = "refused"
	KindTLS        Kind = "tls"
	KindConnection Kind = "connection"
	KindStatus     Kind = "status"
	KindUnknown    Kind = "unknown"
)

var kindMessages = map[Kind]string{
	KindTimeout:    "upstream request timed out",
	KindCanceled:   "upstream request canceled",
	KindDNS:        "upstream host could not be resolved",
	KindRefused:    "upstream connection refused",
	KindTLS:        "upstream TLS handshake failed",
	KindConnection: "upstream connection failed",
	KindUnknown:    "upstream request failed",
}

// UpstreamError is the single error type the probe returns. Its Error text
// depends only on Kind (and the status for KindStatus), never on the cause.
type UpstreamError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
	}
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Classify maps an arbitrary client error onto an *UpstreamError.
// Order matters: timeouts and cancellation are wrapped inside url.Error and
// net.OpError, so they are checked before the transport-level types.
func Classify(err error) *UpstreamError {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}
	return &UpstreamError{Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindRefused
	}

	var (
		certErr      *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr) {
		return KindTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindConnection
	}

	return KindUnknown
}
