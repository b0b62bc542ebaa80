// Package netcheck reports whether the device currently has a usable path
// to the internet.
package netcheck

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Probe answers the single question every remote operation asks first.
type Probe interface {
	// Online re-probes on every call; results are never cached. An
	// inability to determine status reads as offline.
	Online(ctx context.Context) bool
}

// NetProbe is the production probe. Two independent checks must both pass:
// a non-loopback network link with an address, and an HTTP round trip to a
// known endpoint.
type NetProbe struct {
	URL     string
	Timeout time.Duration
	client  *http.Client
}

var _ Probe = (*NetProbe)(nil)

func New(url string, timeout time.Duration) *NetProbe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NetProbe{
		URL:     url,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *NetProbe) Online(ctx context.Context) bool {
	if !linkUp() {
		return false
	}
	return p.reachable(ctx)
}

func (p *NetProbe) reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// linkUp reports whether any non-loopback interface is up with an address.
func linkUp() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

// Static is a fixed-answer probe for tests and for callers that manage
// connectivity themselves.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
