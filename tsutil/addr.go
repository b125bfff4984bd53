package tsutil

import (
	"net"
	"net/url"
	"path"
)

// AddrToURL converts an address in host:port format to a http (or websocket,
// when ws is set) URL
func AddrToURL(addr string, secure, ws bool) url.URL {
	var scheme string
	switch {
	case ws && secure:
		scheme = "wss"
	case ws:
		scheme = "ws"
	case secure:
		scheme = "https"
	default:
		scheme = "http"
	}
	return url.URL{
		Scheme: scheme,
		Host:   addr,
	}
}

// AddToURLPath appends the path elements elems to baseURL.
func AddToURLPath(baseURL url.URL, elems ...string) url.URL {
	u := baseURL
	u.Path = path.Join(append([]string{"/", baseURL.Path}, elems...)...)
	return u
}

// ListenAddr returns the address to listen on for the given port on all
// interfaces
func ListenAddr(port string) string {
	return net.JoinHostPort("", port)
}
