package ratelimit

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver, rate limit anahtarı olarak kullanılacak client IP'sini bulur.
//
// X-Forwarded-For ve X-Real-IP sadece bağlantı güvenilen bir proxy'den
// geliyorsa okunur; aksi halde başlıklar yok sayılır ve RemoteAddr kullanılır.
// nil *IPResolver hiçbir proxy'ye güvenmez.
type IPResolver struct {
	trusted []netip.Prefix
}

func NewIPResolver(trusted []netip.Prefix) *IPResolver {
	return &IPResolver{trusted: trusted}
}

// ClientIP, X-Forwarded-For zincirini sağdan sola yürür ve güvenilmeyen
// ilk adresi döner. Zincirin tamamı güvenilen proxy'lerse en soldaki adres döner.
func (p *IPResolver) ClientIP(r *http.Request) string {
	remote := remoteHost(r.RemoteAddr)
	if !p.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		client := ""
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				// Bozuk hop: sağındaki son geçerli adrese güven.
				break
			}
			client = addr.Unmap().String()
			if !p.isTrusted(client) {
				return client
			}
		}
		if client != "" {
			return client
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
	}

	return remote
}

func (p *IPResolver) isTrusted(ip string) bool {
	if p == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
