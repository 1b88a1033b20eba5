//
//  internal/clientinfo/clientinfo.go
//
//  Per-request client fingerprint: IP address, a compact user-agent
//  summary, and a best-effort geolocation string.  The authentication
//  flow stores these three values on every session row, so they are
//  plain strings, inert, and safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package clientinfo

import (
	"net"
	"net/http"
	"strings"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// Info is the fingerprint persisted with each session.
type Info struct {
	IP        string // client address, without port
	UserAgent string // raw User-Agent header
	Browser   string // "Chrome", "Firefox", "Safari", ...
	Device    string // "Desktop", "Mobile", "Tablet", or "Other"
	IsBot     bool   // true when the UA matches a crawler signature
	Location  string // "City, CC" best-effort, "unknown" when unresolvable
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a singleton MaxMind handle.  It is safe for concurrent
// reads, which is all we ever perform.  Lookups degrade gracefully to
// "unknown" while it is nil.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database at startup.  A missing database
// is not fatal; sessions then carry "unknown" locations.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

//
//  -----------------------------
//  Public API
//  -----------------------------
//

// FromRequest captures the fingerprint for one request.
func FromRequest(r *http.Request) Info {
	ip := clientIP(r)
	info := Info{
		UserAgent: r.UserAgent(),
		Location:  lookupLocation(ip),
	}
	if ip != nil {
		info.IP = ip.String()
	}

	ua := surfer.Parse(r.UserAgent())
	// The library's stringer yields "BrowserChrome"; store plain "Chrome".
	info.Browser = strings.TrimPrefix(ua.Browser.Name.String(), "Browser")
	info.IsBot = ua.IsBot()
	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-Ip, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

// lookupLocation renders "City, CC" using the global reader, degrading to
// "unknown" when the reader is absent or the address has no match.
func lookupLocation(ip net.IP) string {
	if geoReader == nil || ip == nil {
		return "unknown"
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return "unknown"
	}
	city := rec.City.Names["en"]
	iso := rec.Country.IsoCode
	switch {
	case city != "" && iso != "":
		return city + ", " + iso
	case iso != "":
		return iso
	default:
		return "unknown"
	}
}
