// internal/clientinfo/clientinfo_test.go
//
// Unit-tests for the client fingerprint capture.
//
// Run: go test ./internal/clientinfo -v

package clientinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestFromRequestPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:52811"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 70.41.3.18")
	req.Header.Set("User-Agent", chromeDesktopUA)

	info := FromRequest(req)
	if info.IP != "203.0.113.9" {
		t.Errorf("IP = %q, want left-most forwarded address", info.IP)
	}
	if info.UserAgent != chromeDesktopUA {
		t.Errorf("UserAgent not carried verbatim: %q", info.UserAgent)
	}
	if info.Browser != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", info.Browser)
	}
	if info.Device != "Desktop" {
		t.Errorf("Device = %q, want Desktop", info.Device)
	}
	if info.IsBot {
		t.Error("desktop browser flagged as bot")
	}
	if info.Location != "unknown" {
		t.Errorf("Location without a geo database = %q, want unknown", info.Location)
	}
}

func TestFromRequestFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:40100"

	if info := FromRequest(req); info.IP != "198.51.100.7" {
		t.Errorf("IP = %q, want RemoteAddr host", info.IP)
	}
}

func TestFromRequestFlagsCrawlers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:40100"
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")

	if info := FromRequest(req); !info.IsBot {
		t.Error("crawler UA not flagged")
	}
}
