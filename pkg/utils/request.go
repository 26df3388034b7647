package utils

import (
	"net"
	"strings"
)

// HostingProvider describes a known PaaS the server is deployed on
type HostingProvider struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// knownProviders maps host suffixes to their providers
var knownProviders = []struct {
	suffix   string
	provider HostingProvider
}{
	{"pythonanywhere.com", HostingProvider{Name: "PythonAnywhere", URL: "https://www.pythonanywhere.com/"}},
	{"vercel.app", HostingProvider{Name: "Vercel", URL: "https://vercel.com/"}},
	{"render.com", HostingProvider{Name: "Render", URL: "https://render.com/"}},
	{"onrender.com", HostingProvider{Name: "Render", URL: "https://render.com/"}},
	{"railway.app", HostingProvider{Name: "Railway", URL: "https://railway.app/"}},
}

// DetectHostingProvider guesses the hosting provider from a request host.
// Local hosts and unknown domains return nil
func DetectHostingProvider(host string) *HostingProvider {
	host = strings.ToLower(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if strings.HasPrefix(host, "127.") || strings.Contains(host, "localhost") {
		return nil
	}

	for _, known := range knownProviders {
		if host == known.suffix || strings.HasSuffix(host, "."+known.suffix) {
			provider := known.provider
			return &provider
		}
	}

	return nil
}
