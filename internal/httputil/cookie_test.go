package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		cookie    string
		header    string
		wantToken string
		wantOK    bool
	}{
		{name: "cookie only", cookie: "cookie-token", wantToken: "cookie-token", wantOK: true},
		{name: "bearer only", header: "Bearer header-token", wantToken: "header-token", wantOK: true},
		{name: "bearer case-insensitive", header: "bearer header-token", wantToken: "header-token", wantOK: true},
		{name: "cookie wins over header", cookie: "cookie-token", header: "Bearer header-token", wantToken: "cookie-token", wantOK: true},
		{name: "empty cookie falls back to header", cookie: "", header: "Bearer header-token", wantToken: "header-token", wantOK: true},
		{name: "non-bearer scheme", header: "Basic dXNlcjpwYXNz", wantOK: false},
		{name: "bearer with no token", header: "Bearer ", wantOK: false},
		{name: "nothing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "authToken", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, ok := TokenFromRequest(req, "authToken")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
		})
	}
}
