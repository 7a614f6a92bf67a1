package webhook

import (
	"strings"
	"testing"
)

func TestVerify(t *testing.T) {
	payload := []byte(`{"event":"payment.completed","data":{"userId":1,"courseId":"c1"}}`)
	secret := "top-secret"
	sig := Sign(payload, secret)

	tests := []struct {
		name   string
		header string
		body   []byte
		secret string
		want   bool
	}{
		{name: "valid", header: sig, body: payload, secret: secret, want: true},
		{name: "uppercase hex", header: strings.ToUpper(sig), body: payload, secret: secret, want: true},
		{name: "sha256 prefix", header: "sha256=" + sig, body: payload, secret: secret, want: true},
		{name: "tampered body", header: sig, body: append([]byte(" "), payload...), secret: secret, want: false},
		{name: "wrong secret", header: sig, body: payload, secret: "other", want: false},
		{name: "empty header", header: "", body: payload, secret: secret, want: false},
		{name: "empty secret", header: Sign(payload, ""), body: payload, secret: "", want: false},
		{name: "not hex", header: "zz", body: payload, secret: secret, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.header, tt.body, tt.secret); got != tt.want {
				t.Fatalf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}
