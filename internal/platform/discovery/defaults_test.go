package discovery

import "testing"

func TestDefaultGRPCAddr(t *testing.T) {
	cases := map[string]string{
		ServiceAuth: "auth:8083",
		ServiceUser: "user:8092",
	}
	for service, want := range cases {
		if got := DefaultGRPCAddr(service); got != want {
			t.Fatalf("DefaultGRPCAddr(%q) = %q, want %q", service, got, want)
		}
	}
	if got := DefaultGRPCAddr("books"); got != "" {
		t.Fatalf("DefaultGRPCAddr(books) = %q, want empty", got)
	}
}

func TestDefaultHTTPAddr(t *testing.T) {
	if got := DefaultHTTPAddr(ServiceJaeger); got != "jaeger:16686" {
		t.Fatalf("DefaultHTTPAddr(jaeger) = %q", got)
	}
	if got := DefaultHTTPAddr(" auth "); got != "auth:9083" {
		t.Fatalf("DefaultHTTPAddr(auth) = %q", got)
	}
}

func TestOrDefaultGRPCAddr(t *testing.T) {
	if got := OrDefaultGRPCAddr(" custom:9000 ", ServiceAuth); got != "custom:9000" {
		t.Fatalf("expected explicit grpc addr to win, got %q", got)
	}
	if got := OrDefaultGRPCAddr("", ServiceAuth); got != "auth:8083" {
		t.Fatalf("expected default grpc addr, got %q", got)
	}
}
