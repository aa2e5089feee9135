package requestctx

import (
	"context"
	"testing"
)

func TestCallerFromContextRoundTrip(t *testing.T) {
	ctx := WithCaller(context.Background(), "user")
	if got := CallerFromContext(ctx); got != "user" {
		t.Fatalf("CallerFromContext = %q, want %q", got, "user")
	}
}

func TestCallerFromContextEmpty(t *testing.T) {
	if got := CallerFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCallerFromContextNil(t *testing.T) {
	if got := CallerFromContext(nil); got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithCallerNilContext(t *testing.T) {
	ctx := WithCaller(nil, "user")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := CallerFromContext(ctx); got != "user" {
		t.Fatalf("CallerFromContext = %q, want %q", got, "user")
	}
}
