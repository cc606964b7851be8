package reqctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")

	got, ok := GetRequestID(ctx)
	if !ok || got != "req-42" {
		t.Fatalf("ожидался req-42, получено %q (ok=%v)", got, ok)
	}
}

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), 7)

	got, ok := GetUserID(ctx)
	if !ok || got != 7 {
		t.Fatalf("ожидался 7, получено %d (ok=%v)", got, ok)
	}
}

func TestMissingValues(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetRequestID(ctx); ok {
		t.Fatal("в пустом контексте не должно быть request id")
	}
	if _, ok := GetUserID(ctx); ok {
		t.Fatal("в пустом контексте не должно быть user id")
	}
}
