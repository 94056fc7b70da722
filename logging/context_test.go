package logging

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRequestContextSeedsIdentifiers(t *testing.T) {
	ctx, requestID := NewRequestContext(context.Background())

	if requestID == "" {
		t.Fatal("expected a generated request id")
	}
	if got := RequestID(ctx); got != requestID {
		t.Errorf("RequestID(ctx) = %q, want %q", got, requestID)
	}
	if got := UserID(ctx); got != AnonymousUser {
		t.Errorf("UserID(ctx) = %q, want %q", got, AnonymousUser)
	}
}

func TestNewRequestContextGeneratesUniqueIDs(t *testing.T) {
	_, first := NewRequestContext(context.Background())
	_, second := NewRequestContext(context.Background())
	if first == second {
		t.Fatalf("two requests shared the request id %q", first)
	}
}

func TestWithUserIDOverwritesIdentity(t *testing.T) {
	ctx, _ := NewRequestContext(context.Background())
	ctx = WithUserID(ctx, "alice")

	if got := UserID(ctx); got != "alice" {
		t.Errorf("UserID(ctx) = %q, want %q", got, "alice")
	}
}

func TestUserIDDefaultsOutsideRequest(t *testing.T) {
	if got := UserID(context.Background()); got != AnonymousUser {
		t.Errorf("UserID(background) = %q, want %q", got, AnonymousUser)
	}
}

func TestCtxEnrichesRecords(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	ctx, requestID := NewRequestContext(context.Background())
	ctx = WithUserID(ctx, "bob")

	Ctx(ctx, logger).Info("something happened")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != requestID {
		t.Errorf("request_id field = %v, want %q", fields["request_id"], requestID)
	}
	if fields["user_id"] != "bob" {
		t.Errorf("user_id field = %v, want %q", fields["user_id"], "bob")
	}
}

func TestCtxOutsideRequestLeavesLoggerUnchanged(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	Ctx(context.Background(), logger).Info("no request")

	fields := observed.All()[0].ContextMap()
	if _, ok := fields["request_id"]; ok {
		t.Error("expected no request_id field outside a request chain")
	}
}

// Concurrent requests each carry their own context; records logged in one
// chain must never pick up another chain's identifiers.
func TestConcurrentRequestsDoNotShareIdentifiers(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	const requests = 32
	var wg sync.WaitGroup
	wg.Add(requests)

	want := make([]string, requests)
	users := make([]string, requests)
	for i := 0; i < requests; i++ {
		go func(i int) {
			defer wg.Done()
			ctx, requestID := NewRequestContext(context.Background())
			user := "user-" + requestID[:8]
			ctx = WithUserID(ctx, user)
			want[i] = requestID
			users[i] = user
			Ctx(ctx, logger).Info("handled", zap.Int("slot", i))
		}(i)
	}
	wg.Wait()

	entries := observed.All()
	if len(entries) != requests {
		t.Fatalf("expected %d entries, got %d", requests, len(entries))
	}
	for _, e := range entries {
		fields := e.ContextMap()
		slot := int(fields["slot"].(int64))
		if fields["request_id"] != want[slot] {
			t.Errorf("slot %d logged request_id %v, want %q", slot, fields["request_id"], want[slot])
		}
		if fields["user_id"] != users[slot] {
			t.Errorf("slot %d logged user_id %v, want %q", slot, fields["user_id"], users[slot])
		}
	}
}
