package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "hotelconnect/internal/adapters/redis"
	"hotelconnect/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	p := domain.Property{ID: "p1", Name: "Seaside Inn"}
	if err := c.Set(ctx, "property:p1", p, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got domain.Property
	ok, err := c.Get(ctx, "property:p1", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.ID != "p1" || got.Name != "Seaside Inn" {
		t.Fatalf("unexpected cached property: %+v", got)
	}

	if err := c.Del(ctx, "property:p1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, err = c.Get(ctx, "property:p1", &got)
	if err != nil {
		t.Fatalf("Get after Del: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestCache_MissReturnsFalse(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var got domain.Property
	ok, err := c.Get(context.Background(), "property:nope", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}
