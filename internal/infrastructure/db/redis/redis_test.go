package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{
		Addr:       "cache:6379",
		Password:   "s3cret",
		DB:         2,
		PoolSize:   20,
		ClientName: "tasklist-api",
		Timeout:    time.Second,
	})

	if opts.Addr != "cache:6379" || opts.Password != "s3cret" || opts.DB != 2 {
		t.Fatalf("connection fields not mapped: %+v", opts)
	}
	if opts.PoolSize != 20 || opts.ClientName != "tasklist-api" {
		t.Fatalf("pool/name not mapped: pool=%d name=%q", opts.PoolSize, opts.ClientName)
	}
	if opts.DialTimeout != time.Second || opts.ReadTimeout != time.Second || opts.WriteTimeout != time.Second {
		t.Fatalf("timeouts not mapped: %+v", opts)
	}
}

func TestClientOptions_Defaults(t *testing.T) {
	opts := clientOptions(Config{Addr: "localhost:6379"})
	if opts.DialTimeout != defaultTimeout {
		t.Fatalf("DialTimeout = %s, want %s", opts.DialTimeout, defaultTimeout)
	}
	if opts.PoolSize != 0 {
		t.Fatalf("PoolSize = %d, want go-redis default", opts.PoolSize)
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret", Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestConnect_WrongPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "nope", Timeout: time.Second}); err == nil {
		t.Fatal("expected an auth error")
	}
}
