package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"degcore/internal/infra/blob/core"
)

func TestMockPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()

	if _, err := store.Put(ctx, "hippocampus/deg_c1.csv", strings.NewReader("gene_id,log_fc\n"), core.PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, rc, err := store.Get(ctx, "hippocampus/deg_c1.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "gene_id,log_fc\n" {
		t.Fatalf("content = %q", data)
	}
	if info.ContentType != "text/csv" {
		t.Fatalf("info = %+v", info)
	}
}

func TestMockPutRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "k.csv", strings.NewReader("a"), core.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "k.csv", strings.NewReader("b"), core.PutOptions{}); err == nil {
		t.Fatal("expected create-only semantics")
	}
}

func TestMockListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	for _, key := range []string{"fwm/a.csv", "fwm/b.csv", "hippocampus/a.csv"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "fwm/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "fwm/a.csv" {
		t.Fatalf("list = %+v", infos)
	}
}

func TestMockDeleteAndHead(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "k.csv", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Head(ctx, "k.csv"); err != nil {
		t.Fatalf("head: %v", err)
	}
	if ok, err := store.Delete(ctx, "k.csv"); err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if _, err := store.Head(ctx, "k.csv"); err == nil {
		t.Fatal("head after delete must fail")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected bucket requirement")
	}
}
