package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"degcore/internal/infra/blob/core"
)

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New()

	info, err := store.Put(ctx, "hippocampus/deg_c1.csv", strings.NewReader("gene_id,log_fc\n"), core.PutOptions{
		ContentType: "text/csv",
		Metadata:    map[string]string{"stratum": "hippocampus"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size == 0 || info.ContentType != "text/csv" {
		t.Fatalf("info = %+v", info)
	}

	got, rc, err := store.Get(ctx, "hippocampus/deg_c1.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "gene_id,log_fc\n" || got.Metadata["stratum"] != "hippocampus" {
		t.Fatalf("round trip mismatch: %q %+v", data, got)
	}
}

func TestPutRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	store := New()
	if _, err := store.Put(ctx, "k", strings.NewReader("a"), core.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("b"), core.PutOptions{}); err == nil {
		t.Fatal("expected duplicate put to fail")
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := New()
	for _, key := range []string{"fwm/a.csv", "fwm/b.csv", "hippocampus/a.csv"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "fwm/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "fwm/a.csv" || infos[1].Key != "fwm/b.csv" {
		t.Fatalf("list = %+v", infos)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	ctx := context.Background()
	store := New()
	if _, err := store.Put(ctx, "k", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || !ok {
		t.Fatalf("delete existing = %v, %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || ok {
		t.Fatalf("delete missing = %v, %v", ok, err)
	}
}

func TestPresignUnsupported(t *testing.T) {
	if _, err := New().PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
