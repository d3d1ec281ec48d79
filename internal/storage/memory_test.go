package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if data, err := store.Load(ctx, CollectionOrders); err != nil || data != nil {
		t.Fatalf("load of missing collection = (%v, %v), want (nil, nil)", data, err)
	}

	payload := []byte(`[{"id":"o1"}]`)
	if err := store.Save(ctx, CollectionOrders, payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, CollectionOrders)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("load = %s, want %s", got, payload)
	}
}

func TestMemoryStoreCopiesPayloads(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	payload := []byte(`[1,2,3]`)
	if err := store.Save(ctx, CollectionStaff, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload[0] = 'X'

	got, _ := store.Load(ctx, CollectionStaff)
	if !bytes.Equal(got, []byte(`[1,2,3]`)) {
		t.Fatalf("stored payload shares memory with caller: %s", got)
	}

	got[0] = 'Y'
	again, _ := store.Load(ctx, CollectionStaff)
	if !bytes.Equal(again, []byte(`[1,2,3]`)) {
		t.Fatalf("loaded payload shares memory with store: %s", again)
	}
}
