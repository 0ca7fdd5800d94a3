package storage_test

import (
	"context"
	"testing"
	"time"

	blueprint "github.com/Hank-IT/blueprint-core"
	"github.com/Hank-IT/blueprint-core/storage"
)

func TestDriver_MsgpackRoundTripKeepsTimes(t *testing.T) {
	d := storage.NewDriver(storage.NewMemoryKV(), storage.MsgpackCodec{})
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rec := blueprint.PersistedRecord{
		Original: blueprint.State{"since": when, "name": ""},
		Current:  blueprint.State{"since": when, "name": "Alice"},
	}
	if err := d.Store(context.Background(), "k", rec); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok, err := d.Load(context.Background(), "k")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	ts, isTime := got.Current["since"].(time.Time)
	if !isTime || !ts.Equal(when) {
		t.Fatalf("msgpack must round-trip time values, got %#v", got.Current["since"])
	}
	if got.Current["name"] != "Alice" {
		t.Fatalf("unexpected record: %#v", got.Current)
	}
}

func TestDriver_MissingKeyReportsNotOK(t *testing.T) {
	d := storage.NewDriver(storage.NewMemoryKV(), nil)
	_, ok, err := d.Load(context.Background(), "absent")
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if ok {
		t.Fatalf("missing key must report ok=false")
	}
}

func TestDriver_ForgetRemovesTheRecord(t *testing.T) {
	d := storage.NewDriver(storage.NewMemoryKV(), nil)
	rec := blueprint.PersistedRecord{Original: blueprint.State{}, Current: blueprint.State{}}
	if err := d.Store(context.Background(), "k", rec); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := d.Forget(context.Background(), "k"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok, _ := d.Load(context.Background(), "k"); ok {
		t.Fatalf("forgotten key must not load")
	}
}

func TestJSONCodec_RoundTripsPlainRecords(t *testing.T) {
	d := storage.NewDriver(storage.NewMemoryKV(), storage.JSONCodec{})
	rec := blueprint.PersistedRecord{
		Original: blueprint.State{"n": "a"},
		Current:  blueprint.State{"n": "b"},
	}
	if err := d.Store(context.Background(), "k", rec); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok, err := d.Load(context.Background(), "k")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Original["n"] != "a" || got.Current["n"] != "b" {
		t.Fatalf("unexpected record: %#v", got)
	}
}
