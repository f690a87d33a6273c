package model

import (
	"testing"
	"time"
)

func TestStampSetsCreateAtInMillis(t *testing.T) {
	var doc Document
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	doc.Stamp(now)
	got, ok := doc.Body["createAt"].(int64)
	if !ok {
		t.Fatalf("expected createAt to be int64, got %T", doc.Body["createAt"])
	}
	if got != now.UnixMilli() {
		t.Fatalf("expected %d, got %d", now.UnixMilli(), got)
	}
}

func TestStampInitializesNilBody(t *testing.T) {
	doc := Document{Kind: KindBlocks}
	doc.Stamp(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	if doc.Body == nil {
		t.Fatal("expected Stamp to initialize a nil Body")
	}
}
