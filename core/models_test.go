package core

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "semantic", want: ModeSemantic},
		{in: " Keyword ", want: ModeKeyword},
		{in: "", wantErr: true},
		{in: "hybrid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode() error = %v, want %v", err, ErrInvalidMode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.want.String() {
				t.Errorf("String() = %q, want %q", got.String(), tt.want.String())
			}
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot([]CatalogModel{
		{ID: "org/a", Name: "first"},
		{ID: "org/b"},
		{ID: "org/a", Name: "second"},
	}, nil)

	if len(snap.Order) != 2 || snap.Order[0] != "org/a" || snap.Order[1] != "org/b" {
		t.Errorf("Order = %v, want [org/a org/b]", snap.Order)
	}
	m, ok := snap.Model("org/a")
	if !ok || m.Name != "second" {
		t.Errorf("Model(org/a) = %+v, %v; want the later duplicate", m, ok)
	}
	if _, ok := snap.Model("org/missing"); ok {
		t.Error("Model(org/missing) found, want absent")
	}

	var nilSnap *Snapshot
	if _, ok := nilSnap.Model("org/a"); ok {
		t.Error("nil snapshot lookup should miss")
	}
}

func TestEmbeddingRecordPhrase(t *testing.T) {
	if got := (EmbeddingRecord{Level: "expert", Query: "vit"}).Phrase(); got != "vit" {
		t.Errorf("Phrase() = %q, want query", got)
	}
	if got := (EmbeddingRecord{Level: "a description"}).Phrase(); got != "a description" {
		t.Errorf("Phrase() = %q, want level fallback", got)
	}
}

func TestColdStartErrorIs(t *testing.T) {
	err := error(&ColdStartError{Err: &TransportError{Op: "semantic search", StatusCode: 503, Status: "503 Service Unavailable"}})
	if !errors.Is(err, ErrBackendColdStart) {
		t.Error("ColdStartError should match ErrBackendColdStart")
	}
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 503 {
		t.Errorf("errors.As(TransportError) = %v", te)
	}
}
