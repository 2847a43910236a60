package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/tokenaudit/tokenaudit/pkg/dedup"
	"github.com/tokenaudit/tokenaudit/pkg/parser"
)

func testEvent(model string, costUSD float64) dedup.UsageEvent {
	return dedup.UsageEvent{
		SessionID: "sess",
		Model:     model,
		Timestamp: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		Usage:     parser.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
		CostUSD:   costUSD,
	}
}

func TestParseCostMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    CostMode
		wantErr bool
	}{
		{"auto", CostModeAuto, false},
		{"calculate", CostModeCalculate, false},
		{"display", CostModeDisplay, false},
		{"", CostModeAuto, false},
		{"guess", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCostMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCostMode) {
				t.Errorf("ParseCostMode(%q) error = %v, want ErrUnknownCostMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCostMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPriceModes(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	// claude-opus-4-5: 5 + 25 per million each = 30 for 1M in + 1M out.
	const computed = 30.0

	tests := []struct {
		name string
		mode CostMode
		cost float64
		want float64
	}{
		{"auto trusts record cost", CostModeAuto, 0.42, 0.42},
		{"auto computes when absent", CostModeAuto, 0, computed},
		{"calculate ignores record cost", CostModeCalculate, 0.42, computed},
		{"display only record cost", CostModeDisplay, 0.42, 0.42},
		{"display zero when absent", CostModeDisplay, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calc := NewCalculator(table, tt.mode)
			if got := calc.Price(testEvent("claude-opus-4-5", tt.cost)); got != tt.want {
				t.Errorf("Price() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplySetsCostInPlace(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	events := []dedup.UsageEvent{
		testEvent("claude-opus-4-5", 0),
		testEvent("claude-sonnet-4-5", 0.1),
	}

	NewCalculator(table, CostModeAuto).Apply(events)

	if events[0].CostUSD != 30.0 {
		t.Errorf("events[0].CostUSD = %v, want 30", events[0].CostUSD)
	}
	if events[1].CostUSD != 0.1 {
		t.Errorf("events[1].CostUSD = %v, want 0.1", events[1].CostUSD)
	}
}

func TestUnknownModelsTracked(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	calc := NewCalculator(table, CostModeCalculate)
	calc.Price(testEvent("mystery-model-b", 0))
	calc.Price(testEvent("mystery-model-a", 0))
	calc.Price(testEvent("mystery-model-b", 0)) // repeat, counted once
	calc.Price(testEvent("claude-opus-4-5", 0))

	got := calc.UnknownModels()
	want := []string{"mystery-model-a", "mystery-model-b"}
	if len(got) != len(want) {
		t.Fatalf("UnknownModels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UnknownModels() = %v, want %v", got, want)
		}
	}
}

func TestUnknownModelsNotTrackedWhenCostTrusted(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	// Auto mode with record cost present never consults the table, so the
	// model cannot be flagged unknown.
	calc := NewCalculator(table, CostModeAuto)
	calc.Price(testEvent("mystery-model", 0.5))

	if got := calc.UnknownModels(); len(got) != 0 {
		t.Errorf("UnknownModels() = %v, want empty", got)
	}
}
