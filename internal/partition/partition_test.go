package partition

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit_AllValidIndices(t *testing.T) {
	assets := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}

	for idx := 1; idx <= len(assets)-1; idx++ {
		p, err := Split(assets, FixedStrategy{Index: idx})
		if err != nil {
			t.Fatalf("Split(idx=%d) error = %v", idx, err)
		}
		if len(p.Input) == 0 || len(p.Output) == 0 {
			t.Errorf("Split(idx=%d) produced empty side: %v / %v", idx, p.Input, p.Output)
		}
		if len(p.Input)+len(p.Output) != len(assets) {
			t.Errorf("Split(idx=%d) lengths sum to %d, want %d", idx, p.Total(), len(assets))
		}
		recombined := append(append([]string{}, p.Input...), p.Output...)
		if !reflect.DeepEqual(recombined, assets) {
			t.Errorf("Split(idx=%d) concatenation = %v, want %v", idx, recombined, assets)
		}
	}
}

func TestSplit_DoesNotAliasInput(t *testing.T) {
	assets := []string{"a.png", "b.png", "c.png"}
	p, err := Split(assets, FixedStrategy{Index: 1})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	assets[0] = "mutated"
	if p.Input[0] != "a.png" {
		t.Errorf("partition aliases caller slice: %v", p.Input)
	}
}

func TestSplit_InsufficientAssets(t *testing.T) {
	for _, assets := range [][]string{nil, {}, {"only.png"}} {
		_, err := Split(assets, FixedStrategy{Index: 1})
		if !errors.Is(err, ErrInsufficientAssets) {
			t.Errorf("Split(%v) error = %v, want ErrInsufficientAssets", assets, err)
		}
	}
}

func TestSplit_RejectsOutOfRangeIndex(t *testing.T) {
	assets := []string{"a.png", "b.png", "c.png"}
	for _, idx := range []int{0, 3, -1, 10} {
		if _, err := Split(assets, FixedStrategy{Index: idx}); err == nil {
			t.Errorf("Split(idx=%d) expected error", idx)
		}
	}
}

func TestRandomStrategy_Bounds(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		idx := (RandomStrategy{}).Choose(4)
		if idx < 1 || idx > 3 {
			t.Fatalf("Choose(4) = %d, want in [1,3]", idx)
		}
		seen[idx] = true
	}
	// Over 1000 draws every valid index should have appeared.
	for idx := 1; idx <= 3; idx++ {
		if !seen[idx] {
			t.Errorf("Choose(4) never returned %d", idx)
		}
	}
}
