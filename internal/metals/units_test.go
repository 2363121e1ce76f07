package metals

import (
	"math"
	"testing"
)

// approx reports whether a and b are equal within tol.
func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestUnitConversions(t *testing.T) {
	t.Run("grams_to_oz", func(t *testing.T) {
		if got := GramsToOz(31.1035); !approx(got, 1.0, 1e-12) {
			t.Errorf("expected 31.1035 g = 1 oz, got %v", got)
		}
	})

	t.Run("oz_to_grams", func(t *testing.T) {
		if got := OzToGrams(2); !approx(got, 62.207, 1e-9) {
			t.Errorf("expected 2 oz = 62.207 g, got %v", got)
		}
	})

	t.Run("price_per_gram_to_per_oz", func(t *testing.T) {
		if got := PricePerGramToPerOz(100); !approx(got, 3110.35, 1e-9) {
			t.Errorf("expected 100/g = 3110.35/oz, got %v", got)
		}
	})

	t.Run("round_trip_quantity", func(t *testing.T) {
		for _, oz := range []float64{0, 0.1, 1, 2.659, 1000} {
			if got := GramsToOz(OzToGrams(oz)); !approx(got, oz, 1e-9) {
				t.Errorf("round trip of %v oz gave %v", oz, got)
			}
		}
	})

	t.Run("round_trip_price", func(t *testing.T) {
		for _, p := range []float64{0, 14816.07, 603.96, 1e6} {
			if got := PricePerOzToPerGram(PricePerGramToPerOz(p)); !approx(got, p, 1e-6) {
				t.Errorf("round trip of price %v gave %v", p, got)
			}
		}
	})
}
