package pricing

import (
	"testing"

	"github.com/colis-next/internal/constants"

	"github.com/shopspring/decimal"
)

func w(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestComputeWeightBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		weight  float64
		express bool
		want    int64
	}{
		{"light_lower", 0.5, false, 3000},
		{"light_upper", 2, false, 3000},
		{"heavy_just_over_light", 2.01, false, 6000},
		{"heavy_upper", 5, false, 6000},
		{"extra_fraction", 5.5, false, 7000},
		{"extra_exact_kg", 6, false, 7000},
		{"extra_two_kg", 7, false, 8000},
		{"extra_fraction_rounds_up", 7.2, false, 9000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(constants.ZoneTana, w(tc.weight), tc.express)
			if got != tc.want {
				t.Fatalf("Compute(tana, %v) = %d, want %d", tc.weight, got, tc.want)
			}
		})
	}
}

func TestComputePerZone(t *testing.T) {
	cases := []struct {
		zone        string
		light       int64
		lightHeavy  int64
		sixKg       int64
		expressSurc int64
	}{
		{constants.ZoneTana, 3000, 6000, 7000, 2000},
		{constants.ZonePeri, 3000, 7000, 8000, 3000},
		{constants.ZoneSuper, 4000, 8000, 9000, 6000},
	}
	for _, tc := range cases {
		t.Run(tc.zone, func(t *testing.T) {
			if got := Compute(tc.zone, w(1), false); got != tc.light {
				t.Fatalf("light price = %d, want %d", got, tc.light)
			}
			if got := Compute(tc.zone, w(4), false); got != tc.lightHeavy {
				t.Fatalf("light+heavy price = %d, want %d", got, tc.lightHeavy)
			}
			if got := Compute(tc.zone, w(6), false); got != tc.sixKg {
				t.Fatalf("6kg price = %d, want %d", got, tc.sixKg)
			}
			base := Compute(tc.zone, w(3), false)
			if got := Compute(tc.zone, w(3), true); got != base+tc.expressSurc {
				t.Fatalf("express price = %d, want %d", got, base+tc.expressSurc)
			}
		})
	}
}

func TestComputeMonotonicInWeight(t *testing.T) {
	prev := int64(0)
	for _, weight := range []float64{0.1, 1, 2, 2.5, 3, 5, 5.1, 6, 8, 12.3} {
		got := Compute(constants.ZonePeri, w(weight), false)
		if got < prev {
			t.Fatalf("price decreased at %vkg: %d < %d", weight, got, prev)
		}
		prev = got
	}
}

func TestComputeExpressAdditive(t *testing.T) {
	for _, zone := range []string{constants.ZoneTana, constants.ZonePeri, constants.ZoneSuper} {
		for _, weight := range []float64{1, 3, 8} {
			base := Compute(zone, w(weight), false)
			express := Compute(zone, w(weight), true)
			if express-base != ExpressSurcharge(zone) {
				t.Fatalf("zone %s %vkg: express delta %d, want %d", zone, weight, express-base, ExpressSurcharge(zone))
			}
		}
	}
}

func TestNormalizeZone(t *testing.T) {
	if zone, ok := NormalizeZone(" Peri "); !ok || zone != constants.ZonePeri {
		t.Fatalf("NormalizeZone(Peri) = %s, %v", zone, ok)
	}
	if zone, ok := NormalizeZone("antsirabe"); ok || zone != constants.ZoneTana {
		t.Fatalf("unknown zone should fall back to tana, got %s, %v", zone, ok)
	}
	if got := Compute("???", w(1), false); got != 3000 {
		t.Fatalf("unknown zone price = %d, want tana light 3000", got)
	}
}
