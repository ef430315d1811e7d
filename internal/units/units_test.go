package units

import (
	"math"
	"testing"
)

func TestIsValidAngleUnit(t *testing.T) {
	for _, u := range ValidAngleUnits {
		if !IsValidAngleUnit(u) {
			t.Errorf("expected %q to be valid", u)
		}
	}
	if IsValidAngleUnit("arcsec") {
		t.Error("arcsec should not be valid")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 1, 45, 90, 180, -30} {
		got := RadToDeg(DegToRad(deg))
		if math.Abs(got-deg) > 1e-12 {
			t.Errorf("round trip of %v deg: got %v", deg, got)
		}
	}
}

func TestToDeg(t *testing.T) {
	if got := ToDeg(math.Pi, Rad); math.Abs(got-180) > 1e-12 {
		t.Errorf("pi rad: expected 180 deg, got %v", got)
	}
	if got := ToDeg(1000*math.Pi, MRad); math.Abs(got-180) > 1e-9 {
		t.Errorf("1000pi mrad: expected 180 deg, got %v", got)
	}
	if got := ToDeg(12.5, "unknown"); got != 12.5 {
		t.Errorf("unknown unit should pass through, got %v", got)
	}
}
