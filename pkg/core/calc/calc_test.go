package calc

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(10, 0); got != nil {
		t.Errorf("Expected nil for division by zero, got %f", *got)
	}
	if got := SafeDiv(10, math.NaN()); got != nil {
		t.Errorf("Expected nil for NaN denominator, got %f", *got)
	}
	if got := SafeDiv(10, math.Inf(1)); got != nil {
		t.Errorf("Expected nil for Inf denominator, got %f", *got)
	}
	got := SafeDiv(10, 4)
	if got == nil || *got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
}

func TestClampAndRound(t *testing.T) {
	if Clamp01(1.7) != 1 || Clamp01(-0.2) != 0 || Clamp01(math.NaN()) != 0 {
		t.Errorf("Clamp01 did not bound values to [0,1]")
	}
	cases := map[float64]int{-3: 0, 0.4: 0, 0.5: 1, 2.49: 2, 7.5: 8}
	for in, want := range cases {
		if got := RoundCount(in); got != want {
			t.Errorf("RoundCount(%v): expected %d, got %d", in, want, got)
		}
	}
	if RoundCount(math.Inf(1)) != 0 {
		t.Errorf("Expected RoundCount(+Inf) to be 0")
	}
}

func TestResolve(t *testing.T) {
	if Resolve(nil, 42) != 42 {
		t.Errorf("Expected computed value when override is absent")
	}
	if Resolve(Ptr(7), 42) != 7 {
		t.Errorf("Expected override to take precedence")
	}
	if Resolve(Ptr(math.NaN()), 42) != 42 {
		t.Errorf("Expected non-finite override to be ignored")
	}
	zero := 0.0
	if Resolve(&zero, 42) != 0 {
		t.Errorf("Expected an explicit zero override to win")
	}
}

func TestSum(t *testing.T) {
	if got := Sum(0.1, 0.2); got != 0.3 {
		t.Errorf("Expected 0.3 without float drift, got %v", got)
	}
	if got := Sum(100, math.NaN(), math.Inf(1), -40); got != 60 {
		t.Errorf("Expected non-finite values to be skipped, got %v", got)
	}
	if got := Sum(); got != 0 {
		t.Errorf("Expected 0 for no values, got %v", got)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1250", 1250, true},
		{"1.250,50", 1250.5, true},
		{"1,250.50", 1250.5, true},
		{"12,5", 12.5, true},
		{"1,250", 1250, true},
		{"%12", 12, true},
		{" 3 400 TL ", 3400, true},
		{"10.000", 10000, true},
		{"10,000", 10000, true},
		{"1.250", 1250, true},
		{"0.125", 0.125, true},
		{"0,125", 0.125, true},
		{"12.5", 12.5, true},
		{"1.5e3", 1500, true},
		{"2E-2", 0.02, true},
		{"12 euro", 12, true},
		{"100 USD per student", 100, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseNumber(%q): expected (%v, %v), got (%v, %v)", c.in, c.want, c.ok, got, ok)
		}
	}
}

func TestLenientJSON(t *testing.T) {
	var payload struct {
		A Num    `json:"a"`
		B Num    `json:"b"`
		C OptNum `json:"c"`
		D OptNum `json:"d"`
		E OptNum `json:"e"`
		F Text   `json:"f"`
		G Flag   `json:"g"`
		H Flag   `json:"h"`
	}
	raw := `{"a":"12,5","b":{"x":1},"c":"","d":"7","e":null,"f":5,"g":"false","h":"maybe"}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("Expected lenient decode to succeed, got %v", err)
	}
	if payload.A != 12.5 {
		t.Errorf("Expected A=12.5, got %v", payload.A)
	}
	if payload.B != 0 {
		t.Errorf("Expected object to coerce to 0, got %v", payload.B)
	}
	if payload.C.Set {
		t.Errorf("Expected empty string to leave OptNum unset")
	}
	if !payload.D.Set || payload.D.Value != 7 {
		t.Errorf("Expected D=7, got %+v", payload.D)
	}
	if payload.E.Set {
		t.Errorf("Expected null to leave OptNum unset")
	}
	if payload.F != "5" {
		t.Errorf("Expected numeric text to become \"5\", got %q", payload.F)
	}
	if !payload.G.IsFalse() {
		t.Errorf("Expected \"false\" to set an explicit false flag")
	}
	if payload.H.Set {
		t.Errorf("Expected unknown flag text to stay unset")
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"Öğrenci Servis Ücreti":          "ogrenci servis ucreti",
		"Yemek (Öğle) Ücreti":            "yemek ucreti",
		"  KİTAP / Kırtasiye  ":          "kitap kirtasiye",
		"Uniforma-Kıyafet":               "uniforma kiyafet",
		"Café   crème":                   "cafe creme",
		"Transport [optional] & Bus fee": "transport bus fee",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("Kardeş İndirimi"); got != "KARDESINDIRIMI" {
		t.Errorf("Expected KARDESINDIRIMI, got %q", got)
	}
	if NormalizeKey("kardes-indirimi") != NormalizeKey("KARDEŞ İNDİRİMİ") {
		t.Errorf("Expected punctuation and case variants to share a key")
	}
}

func TestFirstDefined(t *testing.T) {
	calls := 0
	miss := func() (string, bool) { calls++; return "", false }
	hit := func() (string, bool) { calls++; return "label", true }
	never := func() (string, bool) { t.Errorf("accessor after a hit must not run"); return "", false }

	got, ok := FirstDefined(miss, hit, never)
	if !ok || got != "label" || calls != 2 {
		t.Errorf("Expected (label, true) after 2 calls, got (%q, %v) after %d", got, ok, calls)
	}
}
