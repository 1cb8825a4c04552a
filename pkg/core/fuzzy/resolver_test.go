package fuzzy

import (
	"testing"

	"school_budget/pkg/models"
)

func TestScoreLevels(t *testing.T) {
	cases := []struct {
		label   string
		aliases []string
		want    int
	}{
		{"Servis", []string{"servis"}, ScoreExact},
		{"SERVİS ücreti", []string{"servis"}, ScorePrefix},
		{"Öğrenci Servis Ücreti", []string{"servis"}, ScoreWord},
		{"Okulservisleri", []string{"servis"}, ScoreSubstring},
		{"Kira", []string{"servis"}, 0},
		{"", []string{"servis"}, 0},
		{"Yemek (Öğle)", []string{"kitap", "yemek"}, ScoreExact},
	}
	for _, c := range cases {
		if got := Score(c.label, c.aliases); got != c.want {
			t.Errorf("Score(%q): expected %d, got %d", c.label, c.want, got)
		}
	}
}

func TestResolveTransportFromFreeText(t *testing.T) {
	rows := []models.Row{
		{"name": "Öğrenci Servis Ücreti", "studentCount": 40},
		{"name": "Kira Geliri", "amount": 1200},
	}
	if got := ResolveCount(rows, Transport); got != 40 {
		t.Errorf("Expected transport count 40, got %v", got)
	}
	if got := ResolveCount(rows, Meal); got != 0 {
		t.Errorf("Expected meal count 0 without a matching row, got %v", got)
	}
}

func TestBestPrefersHigherScoreThenRicherCount(t *testing.T) {
	rows := []models.Row{
		{"label": "Yemek ücreti 1. dönem", "count": 120},
		{"label": "Yemek", "count": 80},
		{"label": "yemek", "count": "95"},
	}
	m, ok := Best(rows, Meal)
	if !ok {
		t.Fatal("Expected a meal match")
	}
	if m.Score != ScoreExact {
		t.Errorf("Expected an exact match to beat a prefix match, got score %d", m.Score)
	}
	if m.Index != 2 || m.Count != 95 {
		t.Errorf("Expected the richer exact row (index 2, count 95), got index %d count %v", m.Index, m.Count)
	}
}

func TestAccessorOrder(t *testing.T) {
	row := models.Row{"title": "Kitap", "name": "  ", "quantity": "12", "students": nil, "unitCost": "1.250,50"}
	if got := LabelOf(row); got != "Kitap" {
		t.Errorf("Expected blank name to fall through to title, got %q", got)
	}
	if got, ok := CountOf(row); !ok || got != 12 {
		t.Errorf("Expected count 12 from quantity, got %v (%v)", got, ok)
	}
	if got, _ := UnitOf(row); got != 1250.5 {
		t.Errorf("Expected unit 1250.5, got %v", got)
	}
	if got := AmountOf(row); got != 15006 {
		t.Errorf("Expected amount unit×count = 15006, got %v", got)
	}
	if got := AmountOf(models.Row{"amount": 10, "unitFee": 5, "count": 3}); got != 10 {
		t.Errorf("Expected explicit amount to win, got %v", got)
	}
}

func TestResolveAllAndClassify(t *testing.T) {
	rows := []models.Row{
		{"name": "Uniforma", "count": 30, "unitFee": 50},
		{"name": "Kırtasiye ve Kitap", "count": 200, "unitFee": 90},
		{"name": "Yaz Okulu", "amount": 5000},
	}
	res := ResolveAll(rows)
	if res.Count(Uniform) != 30 || res.Unit(Uniform) != 50 {
		t.Errorf("Unexpected uniform resolution %+v", res[Uniform])
	}
	if res.Count(Book) != 200 {
		t.Errorf("Expected book count 200, got %v", res.Count(Book))
	}
	if res.Selected(2) {
		t.Errorf("Expected summer school row to stay unmatched")
	}
	if c, s := Classify("Okul Servisi"); c != Transport || s != ScoreExact {
		t.Errorf("Expected Transport/100, got %s/%d", c, s)
	}
	if _, s := Classify("Kantin"); s != ScoreExact {
		t.Errorf("Expected kantin to classify exactly, got %d", s)
	}
}
