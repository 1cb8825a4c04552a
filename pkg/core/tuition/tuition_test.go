package tuition

import (
	"encoding/json"
	"math"
	"testing"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/kademe"
	"school_budget/pkg/models"
)

func input(key string, fee float64, count ...float64) models.TuitionInput {
	in := models.TuitionInput{Key: calc.Text(key), UnitFee: calc.Num(fee)}
	if len(count) > 0 {
		in.StudentCount = calc.Some(count[0])
	}
	return in
}

func baseInputs() Inputs {
	return Inputs{
		Rows: []models.TuitionInput{
			input("okulOncesi", 3000, 20),
			input("ilkokul", 4000, 100),
			input("ortaokul", 5000, 80),
			input("lise", 6000, 0),
		},
		Tiers: kademe.Normalize(nil),
		Fees:  Fees{Uniform: 100, Book: 50, Transport: 300, Meal: 400},
	}
}

func TestBuildTotalsAreColumnSums(t *testing.T) {
	table := Build(baseInputs())

	if len(table.Rows) != 4 {
		t.Fatalf("Expected 4 tier rows, got %d", len(table.Rows))
	}
	var sum float64
	for _, r := range table.Rows {
		sum += r.EduFee
	}
	if table.Total.EduFee != sum {
		t.Errorf("Expected total eduFee %f to equal the plain column sum %f", table.Total.EduFee, sum)
	}
	if table.Total.EduFee != 18000 {
		t.Errorf("Expected total eduFee 18000, got %f", table.Total.EduFee)
	}
	if table.Total.MealFee != 1600 || table.Total.StudentCount != 200 {
		t.Errorf("Unexpected total row %+v", table.Total)
	}
	if table.Total.RaisePct != nil {
		t.Errorf("Expected total row to carry no raise percentage")
	}
	if len(table.All()) != 6 {
		t.Errorf("Expected tier rows plus total and average, got %d rows", len(table.All()))
	}
}

func TestAverageIsStudentWeighted(t *testing.T) {
	table := Build(baseInputs())

	// (3000×20 + 4000×100 + 5000×80 + 6000×0) / 200 = 4300
	if math.Abs(table.Average.EduFee-4300) > 1e-9 {
		t.Errorf("Expected weighted average 4300, got %f", table.Average.EduFee)
	}
	if table.Average.MealFee != 400 || table.Average.UniformFee != 100 {
		t.Errorf("Expected ancillary constants on the average row, got %+v", table.Average)
	}
	if math.Abs(table.Average.Total-(4300+850)) > 1e-9 {
		t.Errorf("Expected average total 5150, got %f", table.Average.Total)
	}
	if table.AverageTuition != table.Average.EduFee {
		t.Errorf("Expected AverageTuition to mirror the average row")
	}
	if table.GrossTuition != 860000 {
		t.Errorf("Expected gross tuition 860000, got %f", table.GrossTuition)
	}
}

func TestAverageFallsBackToPlainMean(t *testing.T) {
	in := baseInputs()
	in.Rows = []models.TuitionInput{input("ilkokul", 4000, 0), input("lise", 6000, 0)}
	table := Build(in)
	if table.Average.EduFee != 5000 {
		t.Errorf("Expected unweighted mean 5000, got %f", table.Average.EduFee)
	}
}

func TestRaiseConversionAndVisibility(t *testing.T) {
	in := baseInputs()
	in.Rows = []models.TuitionInput{
		input("ilkokul", 40000, 10),
		input("ilkokul-int", 80000, 5),
		input("ortaokul", 50000, 10),
		input("universite", 1, 1),
	}
	in.ProgramType = "local"
	in.FeeIncreases = map[string]calc.Num{"ILKOKUL": 10, "ortaokul": -5}
	in.Convert = func(v float64) float64 { return v / 10 }
	in.Tiers = kademe.Normalize(map[string]models.RawKademe{"lise": {Enabled: calc.Flag{Set: true}}})

	table := Build(in)
	if len(table.Rows) != 2 {
		t.Fatalf("Expected the int variant and unknown tier to be hidden, got %d rows", len(table.Rows))
	}
	if math.Abs(table.Rows[0].EduFee-4400) > 1e-9 {
		t.Errorf("Expected 4000 × 1.10 = 4400, got %f", table.Rows[0].EduFee)
	}
	if table.Rows[1].EduFee != 5000 || *table.Rows[1].RaisePct != 0 {
		t.Errorf("Expected negative raise to clamp to 0, got %+v", table.Rows[1])
	}
	if table.Rows[0].Level != "İlkokul" {
		t.Errorf("Expected catalog label fallback, got %q", table.Rows[0].Level)
	}
}

func TestDisabledTierAndGradeDerivedCounts(t *testing.T) {
	in := baseInputs()
	in.Rows = []models.TuitionInput{input("ilkokul", 4000), input("ortaokul", 5000), input("lise", 6000)}
	in.Tiers = kademe.Normalize(map[string]models.RawKademe{"lise": {Enabled: calc.Flag{Set: true, Value: false}}})
	in.Grades = []models.GradeRow{
		{Grade: "1", BranchCount: 2, StudentsPerBranch: 20},
		{Grade: "4", BranchCount: 1, StudentsPerBranch: 25},
		{Grade: "7", BranchCount: 3, StudentsPerBranch: 10},
		{Grade: "11", BranchCount: 5, StudentsPerBranch: 30},
		{Grade: "bogus", BranchCount: 9, StudentsPerBranch: 9},
	}

	table := Build(in)
	if len(table.Rows) != 2 {
		t.Fatalf("Expected lise to be excluded, got %d rows", len(table.Rows))
	}
	if table.Rows[0].StudentCount != 65 || table.Rows[1].StudentCount != 30 {
		t.Errorf("Expected grade-derived counts 65 and 30, got %d and %d", table.Rows[0].StudentCount, table.Rows[1].StudentCount)
	}
	if table.TotalStudents != 95 {
		t.Errorf("Expected 95 students, got %d", table.TotalStudents)
	}
}

func TestEmptyTable(t *testing.T) {
	table := Build(Inputs{Tiers: kademe.Normalize(nil)})
	if table.Average.EduFee != 0 || table.Total.EduFee != 0 || table.TotalStudents != 0 {
		t.Errorf("Expected zeroed synthetic rows, got %+v / %+v", table.Total, table.Average)
	}
}

func TestTurkishThousandsInFeeText(t *testing.T) {
	var row models.TuitionInput
	if err := json.Unmarshal([]byte(`{"key":"ilkokul","unitFee":"10.000","studentCount":"10"}`), &row); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	table := Build(Inputs{Rows: []models.TuitionInput{row}, Tiers: kademe.Normalize(nil)})

	if len(table.Rows) != 1 || table.Rows[0].EduFee != 10000 {
		t.Fatalf("Expected eduFee 10000, got %+v", table.Rows)
	}
	if table.GrossTuition != 100000 {
		t.Errorf("Expected gross tuition 100000, got %f", table.GrossTuition)
	}
}

func TestMoneyColumnsSumInDecimal(t *testing.T) {
	table := Build(Inputs{
		Rows:  []models.TuitionInput{input("okulOncesi", 0.1, 1), input("ilkokul", 0.2, 1)},
		Tiers: kademe.Normalize(nil),
	})
	if table.Total.EduFee != 0.3 {
		t.Errorf("Expected total eduFee 0.3, got %v", table.Total.EduFee)
	}
	if table.GrossTuition != 0.3 {
		t.Errorf("Expected gross tuition 0.3, got %v", table.GrossTuition)
	}
}
