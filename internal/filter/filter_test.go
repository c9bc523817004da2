package filter

import (
	"testing"

	"empgrid/internal/model"
)

func TestMatch(t *testing.T) {
	jane := model.Employee{ID: "1", Name: "Jane Smith", JobTitle: "Data Scientist", Age: 31, IsEmployee: true}
	john := model.Employee{ID: "2", Name: "John Brown", JobTitle: "HR Manager", Age: 55, Nickname: "Doc"}
	cases := []struct {
		name string
		c    Criteria
		want []bool
	}{
		{"empty", Criteria{}, []bool{true, true}},
		{"substring name", Criteria{Query: "jane"}, []bool{true, false}},
		{"substring spans name and title", Criteria{Query: "brown hr"}, []bool{false, true}},
		{"title", Criteria{Query: "Scientist"}, []bool{true, false}},
		{"nickname not searched", Criteria{Query: "doc"}, []bool{false, false}},
		{"expr", Criteria{Expr: "age > 40"}, []bool{false, true}},
		{"expr bool", Criteria{Expr: "isEmployee == true"}, []bool{true, false}},
		{"both", Criteria{Query: "j", Expr: "age < 40"}, []bool{true, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := NewEvaluator(tc.c)
			if err != nil {
				t.Fatalf("evaluator: %v", err)
			}
			for i, rec := range []model.Employee{jane, john} {
				if got := ev.Match(rec); got != tc.want[i] {
					t.Fatalf("record %s: got %v want %v", rec.ID, got, tc.want[i])
				}
			}
		})
	}
}

func TestBadExpr(t *testing.T) {
	if _, err := NewEvaluator(Criteria{Expr: "age >"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
