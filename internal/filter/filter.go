package filter

import (
	"strings"

	"github.com/Knetic/govaluate"

	"empgrid/internal/model"
)

type Criteria struct {
	Query string // case-insensitive substring of name + job title
	Expr  string // govaluate expression over record fields
}

func (c Criteria) Empty() bool {
	return c.Query == "" && strings.TrimSpace(c.Expr) == ""
}

type Evaluator struct {
	query string
	expr  *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	ev := &Evaluator{query: strings.ToLower(c.Query)}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
		ev.expr = expr
	}
	return ev, nil
}

func (e *Evaluator) Match(rec model.Employee) bool {
	if e.query != "" {
		if !strings.Contains(strings.ToLower(rec.NameAndJob()), e.query) {
			return false
		}
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(rec.Params())
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}
