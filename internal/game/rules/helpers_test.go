package rules_test

import (
	"errors"

	"github.com/cory-johannsen/keeper/internal/game/dice"
)

// scriptedEval returns queued totals per expression and a fixed Intn value.
// Expressions with no queued total fail, exercising fallback paths.
type scriptedEval struct {
	totals map[string][]int
	intn   int
	calls  []string
}

func newScriptedEval() *scriptedEval {
	return &scriptedEval{totals: make(map[string][]int)}
}

func (s *scriptedEval) push(expr string, totals ...int) *scriptedEval {
	s.totals[expr] = append(s.totals[expr], totals...)
	return s
}

func (s *scriptedEval) RollExpr(expr string) (dice.RollResult, error) {
	s.calls = append(s.calls, expr)
	q := s.totals[expr]
	if len(q) == 0 {
		return dice.RollResult{}, errors.New("scripted: no result for " + expr)
	}
	s.totals[expr] = q[1:]
	return dice.RollResult{Expression: expr, Total: q[0]}, nil
}

func (s *scriptedEval) Intn(n int) int {
	return s.intn % n
}

// queueSource returns queued face values (as Intn results, i.e. face-1).
type queueSource struct {
	faces []int
	next  int
}

func (q *queueSource) Intn(n int) int {
	f := q.faces[q.next%len(q.faces)]
	q.next++
	return (f - 1) % n
}
