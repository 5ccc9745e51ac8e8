package dice

import (
	"fmt"
	"sort"
)

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: result.Dice holds every kept die in evaluation order and
// result.Total is the integer value of the expression.
func Roll(expr Expression, src Source) (RollResult, error) {
	if expr.root == nil {
		return RollResult{}, fmt.Errorf("dice: expression %q was not parsed", expr.Raw)
	}
	kept := make([]int, 0, 4)
	total, err := expr.root.eval(src, &kept)
	if err != nil {
		return RollResult{}, fmt.Errorf("dice: rolling %q: %w", expr.Raw, err)
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Total:      total,
	}, nil
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: expr must be a valid dice expression string; src must be non-nil.
// Postcondition: Returns a RollResult or a parse/roll error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

func (l literal) eval(Source, *[]int) (int, error) { return int(l), nil }

func (n negate) eval(src Source, kept *[]int) (int, error) {
	v, err := n.operand.eval(src, kept)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (b binary) eval(src Source, kept *[]int) (int, error) {
	l, err := b.left.eval(src, kept)
	if err != nil {
		return 0, err
	}
	r, err := b.right.eval(src, kept)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivideByZero
		}
		return l / r, nil
	default:
		return 0, fmt.Errorf("dice: unknown operator %q", b.op)
	}
}

func (p pool) eval(src Source, kept *[]int) (int, error) {
	rolled := make([]int, p.count)
	for i := range rolled {
		rolled[i] = src.Intn(p.sides) + 1
	}

	selected := rolled
	if p.mode != KeepAll {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		switch p.mode {
		case KeepHighest:
			selected = sorted[:p.n]
		case KeepLowest:
			selected = sorted[len(sorted)-p.n:]
		case DropHighest:
			selected = sorted[p.n:]
		case DropLowest:
			selected = sorted[:len(sorted)-p.n]
		}
	}

	total := 0
	for _, d := range selected {
		total += d
	}
	*kept = append(*kept, selected...)
	return total, nil
}
