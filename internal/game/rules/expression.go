package rules

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DamageBonusVar is the placeholder name used by weapon damage templates.
const DamageBonusVar = "DB"

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolve substitutes every {NAME} placeholder in expr with vars[NAME] and
// removes additive zero terms ("+0", "0+", "-0") from the result.
//
// Placeholders missing from vars resolve to "0". Normalization is textual
// and only strips zero literals that stand alone in an additive position.
//
// Postcondition: the result contains no placeholders.
func Resolve(expr string, vars map[string]string) string {
	out := placeholderRe.ReplaceAllStringFunc(expr, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := vars[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return "0"
	})
	return Normalize(out)
}

// ResolveInts is Resolve for integer-valued variables.
func ResolveInts(expr string, vars map[string]int) string {
	sv := make(map[string]string, len(vars))
	for k, v := range vars {
		sv[k] = strconv.Itoa(v)
	}
	return Resolve(expr, sv)
}

// Normalize strips additive identities from a dice expression:
// "1d4+0" -> "1d4", "0+1d6" -> "1d6", "2d6-0" -> "2d6".
//
// Zeros that are multiplied or divided, or that are digits of a larger
// literal ("1d10", "d100"), are left alone. An expression that reduces to
// nothing becomes "0".
func Normalize(expr string) string {
	s := strings.Join(strings.Fields(expr), "")
	for {
		next, changed := stripZero(s)
		if !changed {
			break
		}
		s = next
	}
	if s == "" {
		return "0"
	}
	return s
}

// stripZero removes the first additive zero term found in s.
func stripZero(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' || (i > 0 && isAtomChar(s[i-1])) {
			continue
		}
		j := i
		for j < len(s) && s[j] == '0' {
			j++
		}
		if j < len(s) && (isAtomChar(s[j]) || s[j] == '(') {
			continue // part of a larger literal or a pool
		}
		var after byte
		if j < len(s) {
			after = s[j]
		}

		// "+0" / "-0" followed by end, ")" or another additive operator.
		if i > 0 && (s[i-1] == '+' || s[i-1] == '-') && (after == 0 || after == '+' || after == '-' || after == ')') {
			k := i - 1
			if k == 0 || s[k-1] == '(' {
				// Leading signed zero: drop it and any '+' that now leads.
				rest := s[j:]
				if strings.HasPrefix(rest, "+") {
					rest = rest[1:]
				}
				return s[:k] + rest, true
			}
			if s[k-1] != '*' && s[k-1] != '/' {
				return s[:k] + s[j:], true
			}
			continue
		}

		// "0+" at the start of the expression or a group.
		if (i == 0 || s[i-1] == '(') && after == '+' {
			return s[:i] + s[j+1:], true
		}
	}
	return s, false
}

func isAtomChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '%'
}

// DamageRollResult records a damage roll for auditing.
//
// Invariant: Input, Resolved and Value are always all populated.
type DamageRollResult struct {
	Input    string `json:"input"`    // template as authored, e.g. "1d4+{DB}"
	Resolved string `json:"resolved"` // fully substituted expression
	Value    int    `json:"value"`    // evaluated total
}

// ExpressionResolver substitutes placeholders into expressions authored in
// catalogs and evaluates them through the expression service.
type ExpressionResolver struct {
	eval   Evaluator
	logger *zap.Logger
}

// NewExpressionResolver creates an ExpressionResolver.
//
// Precondition: eval and logger must be non-nil.
func NewExpressionResolver(eval Evaluator, logger *zap.Logger) *ExpressionResolver {
	return &ExpressionResolver{eval: eval, logger: logger}
}

// Roll resolves template with vars and evaluates it.
//
// A malformed template never fails the caller: the error is logged and the
// value falls back to 0.
func (r *ExpressionResolver) Roll(template string, vars map[string]string) DamageRollResult {
	resolved := Resolve(template, vars)
	value := 0
	res, err := r.eval.RollExpr(resolved)
	if err != nil {
		r.logger.Warn("expression evaluation failed, using zero",
			zap.String("input", template),
			zap.String("resolved", resolved),
			zap.Error(err),
		)
	} else {
		value = res.Total
	}
	return DamageRollResult{Input: template, Resolved: resolved, Value: value}
}
