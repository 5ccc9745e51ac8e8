package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// tier orders successes for monotonicity checks; non-successes share the bottom.
func tier(l rules.SuccessLevel) int {
	switch l {
	case rules.Critical:
		return 4
	case rules.Extreme:
		return 3
	case rules.Hard:
		return 2
	case rules.Regular:
		return 1
	default:
		return 0
	}
}

func TestNewThresholds(t *testing.T) {
	assert.Equal(t, rules.Thresholds{Value: 70, Half: 35, Fifth: 14}, rules.NewThresholds(70))
	assert.Equal(t, rules.Thresholds{Value: 0, Half: 0, Fifth: 0}, rules.NewThresholds(0))
	assert.Equal(t, rules.Thresholds{Value: 49, Half: 24, Fifth: 9}, rules.NewThresholds(49))
}

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		roll, value int
		want        rules.SuccessLevel
	}{
		{1, 10, rules.Critical},
		{1, 0, rules.Critical},
		{100, 80, rules.Fumble},
		{100, 100, rules.Fumble},
		{96, 40, rules.Fumble},
		{99, 49, rules.Fumble},
		{96, 50, rules.Failure},
		{97, 98, rules.Regular},
		{12, 50, rules.Hard},
		{14, 70, rules.Extreme},
		{15, 70, rules.Hard},
		{35, 70, rules.Hard},
		{36, 70, rules.Regular},
		{70, 70, rules.Regular},
		{71, 70, rules.Failure},
		{2, 0, rules.Failure},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rules.Classify(c.roll, c.value), "roll=%d value=%d", c.roll, c.value)
	}
}

func TestClassify_RollOneAlwaysCritical_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 150).Draw(rt, "value")
		assert.Equal(rt, rules.Critical, rules.Classify(1, v))
	})
}

func TestClassify_Fumbles_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 150).Draw(rt, "value")
		assert.Equal(rt, rules.Fumble, rules.Classify(100, v))

		roll := rapid.IntRange(96, 99).Draw(rt, "roll")
		got := rules.Classify(roll, v)
		if v < 50 {
			assert.Equal(rt, rules.Fumble, got)
		} else {
			assert.NotEqual(rt, rules.Fumble, got)
			assert.Equal(rt, roll <= v, got.IsSuccess())
		}
	})
}

// TestClassify_Monotonic_Property verifies success tier never rises as the
// roll increases, outside the roll==1 and 96-100 special cases.
func TestClassify_Monotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 120).Draw(rt, "value")
		a := rapid.IntRange(2, 95).Draw(rt, "a")
		b := rapid.IntRange(a, 95).Draw(rt, "b")
		assert.GreaterOrEqual(rt, tier(rules.Classify(a, v)), tier(rules.Classify(b, v)))
	})
}

func TestSuccessLevel_IsSuccess(t *testing.T) {
	assert.False(t, rules.Fumble.IsSuccess())
	assert.False(t, rules.Failure.IsSuccess())
	for _, l := range []rules.SuccessLevel{rules.Regular, rules.Hard, rules.Extreme, rules.Critical} {
		assert.True(t, l.IsSuccess(), l.String())
	}
}
