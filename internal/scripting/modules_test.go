package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/keeper/internal/game/dice"
	"github.com/cory-johannsen/keeper/internal/game/rules"
	"github.com/cory-johannsen/keeper/internal/scripting"
)

func runScript(t testing.TB, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	require.NoError(t, mgr.Load(dir, 0))
	ret, err := mgr.CallHook(hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	levels := map[string]string{}
	for _, e := range logs.FilterField(zap.String("source", "lua")).All() {
		levels[e.Level.String()] = e.Message
	}
	assert.Equal(t, map[string]string{"debug": "d", "info": "i", "warn": "w", "error": "e"}, levels)
}

func TestEngineDice_Roll_ReturnsTable(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function do_roll()
			local r = engine.dice.roll("1d6")
			if type(r.dice) ~= "number" then error("dice field missing") end
			return r.total
		end
	`, "do_roll")
	n, ok := ret.(lua.LNumber)
	require.True(t, ok, "expected LNumber, got %T", ret)
	assert.GreaterOrEqual(t, int(n), 1)
	assert.LessOrEqual(t, int(n), 6)
}

func TestEngineDice_Roll_InvalidExpression_WarnsAndReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret := runScript(t, mgr, `
		function bad_roll() return engine.dice.roll("2d") end
	`, "bad_roll")
	assert.Equal(t, lua.LNil, ret)
	assert.NotZero(t, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestProperty_DiceRoll_TotalEqualsDicePlusModifier(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "inv.lua", `
		function check_invariant(expr)
			local r = engine.dice.roll(expr)
			return r.total == r.dice + r.modifier
		end
	`), 0))
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.SampledFrom([]string{"1d6", "2d6+3", "1d4-1", "1d8+1d4", "5"}).Draw(rt, "expr")
		ret, err := mgr.CallHook("check_invariant", lua.LString(expr))
		require.NoError(rt, err)
		assert.Equal(rt, lua.LTrue, ret, "total must equal dice + modifier for expr %s", expr)
	})
}

func TestEngineRules_Classify(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "classify.lua", `
		function classify(roll, value) return engine.rules.classify(roll, value) end
	`), 0))
	cases := []struct {
		roll, value int
		want        rules.SuccessLevel
	}{
		{1, 0, rules.Critical},
		{10, 50, rules.Extreme},
		{25, 50, rules.Hard},
		{50, 50, rules.Regular},
		{51, 50, rules.Failure},
		{97, 40, rules.Fumble},
		{100, 90, rules.Fumble},
	}
	for _, tc := range cases {
		ret, err := mgr.CallHook("classify", lua.LNumber(tc.roll), lua.LNumber(tc.value))
		require.NoError(t, err)
		assert.Equal(t, lua.LString(tc.want), ret, "roll=%d value=%d", tc.roll, tc.value)
	}
}

func TestEngineRules_Classify_RollOutOfRange_ReturnsNil(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function classify_zero() return engine.rules.classify(0, 50) end
	`, "classify_zero")
	assert.Equal(t, lua.LNil, ret)
}

func TestEngineRules_Thresholds(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function th()
			local t = engine.rules.thresholds(63)
			return t.value .. "/" .. t.half .. "/" .. t.fifth
		end
	`, "th")
	assert.Equal(t, lua.LString("63/31/12"), ret)
}

func TestProperty_ClassifyMatchesGo(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "classify.lua", `
		function classify(roll, value) return engine.rules.classify(roll, value) end
	`), 0))
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(1, 100).Draw(rt, "roll")
		value := rapid.IntRange(0, 120).Draw(rt, "value")
		ret, err := mgr.CallHook("classify", lua.LNumber(roll), lua.LNumber(value))
		require.NoError(rt, err)
		assert.Equal(rt, lua.LString(rules.Classify(roll, value)), ret)
	})
}
