package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.roll(expr) -> {total, dice, modifier}
//	engine.rules.classify(roll, value) -> level
//	engine.rules.thresholds(value) -> {value, half, fifth}
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "rules", rulesModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		res, err := m.roller.RollExpr(expr)
		if err != nil {
			L.RaiseError("engine.dice.roll(%q): %s", expr, err.Error())
			return 0
		}
		sum := res.Sum()
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(res.Total))
		L.SetField(t, "dice", lua.LNumber(sum))
		L.SetField(t, "modifier", lua.LNumber(res.Total-sum))
		L.Push(t)
		return 1
	}))
	return mod
}

func rulesModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "classify", L.NewFunction(func(L *lua.LState) int {
		roll := L.CheckInt(1)
		value := L.CheckInt(2)
		if roll < 1 || roll > 100 {
			L.ArgError(1, "roll must be in [1, 100]")
			return 0
		}
		L.Push(lua.LString(rules.Classify(roll, value)))
		return 1
	}))
	L.SetField(mod, "thresholds", L.NewFunction(func(L *lua.LState) int {
		th := rules.NewThresholds(L.CheckInt(1))
		t := L.NewTable()
		L.SetField(t, "value", lua.LNumber(th.Value))
		L.SetField(t, "half", lua.LNumber(th.Half))
		L.SetField(t, "fifth", lua.LNumber(th.Fifth))
		L.Push(t)
		return 1
	}))
	return mod
}
