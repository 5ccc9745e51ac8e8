package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/game/combat"
	"github.com/cory-johannsen/keeper/internal/game/dice"
	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// Hook names a Lua script may define.
const (
	HookSkillCheck  = "on_skill_check"
	HookAttack      = "on_attack"
	HookImprovement = "on_improvement"
)

// Manager owns one sandboxed house-rules VM and dispatches hooks into it.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
// Until Load succeeds every hook is a no-op.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{roller: roller, logger: logger}
}

// Load creates a fresh sandboxed VM, registers all engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. A previously
// loaded VM is replaced only when the new one loads cleanly.
//
// instLimit bounds the opcodes of each file and of each hook call; 0 uses
// DefaultInstructionLimit.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns error on read or Lua load failure and keeps the old VM.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel := ResetInstructionBudget(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	old := m.state
	m.state = L
	m.instLimit = instLimit
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	m.logger.Info("house rules loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Loaded reports whether a VM is active.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// Close releases the VM. Further hook calls are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// CallHook calls the named Lua global function with a fresh instruction
// budget. Returns (LNil, nil) when no VM is loaded or the hook is not
// defined. Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.state
	if L == nil {
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := ResetInstructionBudget(L, m.instLimit)
	defer cancel()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// OnSkillCheck calls on_skill_check(skill, value, roll, level).
func (m *Manager) OnSkillCheck(skill string, value int, res rules.TestResult) {
	_, _ = m.CallHook(HookSkillCheck,
		lua.LString(skill),
		lua.LNumber(value),
		lua.LNumber(res.Roll),
		lua.LString(res.Success),
	)
}

// OnAttack calls on_attack(weapon, level, damage, impaled).
func (m *Manager) OnAttack(skill string, res combat.AttackResult) {
	weapon := ""
	if res.Weapon != nil {
		weapon = res.Weapon.ID
	}
	_, _ = m.CallHook(HookAttack,
		lua.LString(weapon),
		lua.LString(res.Test.Success),
		lua.LNumber(res.DamageValue()),
		lua.LBool(res.Impaled),
	)
}

// OnImprovement calls on_improvement(skill, before, after).
func (m *Manager) OnImprovement(res rules.ImprovementResult) {
	_, _ = m.CallHook(HookImprovement,
		lua.LString(res.Name),
		lua.LNumber(res.Before),
		lua.LNumber(res.After),
	)
}
