// Package keys is the scoped key-binding registry behind every page footer
// and the hotkeys page. Lookups fall back to the global scope.
package keys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// Override replaces the keys of one action within one scope.
type Override struct {
	Scope  string
	Action string
	Keys   []string
}

type Registry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
	scopeOrder      []string
}

const (
	ScopeGlobal   = "global"
	ScopeHome     = "home"
	ScopeList     = "list"
	ScopeSearch   = "search"
	ScopeForm     = "form"
	ScopeConfirm  = "confirm"
	ScopeSettings = "settings"
	ScopeHotkeys  = "hotkeys"
)

const (
	ActionQuit          Action = "quit"
	ActionBack          Action = "back"
	ActionNavigate      Action = "navigate"
	ActionUp            Action = "up"
	ActionDown          Action = "down"
	ActionSelect        Action = "select"
	ActionOpenInjury    Action = "open_injury"
	ActionOpenExaminer  Action = "open_examiner"
	ActionOpenSettings  Action = "open_settings"
	ActionOpenEvidence  Action = "open_evidence"
	ActionOpenHotkeys   Action = "open_hotkeys"
	ActionSearch        Action = "search"
	ActionReset         Action = "reset"
	ActionAdd           Action = "add"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionReveal        Action = "reveal"
	ActionToggleStatus  Action = "toggle_status"
	ActionNextPage      Action = "next_page"
	ActionPrevPage      Action = "prev_page"
	ActionPageSize      Action = "page_size"
	ActionConfirm       Action = "confirm"
	ActionCancel        Action = "cancel"
	ActionNextField     Action = "next_field"
	ActionPrevField     Action = "prev_field"
	ActionSubmit        Action = "submit"
	ActionLatency       Action = "latency"
	ActionSaveConfig    Action = "save_config"
	ActionRestoreRoster Action = "restore_roster"
)

func NewRegistry() *Registry {
	r := &Registry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(ScopeGlobal, ActionQuit, []string{"ctrl+c"}, "quit")

	reg(ScopeHome, ActionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(ScopeHome, ActionSelect, []string{"enter"}, "open")
	reg(ScopeHome, ActionOpenInjury, []string{"1"}, "injuries")
	reg(ScopeHome, ActionOpenExaminer, []string{"2"}, "examiners")
	reg(ScopeHome, ActionOpenSettings, []string{"3"}, "settings")
	reg(ScopeHome, ActionOpenEvidence, []string{"4"}, "evidence")
	reg(ScopeHome, ActionOpenHotkeys, []string{"5"}, "hotkeys")
	reg(ScopeHome, ActionQuit, []string{"q"}, "quit")

	reg(ScopeList, ActionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(ScopeList, ActionSearch, []string{"/"}, "search")
	reg(ScopeList, ActionReset, []string{"ctrl+r"}, "reset")
	reg(ScopeList, ActionAdd, []string{"a"}, "add")
	reg(ScopeList, ActionEdit, []string{"e", "enter"}, "edit")
	reg(ScopeList, ActionDelete, []string{"d"}, "delete")
	reg(ScopeList, ActionReveal, []string{"v"}, "reveal")
	reg(ScopeList, ActionToggleStatus, []string{"s"}, "status")
	reg(ScopeList, ActionNextPage, []string{"l", "right", "pgdown"}, "next page")
	reg(ScopeList, ActionPrevPage, []string{"h", "left", "pgup"}, "prev page")
	reg(ScopeList, ActionPageSize, []string{"p"}, "page size")
	reg(ScopeList, ActionBack, []string{"esc", "b"}, "back")

	reg(ScopeSearch, ActionConfirm, []string{"enter"}, "search")
	reg(ScopeSearch, ActionReset, []string{"ctrl+r"}, "reset")
	reg(ScopeSearch, ActionCancel, []string{"esc"}, "close")

	reg(ScopeForm, ActionNextField, []string{"tab", "down"}, "next field")
	reg(ScopeForm, ActionPrevField, []string{"shift+tab", "up"}, "prev field")
	reg(ScopeForm, ActionSubmit, []string{"enter"}, "submit")
	reg(ScopeForm, ActionCancel, []string{"esc"}, "cancel")

	reg(ScopeConfirm, ActionConfirm, []string{"y", "enter"}, "confirm")
	reg(ScopeConfirm, ActionCancel, []string{"n", "esc"}, "cancel")

	reg(ScopeSettings, ActionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(ScopeSettings, ActionLatency, []string{"+/-", "+", "=", "-"}, "latency")
	reg(ScopeSettings, ActionPageSize, []string{"p"}, "page size")
	reg(ScopeSettings, ActionSaveConfig, []string{"w"}, "save config")
	reg(ScopeSettings, ActionRestoreRoster, []string{"r"}, "restore roster")
	reg(ScopeSettings, ActionBack, []string{"esc", "b"}, "back")

	reg(ScopeHotkeys, ActionNavigate, []string{"j/k", "j", "k", "up", "down"}, "scroll")
	reg(ScopeHotkeys, ActionBack, []string{"esc", "b"}, "back")

	return r
}

func (r *Registry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.bindingsByScope[scope]; !ok {
			r.bindingsByScope[scope] = nil
			r.scopeOrder = append(r.scopeOrder, scope)
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 {
			continue
		}
		if r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

// Scopes lists scopes in registration order.
func (r *Registry) Scopes() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.scopeOrder...)
}

func (r *Registry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup finds the binding for keyName in scope, then in the global scope.
func (r *Registry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != ScopeGlobal {
		if b := r.lookupInScope(keyName, ScopeGlobal); b != nil {
			return b
		}
	}
	return nil
}

// ActionFor is Lookup reduced to the action name; "" when unbound.
func (r *Registry) ActionFor(keyName, scope string) Action {
	if b := r.Lookup(keyName, scope); b != nil {
		return b.Action
	}
	return ""
}

func (r *Registry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		helpKey := b.Keys[0]
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey, b.Help)))
	}
	return out
}

func (r *Registry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *Registry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so uppercase/lowercase bindings
			// can be distinct actions within the same scope.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

// ApplyOverrides rebinds actions from user configuration. Unknown scopes or
// actions, duplicated entries and key conflicts within a scope are errors.
func (r *Registry) ApplyOverrides(items []Override) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("keybinding override: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("keybinding override scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("keybinding override scope=%q action=%q: keys are required", scope, action)
		}

		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("keybinding override scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("keybinding override scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("keybinding override scope=%q action=%q: duplicated override entry", scope, action)
		}
		seenPair[p] = true
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("keybinding override conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

// Export lists every binding as an override entry, sorted by scope and action.
func (r *Registry) Export() []Override {
	if r == nil {
		return nil
	}
	var out []Override
	for scope, bindings := range r.bindingsByScope {
		for _, b := range bindings {
			out = append(out, Override{
				Scope:  scope,
				Action: string(b.Action),
				Keys:   append([]string(nil), b.Keys...),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Action < out[j].Action
	})
	return out
}

func (r *Registry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}
