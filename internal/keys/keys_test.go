package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func emptyRegistry() *Registry {
	return &Registry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
}

func TestLookupByScope(t *testing.T) {
	r := NewRegistry()

	search := r.Lookup("/", ScopeList)
	require.NotNil(t, search)
	require.Equal(t, ActionSearch, search.Action)

	require.Nil(t, r.Lookup("/", ScopeHome), "search is a list page key")

	quit := r.Lookup("ctrl+c", ScopeList)
	require.NotNil(t, quit, "global bindings are reachable from every scope")
	require.Equal(t, ActionQuit, quit.Action)

	require.Equal(t, ActionOpenExaminer, r.ActionFor("2", ScopeHome))
	require.Equal(t, Action(""), r.ActionFor("2", ScopeList))
}

func TestRegisterSkipsDuplicateKeyInScope(t *testing.T) {
	r := emptyRegistry()
	r.Register(Binding{Action: ActionAdd, Keys: []string{"x"}, Help: "first", Scopes: []string{"scope_a"}})
	r.Register(Binding{Action: ActionEdit, Keys: []string{"x"}, Help: "duplicate", Scopes: []string{"scope_a"}})
	r.Register(Binding{Action: ActionEdit, Keys: []string{"x"}, Help: "other scope", Scopes: []string{"scope_b"}})

	a := r.BindingsForScope("scope_a")
	require.Len(t, a, 1)
	require.Equal(t, ActionAdd, a[0].Action)

	b := r.BindingsForScope("scope_b")
	require.Len(t, b, 1)
	require.Equal(t, ActionEdit, b[0].Action)
	require.Equal(t, []string{"scope_a", "scope_b"}, r.Scopes())
}

func TestHelpBindingsUseFirstKey(t *testing.T) {
	r := emptyRegistry()
	r.Register(Binding{Action: ActionNavigate, Keys: []string{"j/k", "j", "k"}, Help: "navigate", Scopes: []string{"scope_help"}})

	help := r.HelpBindings("scope_help")
	require.Len(t, help, 1)
	require.Equal(t, "j/k", help[0].Help().Key)
	require.Equal(t, "navigate", help[0].Help().Desc)
}

func TestNormalizeKeyName(t *testing.T) {
	require.Equal(t, "ctrl+r", normalizeKeyName("Control+R"))
	require.Equal(t, "enter", normalizeKeyName("Return"))
	require.Equal(t, "space", normalizeKeyName(" "))
	require.Equal(t, "D", normalizeKeyName("D"))
	require.Equal(t, "", normalizeKeyName("   "))
}

func TestApplyOverrides(t *testing.T) {
	r := NewRegistry()
	err := r.ApplyOverrides([]Override{{Scope: ScopeList, Action: string(ActionDelete), Keys: []string{"x", "Delete"}}})
	require.NoError(t, err)

	require.Equal(t, ActionDelete, r.ActionFor("x", ScopeList))
	require.Equal(t, ActionDelete, r.ActionFor("delete", ScopeList))
	require.Nil(t, r.Lookup("d", ScopeList), "old key is released")
}

func TestApplyOverridesErrors(t *testing.T) {
	cases := map[string][]Override{
		"missing scope":   {{Action: "add", Keys: []string{"x"}}},
		"missing action":  {{Scope: ScopeList, Keys: []string{"x"}}},
		"missing keys":    {{Scope: ScopeList, Action: "add"}},
		"unknown scope":   {{Scope: "nowhere", Action: "add", Keys: []string{"x"}}},
		"unknown action":  {{Scope: ScopeList, Action: "fly", Keys: []string{"x"}}},
		"duplicate entry": {{Scope: ScopeList, Action: "add", Keys: []string{"x"}}, {Scope: ScopeList, Action: "add", Keys: []string{"y"}}},
		"conflict":        {{Scope: ScopeList, Action: "add", Keys: []string{"d"}}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, NewRegistry().ApplyOverrides(items))
		})
	}
}

func TestExportSorted(t *testing.T) {
	out := NewRegistry().Export()
	require.NotEmpty(t, out)
	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		require.True(t, prev.Scope < cur.Scope || (prev.Scope == cur.Scope && prev.Action <= cur.Action))
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	require.Nil(t, r.Lookup("q", ScopeHome))
	require.Nil(t, r.Scopes())
	require.NoError(t, r.ApplyOverrides([]Override{{Scope: "x"}}))
}
