// Package forms renders the modal create/edit forms: text and choice fields
// with per-field validation rules and inline error messages.
package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/forensicdesk/internal/keys"
)

type Kind int

const (
	KindText Kind = iota
	KindChoice
)

// Event is what a key press meant to the form as a whole.
type Event int

const (
	EventNone Event = iota
	EventSubmit
	EventCancel
)

type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Options []string
	Rules   []Rule

	input  textinput.Model
	choice int
	err    string
}

func Text(name, label, placeholder string, rules ...Rule) *Field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 32
	return &Field{Name: name, Label: label, Kind: KindText, Rules: rules, input: ti, choice: -1}
}

// Choice starts unset; left and right cycle through options.
func Choice(name, label string, options []string, rules ...Rule) *Field {
	return &Field{Name: name, Label: label, Kind: KindChoice, Options: options, Rules: rules, choice: -1}
}

func (f *Field) Value() string {
	if f.Kind == KindChoice {
		if f.choice < 0 || f.choice >= len(f.Options) {
			return ""
		}
		return f.Options[f.choice]
	}
	return f.input.Value()
}

func (f *Field) SetValue(v string) {
	if f.Kind == KindChoice {
		f.choice = -1
		for i, o := range f.Options {
			if o == v {
				f.choice = i
			}
		}
		return
	}
	f.input.SetValue(v)
}

func (f *Field) Err() string { return f.err }

func (f *Field) validate() string {
	f.err = ""
	v := f.Value()
	for _, rule := range f.Rules {
		if msg := rule(v); msg != "" {
			f.err = msg
			break
		}
	}
	return f.err
}

func (f *Field) cycle(delta int) {
	n := len(f.Options)
	if n == 0 {
		return
	}
	if f.choice < 0 {
		if delta > 0 {
			f.choice = 0
		} else {
			f.choice = n - 1
		}
		return
	}
	f.choice = (f.choice + delta + n) % n
}

type Form struct {
	Title  string
	keys   *keys.Registry
	fields []*Field
	focus  int
}

var (
	labelStyle   = lipgloss.NewStyle().Width(14)
	focusStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	choiceActive = lipgloss.NewStyle().Underline(true)
)

func New(title string, reg *keys.Registry, fields ...*Field) *Form {
	f := &Form{Title: title, keys: reg, fields: fields}
	f.focusField(0)
	return f
}

func (f *Form) Field(name string) *Field {
	for _, fld := range f.fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Name
}

// Validate runs every field's rules and returns the first failing message
// per field name. An empty map means the form can be submitted.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)
	for _, fld := range f.fields {
		if msg := fld.validate(); msg != "" {
			errs[fld.Name] = msg
		}
	}
	return errs
}

func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.Name] = strings.TrimSpace(fld.Value())
	}
	return out
}

// SetValues fills the named fields; unknown names are ignored.
func (f *Form) SetValues(values map[string]string) {
	for name, v := range values {
		if fld := f.Field(name); fld != nil {
			fld.SetValue(v)
		}
	}
}

func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.input.Reset()
		fld.choice = -1
		fld.err = ""
	}
	f.focusField(0)
}

func (f *Form) Update(msg tea.Msg) (Event, tea.Cmd) {
	if len(f.fields) == 0 {
		return EventNone, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return EventNone, f.forward(msg)
	}
	cur := f.fields[f.focus]
	switch f.keys.ActionFor(km.String(), keys.ScopeForm) {
	case keys.ActionNextField:
		return EventNone, f.focusField((f.focus + 1) % len(f.fields))
	case keys.ActionPrevField:
		return EventNone, f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
	case keys.ActionSubmit:
		if len(f.Validate()) > 0 {
			return EventNone, nil
		}
		return EventSubmit, nil
	case keys.ActionCancel:
		return EventCancel, nil
	}
	if cur.Kind == KindChoice {
		switch km.String() {
		case "left", "h":
			cur.cycle(-1)
		case "right", "l", " ", "space":
			cur.cycle(1)
		}
		cur.err = ""
		return EventNone, nil
	}
	cmd := f.forward(msg)
	cur.err = ""
	return EventNone, cmd
}

func (f *Form) forward(msg tea.Msg) tea.Cmd {
	cur := f.fields[f.focus]
	if cur.Kind != KindText {
		return nil
	}
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	return cmd
}

func (f *Form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for _, fld := range f.fields {
		fld.input.Blur()
	}
	f.focus = i
	if cur := f.fields[i]; cur.Kind == KindText {
		return cur.input.Focus()
	}
	return nil
}

func (f *Form) View() string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(focusStyle.Render(f.Title))
		b.WriteString("\n\n")
	}
	for i, fld := range f.fields {
		marker := "  "
		label := labelStyle.Render(fld.Label)
		if i == f.focus {
			marker = "> "
			label = focusStyle.Inherit(labelStyle).Render(fld.Label)
		}
		b.WriteString(marker)
		b.WriteString(label)
		if fld.Kind == KindChoice {
			b.WriteString(renderChoice(fld))
		} else {
			b.WriteString(fld.input.View())
		}
		b.WriteString("\n")
		if fld.err != "" {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render(""))
			b.WriteString(errorStyle.Render(fld.err))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab next  shift+tab prev  enter submit  esc cancel"))
	return b.String()
}

func renderChoice(f *Field) string {
	parts := make([]string, 0, len(f.Options))
	for i, o := range f.Options {
		if i == f.choice {
			parts = append(parts, choiceActive.Render("("+o+")"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+o+" "))
		}
	}
	return strings.Join(parts, " ")
}
