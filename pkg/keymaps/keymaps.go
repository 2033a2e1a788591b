package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":        {"?", "show/hide commands"},
	"QuitApp":         {"q,ctrl+c", "quit"},
	"AddTodo":         {"a", "add todo"},
	"DeleteTodo":      {"d", "delete todo"},
	"NextState":       {"n,shift+right", "move to next state"},
	"PrevState":       {"p,shift+left", "move to previous state"},
	"ColumnLeft":      {"left,h", "previous column"},
	"ColumnRight":     {"right,l", "next column"},
	"Up":              {"up,k", "move up"},
	"Down":            {"down,j", "move down"},
	"Reload":          {"r", "reload from storage"},
	"ToggleSortBy":    {"s", "cycle sort by"},
	"ToggleSortOrder": {"o", "toggle sort order"},
	"Confirm":         {"enter,y", "confirm"},
	"Cancel":          {"esc", "cancel"},
}

type KeyMap struct {
	ShowHelp        key.Binding
	QuitApp         key.Binding
	AddTodo         key.Binding
	DeleteTodo      key.Binding
	NextState       key.Binding
	PrevState       key.Binding
	ColumnLeft      key.Binding
	ColumnRight     key.Binding
	Up              key.Binding
	Down            key.Binding
	Reload          key.Binding
	ToggleSortBy    key.Binding
	ToggleSortOrder key.Binding
	Confirm         key.Binding
	Cancel          key.Binding
}

// BuildKeyMap applies config overrides, keyed by action name, on top of the defaults
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	km := KeyMap{}
	for action, def := range KeyDefinitions {
		keyStr := def.DefaultKey
		if override, exists := lookup(configOverrides, action); exists && override != "" {
			keyStr = override
		}

		binding := parseKeyBinding(keyStr, def.DefaultKey, def.Help)
		switch action {
		case "ShowHelp":
			km.ShowHelp = binding
		case "QuitApp":
			km.QuitApp = binding
		case "AddTodo":
			km.AddTodo = binding
		case "DeleteTodo":
			km.DeleteTodo = binding
		case "NextState":
			km.NextState = binding
		case "PrevState":
			km.PrevState = binding
		case "ColumnLeft":
			km.ColumnLeft = binding
		case "ColumnRight":
			km.ColumnRight = binding
		case "Up":
			km.Up = binding
		case "Down":
			km.Down = binding
		case "Reload":
			km.Reload = binding
		case "ToggleSortBy":
			km.ToggleSortBy = binding
		case "ToggleSortOrder":
			km.ToggleSortOrder = binding
		case "Confirm":
			km.Confirm = binding
		case "Cancel":
			km.Cancel = binding
		}
	}
	return km
}

// lookup tolerates viper lower-casing map keys read from the config file
func lookup(overrides map[string]string, action string) (string, bool) {
	if v, ok := overrides[action]; ok {
		return v, true
	}
	v, ok := overrides[strings.ToLower(action)]
	return v, ok
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if strings.TrimSpace(keyStr) == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], helpText),
	)
}

// ShortHelp lists the bindings shown in the footer
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.AddTodo, km.NextState, km.PrevState, km.DeleteTodo, km.ShowHelp, km.QuitApp}
}

// FullHelp lists every binding, grouped in columns for the help screen
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.ColumnLeft, km.ColumnRight},
		{km.AddTodo, km.DeleteTodo, km.NextState, km.PrevState},
		{km.ToggleSortBy, km.ToggleSortOrder, km.Reload, km.ShowHelp, km.QuitApp},
	}
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
