package keymaps

import (
	"testing"

	"github.com/matryer/is"
)

func TestBuildKeyMap_Defaults(t *testing.T) {
	is := is.New(t)
	km := BuildKeyMap(nil)
	is.Equal(km.AddTodo.Keys(), []string{"a"})
	is.Equal(km.NextState.Keys(), []string{"n", "shift+right"})
	is.Equal(km.NextState.Help().Key, "n")
	is.Equal(km.NextState.Help().Desc, "move to next state")
}

func TestBuildKeyMap_Overrides(t *testing.T) {
	is := is.New(t)
	km := BuildKeyMap(map[string]string{
		"AddTodo":    "i, insert",
		"deletetodo": "x",
		"Reload":     " ",
	})
	is.Equal(km.AddTodo.Keys(), []string{"i", "insert"})
	is.Equal(km.DeleteTodo.Keys(), []string{"x"})
	is.Equal(km.Reload.Keys(), []string{"r"})
}

func TestGetDefaultKeyMappings(t *testing.T) {
	is := is.New(t)
	mappings := GetDefaultKeyMappings()
	is.Equal(len(mappings), len(KeyDefinitions))
	is.Equal(mappings["QuitApp"], "q,ctrl+c")
}
