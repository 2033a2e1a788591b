package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/pflag"
)

func TestLoad_WritesDefaults(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "conf", "config.json")

	cfg, styles, err := Load(path, nil)
	is.NoErr(err)
	is.Equal(cfg.Storage.Adapter, AdapterLocal)
	is.Equal(cfg.Storage.File, filepath.Join(dir, "conf", "todos.json"))
	is.Equal(cfg.Storage.Key, "todos")
	is.Equal(cfg.API.Timeout, 10*time.Second)
	is.Equal(cfg.Server.Addr, "localhost:8080")
	is.Equal(styles, DefaultStyles())

	_, err = os.Stat(path)
	is.NoErr(err)
	_, err = os.Stat(filepath.Join(dir, "conf", "styles.json"))
	is.NoErr(err)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.json")
	data, _ := json.Marshal(map[string]interface{}{
		"storage": map[string]string{"adapter": "sqlite", "database": "~/todo.db"},
		"api":     map[string]string{"url": "http://example.test", "timeout": "3s"},
	})
	is.NoErr(os.WriteFile(path, data, 0644))
	t.Setenv("HEXATODO_API_URL", "http://env.test")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("storage", "", "")
	flags.String("addr", "", "")
	is.NoErr(flags.Parse([]string{"--addr", "127.0.0.1:9999"}))

	cfg, _, err := Load(path, flags)
	is.NoErr(err)
	is.Equal(cfg.Storage.Adapter, AdapterSQLite)
	is.Equal(cfg.Storage.Database, filepath.Join(dir, "todo.db"))
	is.Equal(cfg.API.URL, "http://env.test")
	is.Equal(cfg.API.Timeout, 3*time.Second)
	is.Equal(cfg.Server.Addr, "127.0.0.1:9999")
}

func TestLoad_UnknownAdapter(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.json")
	is.NoErr(os.WriteFile(path, []byte(`{"storage":{"adapter":"tape"}}`), 0644))

	_, _, err := Load(path, nil)
	is.True(err != nil)
}

func TestLoadStyles_PartialFileKeepsDefaults(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "styles.json")
	is.NoErr(os.WriteFile(path, []byte(`{"accent_color":"99"}`), 0644))

	styles, err := loadStyles(path)
	is.NoErr(err)
	is.Equal(styles.AccentColor, "99")
	is.Equal(styles.DoneColor, DefaultStyles().DoneColor)
}
