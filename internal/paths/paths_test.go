package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCwd points local-directory detection at dir for the test's duration.
func withCwd(t *testing.T, dir string) {
	t.Helper()
	orig := platformDir.getwd
	platformDir.getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { platformDir.getwd = orig })
}

func TestDefaultDirs_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("config uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/scatterplot", got)
	})

	t.Run("config falls back to ~/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "scatterplot"), got)
	})

	t.Run("data uses XDG_DATA_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-data/scatterplot", got)
	})

	t.Run("data falls back to ~/.local/share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".local", "share", "scatterplot"), got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	withCwd(t, t.TempDir())

	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string
	}{
		{name: "flag wins over env", flag: "/explicit/config", envVal: "/env/config", wantSub: "/explicit/config"},
		{name: "env wins when flag empty", envVal: "/env/config", wantSub: "/env/config"},
		{name: "platform default when both empty", wantSub: "scatterplot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveConfigDir_LocalDir(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(cwd, LocalConfigDirName), 0o755))
	withCwd(t, cwd)
	t.Setenv(EnvConfigDir, "")

	got, err := ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, LocalConfigDirName), got)
}

func TestResolveDataDir(t *testing.T) {
	cwd := t.TempDir()
	withCwd(t, cwd)

	tests := []struct {
		name      string
		flag      string
		configVal string
		envVal    string
		local     bool
		want      string
	}{
		{name: "flag wins over all", flag: "/flag/data", configVal: "/config/data", envVal: "/env/data", want: "/flag/data"},
		{name: "env wins over config", configVal: "/config/data", envVal: "/env/data", want: "/env/data"},
		{name: "config wins over local", configVal: "/config/data", local: true, want: "/config/data"},
		{name: "local dir when present", local: true, want: filepath.Join(cwd, LocalDataDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			local := filepath.Join(cwd, LocalDataDirName)
			if tt.local {
				require.NoError(t, os.MkdirAll(local, 0o755))
			} else {
				require.NoError(t, os.RemoveAll(local))
			}

			got, err := ResolveDataDir(tt.flag, tt.configVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDir_PlatformDefault(t *testing.T) {
	withCwd(t, t.TempDir())
	t.Setenv(EnvDataDir, "")

	got, err := ResolveDataDir("", "")
	require.NoError(t, err)
	want, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolve_RelativeBecomesAbsolute(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvDataDir, "")

	got, err := ResolveConfigDir("relative/path")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)

	got, err = ResolveDataDir("", "relative/config")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
}
