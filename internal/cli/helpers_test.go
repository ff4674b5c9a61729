package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/stretchr/testify/require"
)

func init() {
	ui.DisableColors()
}

const serverInfoJSON = `{"ocs":{"meta":{"status":"ok","statuscode":200,"message":"OK"},
"data":{"server":{"database":{"type":"mysql","size":1048576}}}}}`

const basicConfig = `version: 1
interval: 30s
timeout: 5s
fields:
  status:
    status: true
    status_code: true
  database:
    type: true
`

// testProject is a temporary working directory with a config file and a
// .env pointing at a fake serverinfo endpoint.
type testProject struct {
	Dir string
	URL string
}

// newTestProject chdirs into a fresh git-rooted temp dir holding cfg (when
// non-empty) and credentials for handler. Global flags are reset.
func newTestProject(t *testing.T, cfg string, handler http.HandlerFunc) *testProject {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	if cfg != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(cfg), 0o644))
	}
	env := "NC_INSTANCE=" + srv.URL + "/info\nNC_USER=admin\nNC_PASS=secret\nNC_ROOT=" + srv.URL + "/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultEnvFile), []byte(env), 0o600))

	chdir(t, dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{config.EnvInstance, config.EnvUser, config.EnvPassword, config.EnvRoot} {
		t.Setenv(key, "")
	}

	oldCfg, oldEnv := cfgFile, envFile
	cfgFile, envFile = "", config.DefaultEnvFile
	t.Cleanup(func() { cfgFile, envFile = oldCfg, oldEnv })

	return &testProject{Dir: dir, URL: srv.URL}
}

// serveInfo answers /info with body and status; everything else gets 404.
func serveInfo(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and PWD, restoring both when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chdir(abs))
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
