package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	shopPath  string
	buildErr  error
)

// BuildShop builds the shop binary once and returns its path.
func BuildShop(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "shop-bin-")
		if err != nil {
			buildErr = err
			return
		}

		shopPath = filepath.Join(binDir, "shop")
		cmd := exec.Command("go", "build", "-o", shopPath, "./cmd/shop")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build shop: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return shopPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("SHOP", BuildShop(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	env.Setenv("SHOP_UID", "")
	env.Setenv("SHOP_VARIANT", "")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdJSONField reads a top-level string field from a JSON object file and
// stores it in an env var.
func CmdJSONField(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("jsonfield does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: jsonfield FILE FIELD VAR")
	}

	var fields map[string]any
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		ts.Fatalf("parse json: %v", err)
	}

	value, ok := fields[args[1]].(string)
	if !ok {
		ts.Fatalf("string field %q not found", args[1])
	}
	ts.Setenv(args[2], value)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
