package machine_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/compiler"
	"github.com/tern-lang/tern/lang/machine"
	"github.com/tern-lang/tern/lang/types"
)

var rxAssert = regexp.MustCompile(`(?m)^\s*//\s*###\s*([a-zA-Z_][a-zA-Z0-9_]*):\s*(.+)$`)

// TestExecScripts compiles and runs the scripts in testdata and checks the
// expectations embedded in their comments, in the form of:
//   - // ### fail: <error kind>
//   - // ### variable_name: <value>
//
// Values can be a number, a quoted string or true and false. Variables are
// looked up in the final machine state.
func TestExecScripts(t *testing.T) {
	dir := "testdata"
	des, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, de := range des {
		if de.IsDir() || !de.Type().IsRegular() || filepath.Ext(de.Name()) != ".tn" {
			continue
		}
		t.Run(de.Name(), func(t *testing.T) {
			filename := filepath.Join(dir, de.Name())
			b, err := os.ReadFile(filename)
			require.NoError(t, err)

			ms := rxAssert.FindAllStringSubmatch(string(b), -1)
			require.NotNil(t, ms, "no assertion provided")

			prog, cerr := compiler.Compile(filename, b, nil)

			var failAsserted bool
			for _, m := range ms {
				if m[1] == "fail" {
					failAsserted = true
					want := strings.TrimSpace(m[2])
					if assert.NotNil(t, cerr, "expected compilation to fail") {
						assert.Equal(t, want, cerr.(*compiler.Error).Kind.String())
					}
				}
			}
			if failAsserted {
				return
			}
			require.NoError(t, cerr)
			require.NoError(t, prog.Verify())

			vm := machine.New(prog)
			vm.Execute()
			state := vm.State()

			for _, m := range ms {
				name, want := m[1], strings.TrimSpace(m[2])
				got, ok := state.Variables[name]
				if !assert.True(t, ok, "variable %s does not exist", name) {
					continue
				}
				assertValue(t, name, want, got)
			}
		})
	}
}

func assertValue(t *testing.T, name, want string, got types.Value) {
	t.Helper()

	if want == "true" || want == "false" {
		assert.Equal(t, types.Bool(want == "true"), got, "variable %s", name)
	} else if qs, err := strconv.Unquote(want); err == nil {
		assert.Equal(t, types.String(qs), got, "variable %s", name)
	} else if n, err := strconv.ParseInt(want, 10, 32); err == nil {
		assert.Equal(t, types.Int(int32(n)), got, "variable %s", name)
	} else if f, err := strconv.ParseFloat(want, 32); err == nil {
		assert.Equal(t, types.Float(float32(f)), got, "variable %s", name)
	} else {
		assert.Failf(t, "unexpected expectation", "variable %s: want %s, got %v", name, want, got)
	}
}
