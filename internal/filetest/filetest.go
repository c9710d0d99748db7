// Package filetest provides helpers for golden-file tests: tests that run a
// tool phase over the source files of a testdata directory and compare the
// output against a recorded golden file, updating it on demand.
package filetest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var testUpdateAllTests = flag.Bool("test.update-all-tests", false, "If set, sets all test.update-*-tests.")

// SourceFiles returns the list of source files in dir corresponding to the
// specified extension.
func SourceFiles(t *testing.T, dir, ext string) []string {
	t.Helper()

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]string, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() {
			continue
		}
		if ext != "" && filepath.Ext(dent.Name()) != ext {
			continue
		}
		res = append(res, dent.Name())
	}
	return res
}

// DiffOutput validates that output is the same as the expected result in the
// corresponding golden file. If updateFlag is true, it updates the golden
// file with output instead.
func DiffOutput(t *testing.T, name, output, resultDir string, updateFlag *bool) {
	t.Helper()
	DiffCustom(t, name, "output", ".want", output, resultDir, updateFlag)
}

// DiffErrors validates that the errors output is the same as the expected
// result in the corresponding golden file. If updateFlag is true, it updates
// the golden file with output instead.
func DiffErrors(t *testing.T, name, output, resultDir string, updateFlag *bool) {
	t.Helper()
	DiffCustom(t, name, "errors", ".err", output, resultDir, updateFlag)
}

// DiffCustom is the general version of DiffOutput and DiffErrors, to check
// for any other kind of output file. Provide a label to use in the error
// logs (e.g. "output", "errors") and the extension of the golden file
// (including the leading dot).
func DiffCustom(t *testing.T, name, label, ext, output, resultDir string, updateFlag *bool) {
	t.Helper()

	goldFile := filepath.Join(resultDir, name+ext)
	if *updateFlag || *testUpdateAllTests {
		if err := os.WriteFile(goldFile, []byte(output), 0600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if testing.Verbose() {
		t.Logf("got %s:\n%s\n", label, output)
	}
	if patch := diff.Diff(want, output); patch != "" {
		if testing.Verbose() {
			t.Logf("want %s:\n%s\n", label, want)
		}
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
