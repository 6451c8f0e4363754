// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const mod = "tkfalign/"

// Everything that handles processes, flags, files or output formats.
var outer = []string{
	mod + "internal/appcore", mod + "internal/appshell", mod + "internal/cli",
	mod + "internal/config", mod + "internal/logging", mod + "internal/request",
	mod + "internal/output", mod + "internal/writers", mod + "internal/jsonutil",
	mod + "internal/jsonlutil", mod + "internal/alignapp", mod + "internal/checkapp",
	mod + "internal/benchapp", mod + "internal/batchapp", mod + "cmd/",
}

var apps = []string{
	mod + "internal/appcore", mod + "internal/appshell", mod + "internal/cli",
	mod + "internal/alignapp", mod + "internal/checkapp",
	mod + "internal/benchapp", mod + "internal/batchapp", mod + "cmd/",
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		mod + "internal/model":     outer,
		mod + "internal/ball":      outer,
		mod + "internal/symbolic":  outer,
		mod + "internal/tkf91":     outer,
		mod + "internal/precision": outer,
		mod + "internal/alignment": outer,
		mod + "internal/dp":        append([]string{mod + "internal/engine"}, outer...),
		mod + "internal/engine":    outer,
		mod + "internal/verify":    outer,
		mod + "internal/bench":     outer,
		mod + "internal/metrics":   outer,
		mod + "internal/request":   append([]string{mod + "internal/engine"}, apps...),
		mod + "internal/output":    apps,
		mod + "internal/writers":   apps,
		mod + "pkg/api":            {mod + "internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, mod) {
					continue
				}
				for _, ban := range forbidden {
					if dep == ban || strings.HasPrefix(dep, strings.TrimSuffix(ban, "/")+"/") {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
