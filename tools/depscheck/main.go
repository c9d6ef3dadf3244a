package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/RomanSolomatin/2d-platformer-pathfinding"

// rule restricts the imports of every package under Prefix to the standard
// library plus the listed module packages.
type rule struct {
	Prefix  string
	Allowed []string
}

var rules = []rule{
	{Prefix: modulePath + "/internal/navgrid"},
	{Prefix: modulePath + "/internal/pathfind", Allowed: []string{modulePath + "/internal/navgrid"}},
}

type packageInfo struct {
	ImportPath string
	Imports    []string
}

func main() {
	dir := flag.String("dir", ".", "module root to inspect")
	flag.Parse()

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Dir: *dir}
	pkgs, err := packages.Load(cfg, "./internal/...")
	if err != nil {
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	infos := make([]packageInfo, 0, len(pkgs))
	for _, pkg := range pkgs {
		info := packageInfo{ImportPath: pkg.PkgPath}
		for path := range pkg.Imports {
			info.Imports = append(info.Imports, path)
		}
		infos = append(infos, info)
	}

	if violations := findViolations(infos, rules); len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func findViolations(pkgs []packageInfo, rules []rule) []string {
	var violations []string
	for _, pkg := range pkgs {
		for _, r := range rules {
			if pkg.ImportPath != r.Prefix && !strings.HasPrefix(pkg.ImportPath, r.Prefix+"/") {
				continue
			}
			for _, imp := range pkg.Imports {
				if isStdlib(imp) || allowed(imp, r) {
					continue
				}
				violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
			}
		}
	}
	sort.Strings(violations)
	return violations
}

func allowed(imp string, r rule) bool {
	if imp == r.Prefix || strings.HasPrefix(imp, r.Prefix+"/") {
		return true
	}
	for _, candidate := range r.Allowed {
		if imp == candidate {
			return true
		}
	}
	return false
}

// isStdlib treats import paths whose first element has no dot as standard
// library packages.
func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
