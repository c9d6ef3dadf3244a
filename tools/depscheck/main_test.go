package main

import (
	"reflect"
	"testing"
)

func TestFindViolations(t *testing.T) {
	pkgs := []packageInfo{
		{ImportPath: modulePath + "/internal/navgrid", Imports: []string{"errors", "fmt"}},
		{ImportPath: modulePath + "/internal/pathfind", Imports: []string{"math", modulePath + "/internal/navgrid", modulePath + "/logging"}},
		{ImportPath: modulePath + "/internal/navgridx", Imports: []string{"github.com/gorilla/websocket"}},
		{ImportPath: modulePath + "/internal/navsystem", Imports: []string{modulePath + "/logging"}},
	}

	got := findViolations(pkgs, rules)
	want := []string{modulePath + "/internal/pathfind -> " + modulePath + "/logging"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestIsStdlib(t *testing.T) {
	cases := map[string]bool{
		"fmt":                            true,
		"net/http":                       true,
		"golang.org/x/tools/go/packages": false,
		modulePath + "/internal/navgrid": false,
	}
	for path, want := range cases {
		if got := isStdlib(path); got != want {
			t.Fatalf("isStdlib(%q) = %v, want %v", path, got, want)
		}
	}
}
