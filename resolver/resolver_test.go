package resolver

import (
	"testing"

	"github.com/rustyhook/rustyhook/rhconfig"
	"github.com/rustyhook/rustyhook/rherrors"
)

func testConfig() *rhconfig.Configuration {
	return &rhconfig.Configuration{
		DefaultStages: []string{"commit"},
		Repos: []rhconfig.Repo{
			{
				RepoID: "local",
				Hooks: []rhconfig.Hook{
					{ID: "fmt", Name: "gofmt", Entry: "gofmt -l", Language: "system", AccessMode: rhconfig.AccessRead},
					{ID: "trailing-whitespace", Name: "trailing-whitespace", Entry: "trailing-whitespace", Language: "python", HookType: rhconfig.HookBuiltin, AccessMode: rhconfig.AccessReadWrite},
				},
			},
		},
	}
}

func TestResolveFindsExactMatch(t *testing.T) {
	r := New(testConfig(), t.TempDir(), nil, nil)
	hook, err := r.Resolve("local", "fmt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if hook.ID != "fmt" {
		t.Errorf("got hook id %q, want fmt", hook.ID)
	}
}

func TestResolveReportsMissingRepoVsHook(t *testing.T) {
	r := New(testConfig(), t.TempDir(), nil, nil)

	_, err := r.Resolve("nonexistent", "fmt")
	var notFound *rherrors.HookNotFound
	if err == nil {
		t.Fatal("expected an error for a missing repo")
	}
	if e, ok := err.(*rherrors.HookNotFound); !ok || e.Reason != "repo" {
		t.Errorf("expected HookNotFound{Reason: repo}, got %#v", err)
	}
	_ = notFound

	_, err = r.Resolve("local", "nonexistent")
	if e, ok := err.(*rherrors.HookNotFound); !ok || e.Reason != "hook" {
		t.Errorf("expected HookNotFound{Reason: hook}, got %#v", err)
	}
}

func TestCreateToolUnsupportedLanguage(t *testing.T) {
	r := New(testConfig(), t.TempDir(), nil, nil)
	_, err := r.CreateTool(rhconfig.Hook{ID: "x", Entry: "x", Language: "cobol"})
	if _, ok := err.(*rherrors.UnsupportedLanguage); !ok {
		t.Errorf("expected UnsupportedLanguage, got %#v", err)
	}
}

func TestCreateToolBuiltinUsesBuiltinRegistry(t *testing.T) {
	r := New(testConfig(), t.TempDir(), nil, nil)
	tl, err := r.CreateTool(rhconfig.Hook{ID: "trailing-whitespace", Entry: "trailing-whitespace", Language: "python", HookType: rhconfig.HookBuiltin})
	if err != nil {
		t.Fatalf("CreateTool: %v", err)
	}
	if tl.Name() != "trailing-whitespace" {
		t.Errorf("got tool name %q", tl.Name())
	}
}

func TestSkipHonored(t *testing.T) {
	r := New(testConfig(), t.TempDir(), []string{"fmt"}, nil)
	if !r.Skip("fmt") {
		t.Error("expected fmt to be skipped")
	}
	if r.Skip("trailing-whitespace") {
		t.Error("expected trailing-whitespace to not be skipped")
	}
}
