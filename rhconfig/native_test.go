package rhconfig

import "testing"

const sampleNative = `
default_stages: ["commit"]
fail_fast: true
parallelism: 4
repos:
  - repo: local
    hooks:
      - id: trailing-whitespace
        name: Trim trailing whitespace
        entry: trailing-whitespace
        language: python
        hook_type: built-in
        access_mode: read-write
      - id: eslint
        name: ESLint
        entry: eslint
        language: node
        files: \.js$
`

func TestParseNative(t *testing.T) {
	cfg, err := ParseNative([]byte(sampleNative))
	if err != nil {
		t.Fatalf("ParseNative: %v", err)
	}
	if !cfg.FailFast {
		t.Error("expected fail_fast true")
	}
	if cfg.Parallelism != 4 {
		t.Errorf("Parallelism = %d, want 4", cfg.Parallelism)
	}
	if len(cfg.Repos) != 1 || len(cfg.Repos[0].Hooks) != 2 {
		t.Fatalf("unexpected repo/hook shape: %+v", cfg.Repos)
	}

	ws := cfg.Repos[0].Hooks[0]
	if ws.HookType != HookBuiltin {
		t.Errorf("HookType = %q, want built-in", ws.HookType)
	}
	if len(ws.Stages) != 1 || ws.Stages[0] != "commit" {
		t.Errorf("expected default_stages to populate Stages, got %v", ws.Stages)
	}

	eslint := cfg.Repos[0].Hooks[1]
	if eslint.HookType != HookExternal {
		t.Errorf("HookType = %q, want external (default)", eslint.HookType)
	}
	if eslint.AccessMode != AccessReadWrite {
		t.Errorf("AccessMode = %q, want read-write (default)", eslint.AccessMode)
	}
}

func TestParseNativeRejectsDuplicateHookIDs(t *testing.T) {
	data := `
repos:
  - repo: local
    hooks:
      - id: dup
        name: a
        entry: a
        language: system
      - id: dup
        name: b
        entry: b
        language: system
`
	if _, err := ParseNative([]byte(data)); err == nil {
		t.Fatal("expected duplicate hook id to fail validation")
	}
}

func TestParseNativeRejectsMissingRequiredFields(t *testing.T) {
	data := `
repos:
  - repo: local
    hooks:
      - id: incomplete
`
	if _, err := ParseNative([]byte(data)); err == nil {
		t.Fatal("expected missing name/entry/language to fail validation")
	}
}

func TestConfigurationCloneIsIndependent(t *testing.T) {
	cfg, err := ParseNative([]byte(sampleNative))
	if err != nil {
		t.Fatalf("ParseNative: %v", err)
	}
	clone := cfg.Clone()
	clone.Repos[0].Hooks[0].Args = append(clone.Repos[0].Hooks[0].Args, "--fix")
	if len(cfg.Repos[0].Hooks[0].Args) != 0 {
		t.Fatal("mutating the clone's Args leaked into the original Configuration")
	}
}
