package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEngineDefault(t *testing.T) {
	engine, err := loadEngine("")
	if err != nil {
		t.Fatalf("loadEngine error: %v", err)
	}
	if err := engine.Validate(); err != nil {
		t.Errorf("default engine is invalid: %v", err)
	}
}

func TestLoadEngineFromFile(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "rules.yaml")
	err := os.WriteFile(valid, []byte(`rules:
  - intent: night-drive
    emotional: [Melancholic]
    somatic: [floating]
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	engine, err := loadEngine(valid)
	if err != nil {
		t.Fatalf("loadEngine error: %v", err)
	}
	if len(engine.Rules.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(engine.Rules.Rules))
	}
	rule := engine.Rules.Rules[0]
	if rule.Intent != "night-drive" || rule.Emotional[0] != "melancholic" {
		t.Errorf("rule = %+v, want night-drive with cleaned tags", rule)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rules:\n  - intent: nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadEngine(invalid); err == nil {
		t.Error("loadEngine accepted a rule without emotional tags")
	}

	single := filepath.Join(dir, "single.yaml")
	if err := os.WriteFile(single, []byte("rules:\n  - intent: sad\n    emotional: [sad]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadEngine(single); err == nil {
		t.Error("loadEngine accepted a rule with one mood axis")
	}

	if _, err := loadEngine(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("loadEngine accepted a missing file")
	}
}
