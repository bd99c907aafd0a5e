package config

import (
	"strings"
	"testing"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	r := cfg.ValidateDetailed()
	if !r.IsValid() {
		t.Errorf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateDetailed_InvalidRuntimeIdentifier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RuntimeIdentifier = "properties-of"
	r := cfg.ValidateDetailed()
	if r.IsValid() {
		t.Fatal("expected an error for a non-identifier")
	}
	if !strings.Contains(r.Errors[0], "runtimeIdentifier") {
		t.Errorf("expected runtimeIdentifier error, got %v", r.Errors)
	}
}

func TestValidateDetailed_StrictAndQuietWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	cfg.Quiet = true
	r := cfg.ValidateDetailed()
	if !r.IsValid() {
		t.Errorf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "strict and quiet") {
		t.Errorf("expected strict/quiet warning, got %v", r.Warnings)
	}
}

func TestValidateDetailed_InputInsideOutDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = "dist/reflection.input.json"
	r := cfg.ValidateDetailed()
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "inside outDir") {
		t.Errorf("expected outDir warning, got %v", r.Warnings)
	}
}

func TestValidateDetailed_UnusualInputExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = "types.yaml"
	r := cfg.ValidateDetailed()
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], `".yaml"`) {
		t.Errorf("expected extension warning, got %v", r.Warnings)
	}
}

func TestValidateDetailed_CacheDisabledWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	r := cfg.ValidateDetailed()
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "cacheSize") {
		t.Errorf("expected cacheSize warning, got %v", r.Warnings)
	}
}
