package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunDemoProducesOneLinePerAgentPerTick(t *testing.T) {
	opts := runOpts{width: 20, height: 20, border: 3, agents: 2, ticks: 3, seed: 7}
	var stdout, stderr bytes.Buffer

	if err := runDemo(opts, &stdout, &stderr); err != nil {
		t.Fatalf("runDemo: %v", err)
	}

	lines := strings.Count(stdout.String(), "\n")
	if want := opts.agents * opts.ticks; lines != want {
		t.Fatalf("expected %d decision lines, got %d:\n%s", want, lines, stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %s", stderr.String())
	}
}

func TestRunDemoRejectsBadConfigPath(t *testing.T) {
	opts := runOpts{width: 10, height: 10, border: 2, agents: 1, ticks: 1, seed: 1, configPath: "/nonexistent/difficulty.toml"}
	var stdout, stderr bytes.Buffer

	if err := runDemo(opts, &stdout, &stderr); err == nil {
		t.Fatal("expected error loading a nonexistent config path")
	}
}
