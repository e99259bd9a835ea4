package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"auraboxing/internal/application/orchestrators"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashSecret_PrintsUsableHash(t *testing.T) {
	out, err := runCLI(t, "hash-secret", "letmein")
	if err != nil {
		t.Fatalf("hash-secret: %v", err)
	}
	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("letmein")); err != nil {
		t.Errorf("printed hash does not match secret: %v", err)
	}
	gate, err := orchestrators.NewAdminGate(hash)
	if err != nil {
		t.Fatalf("NewAdminGate: %v", err)
	}
	err = orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{Password: "letmein"}, orchestrators.LoginDeps{Gate: gate})
	if err != nil {
		t.Errorf("gate rejects its own secret: %v", err)
	}
}

func TestHashSecret_RequiresArgument(t *testing.T) {
	if _, err := runCLI(t, "hash-secret"); err == nil {
		t.Error("expected error without a secret")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "aura dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestEnv_ListsVariables(t *testing.T) {
	out, err := runCLI(t, "env")
	if err != nil {
		t.Fatalf("env: %v", err)
	}
	for _, want := range []string{"AURA_ADMIN_SECRET", "AURA_DB_PATH"} {
		if !strings.Contains(out, want) {
			t.Errorf("env output missing %s", want)
		}
	}
}
