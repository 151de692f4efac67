package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestHasChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("uid", "", "")
	cmd.Flags().String("variant", "", "")
	if err := cmd.Flags().Parse([]string{"--variant", "A"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if hasChangedFlags(cmd, "uid") {
		t.Fatal("expected uid unchanged")
	}
	if !hasChangedFlags(cmd, "uid", "variant") {
		t.Fatal("expected variant changed")
	}
}
