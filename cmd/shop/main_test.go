package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "shop" {
		t.Fatalf("expected root command name shop, got %q", rootCmd.Use)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"play", "run", "serve", "code", "catalog", "events"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("expected %s command, got %v (%v)", name, cmd, err)
		}
	}
}
