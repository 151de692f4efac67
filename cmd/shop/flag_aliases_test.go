package main

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestSetFlagAliases(t *testing.T) {
	flags := pflag.NewFlagSet("code", pflag.ContinueOnError)
	var items int
	flags.IntVar(&items, "items", 0, "")
	setFlagAliases(flags, codeFlagAliases)

	if err := flags.Parse([]string{"--total", "4"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if items != 4 {
		t.Fatalf("expected --total to set items, got %d", items)
	}
}

func TestParticipantAliasResolvesToUID(t *testing.T) {
	normalize := rootCmd.GlobalNormalizationFunc()
	if normalize == nil {
		t.Fatal("expected a global normalization func")
	}
	if got := normalize(rootCmd.PersistentFlags(), "participant"); got != "uid" {
		t.Fatalf("expected participant to normalize to uid, got %q", got)
	}
	if got := normalize(rootCmd.PersistentFlags(), "variant"); got != "variant" {
		t.Fatalf("expected variant to stay, got %q", got)
	}
}
