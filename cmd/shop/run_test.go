package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/hud"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

func TestReadScriptFromStdin(t *testing.T) {
	commands, err := readScript(strings.NewReader("look Cube\ninteract\n"), []string{"-"})
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if len(commands) != 2 || commands[0].Op != scene.OpLook || commands[1].Op != scene.OpInteract {
		t.Fatalf("unexpected commands: %#v", commands)
	}
}

func TestReadScriptMissingFile(t *testing.T) {
	if _, err := readScript(strings.NewReader(""), []string{"missing.txt"}); err == nil {
		t.Fatal("expected error for missing script file")
	}
}

func TestFormatRunSummaryEnded(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	snap := scene.Snapshot{
		ParticipantID: "P1",
		Variant:       participant.VariantA,
		Result: &experiment.Result{
			Code:    "P1-12-3",
			Reason:  experiment.ReasonConfirmed,
			Elapsed: 12 * time.Second,
			Items:   map[string]int{"Sphere": 1, "Cube": 2},
		},
	}

	got := formatRunSummary(snap)
	for _, want := range []string{
		"Participant: P1\n",
		"Variant: A_Trolley\n",
		"Ended: user confirmed\n",
		"Elapsed: 00:12\n",
		"Completion code: P1-12-3\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in summary:\n%s", want, got)
		}
	}
	if strings.Index(got, "Cube") > strings.Index(got, "Sphere") {
		t.Fatalf("expected products sorted by name:\n%s", got)
	}
}

func TestFormatRunSummaryRunning(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	snap := scene.Snapshot{
		ParticipantID: "P2",
		Variant:       participant.VariantB,
		HUD:           hud.View{Clock: "00:07"},
	}

	got := formatRunSummary(snap)
	if !strings.Contains(got, "Remaining: 00:07\n") || !strings.Contains(got, "Cart is empty\n") {
		t.Fatalf("unexpected summary:\n%s", got)
	}
	if strings.Contains(got, "Completion code") {
		t.Fatalf("expected no code for a running session:\n%s", got)
	}
}
