package scene

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/analytics"
	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
)

func newScene(t *testing.T, opts Options) (*Scene, *analytics.Recorder) {
	t.Helper()
	recorder := &analytics.Recorder{}
	if opts.Sink == nil {
		opts.Sink = recorder
	}
	if opts.Source == nil {
		opts.Source = participant.StaticSource{ParticipantID: "AB12CD", Variant: "A"}
	}
	if opts.Duration == 0 {
		opts.Duration = 10 * time.Second
	}
	s := New(opts)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(s.Dispose)
	return s, recorder
}

func TestInspectAndBuy(t *testing.T) {
	s, recorder := newScene(t, Options{RunID: "run-1"})

	if err := s.Look("cube"); err != nil {
		t.Fatalf("look: %v", err)
	}
	snap := s.Snapshot()
	if snap.Focused != "Cube" || snap.HUD.Prompt != "[E] Inspect Cube" {
		t.Fatalf("unexpected focus: %q %q", snap.Focused, snap.HUD.Prompt)
	}

	if !s.Interact() {
		t.Fatal("expected interact to open the panel")
	}
	snap = s.Snapshot()
	if snap.HUD.Panel == nil || snap.HUD.Panel.Name != "Cube" {
		t.Fatalf("expected Cube panel, got %#v", snap.HUD.Panel)
	}
	if snap.HUD.CanMove || s.Interactor.CanMove() {
		t.Fatal("expected movement frozen while inspecting")
	}
	if err := s.Look("Sphere"); err != nil {
		t.Fatalf("look: %v", err)
	}
	if s.Snapshot().Focused != "Cube" {
		t.Fatal("expected focus to stay on Cube while frozen")
	}

	if !s.Buy() {
		t.Fatal("expected buy to succeed")
	}
	snap = s.Snapshot()
	if snap.HUD.Panel != nil || !snap.HUD.CanMove {
		t.Fatalf("expected panel closed and movement restored: %#v", snap.HUD)
	}
	if snap.HUD.TotalItems != 1 || snap.HUD.Items["Cube"] != 1 {
		t.Fatalf("unexpected cart: %#v", snap.HUD.Items)
	}
	if snap.HUD.Notification != "Cube has been added to cart." {
		t.Fatalf("unexpected notification %q", snap.HUD.Notification)
	}
	want := []string{analytics.EventSessionStart, analytics.EventProductAdded}
	if !reflect.DeepEqual(recorder.Names(), want) {
		t.Fatalf("expected %v, got %v", want, recorder.Names())
	}
	if snap.RunID != "run-1" || !snap.ShowTrolley || snap.Variant != participant.VariantA {
		t.Fatalf("unexpected session snapshot: %#v", snap)
	}
}

func TestUnknownProduct(t *testing.T) {
	s, _ := newScene(t, Options{})

	if err := s.Look("Pyramid"); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if err := s.Add("Pyramid"); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if s.Controller.TotalItems() != 0 {
		t.Fatal("expected empty cart")
	}
}

func TestConfirmEndFreezesScene(t *testing.T) {
	s, _ := newScene(t, Options{Source: participant.StaticSource{ParticipantID: "P7", Variant: "B"}})

	if err := s.Add("Sphere"); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Tick(43 * time.Second / 10)
	s.RequestEnd()
	if !s.Snapshot().HUD.ConfirmVisible {
		t.Fatal("expected confirm panel")
	}
	s.ConfirmEnd()

	if !s.Ended() {
		t.Fatal("expected scene ended")
	}
	snap := s.Snapshot()
	if snap.Result == nil || snap.Result.Code != "P7-4-1" || snap.Result.Reason != experiment.ReasonConfirmed {
		t.Fatalf("unexpected result: %#v", snap.Result)
	}
	if snap.ShowTrolley {
		t.Fatal("expected variant B to hide the trolley")
	}
	if !snap.HUD.Ended || snap.HUD.Code != "P7-4-1" || snap.HUD.CanMove {
		t.Fatalf("unexpected HUD after end: %#v", snap.HUD)
	}

	if err := s.Add("Cube"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Look("Cube"); err != nil {
		t.Fatalf("look: %v", err)
	}
	if s.Interact() {
		t.Fatal("expected interaction ignored after end")
	}
	if s.Controller.TotalItems() != 1 {
		t.Fatalf("expected cart frozen at 1, got %d", s.Controller.TotalItems())
	}
}

func TestDisposeDetachesFromBus(t *testing.T) {
	s := New(Options{Source: participant.StaticSource{ParticipantID: "X", Variant: "A"}})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	s.Dispose()

	if err := s.Add("Cube"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Controller.TotalItems() != 0 {
		t.Fatal("expected disposed scene to ignore adds")
	}
	if s.Ended() {
		t.Fatal("dispose must not end the session")
	}
}
