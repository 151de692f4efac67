package participant

import (
	"errors"
	"testing"
)

type failingSource struct{}

func (failingSource) Lookup() (Bootstrap, error) {
	return Bootstrap{}, errors.New("broken")
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		raw  string
		want Variant
	}{
		{raw: "A", want: VariantA},
		{raw: "a", want: VariantA},
		{raw: "A ", want: VariantA},
		{raw: " a\t", want: VariantA},
		{raw: "B", want: VariantB},
		{raw: "", want: VariantB},
		{raw: "AA", want: VariantB},
		{raw: "trolley", want: VariantB},
	}

	for _, tc := range tests {
		if got := ParseVariant(tc.raw); got != tc.want {
			t.Fatalf("ParseVariant(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestVariantLabels(t *testing.T) {
	if VariantA.Label() != "A_Trolley" || VariantB.Label() != "B_NoTrolley" {
		t.Fatalf("unexpected labels: %q %q", VariantA.Label(), VariantB.Label())
	}
	if !VariantA.ShowsTrolley() || VariantB.ShowsTrolley() {
		t.Fatal("only variant A shows the trolley")
	}
}

func TestResolveDefaults(t *testing.T) {
	session := Resolve(StaticSource{})
	if session.ID() != MissingID {
		t.Fatalf("expected %q, got %q", MissingID, session.ID())
	}
	if session.Variant() != VariantB {
		t.Fatalf("expected variant B, got %q", session.Variant())
	}
	if session.Err() != nil {
		t.Fatalf("expected no error, got %v", session.Err())
	}

	if got := Resolve(nil); got.ID() != MissingID || got.Variant() != VariantB {
		t.Fatalf("unexpected session for nil source: %#v", got)
	}
}

func TestResolveSourceFailure(t *testing.T) {
	session := Resolve(failingSource{})
	if session.ID() != ParseErrorID {
		t.Fatalf("expected %q, got %q", ParseErrorID, session.ID())
	}
	if session.Variant() != VariantB {
		t.Fatalf("expected variant B, got %q", session.Variant())
	}
	if session.Err() == nil {
		t.Fatal("expected source error to be kept")
	}
}

func TestQuerySource(t *testing.T) {
	b, err := QuerySource{URL: "https://shop.example/play/?uid=AB%2012&variant=a"}.Lookup()
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.ParticipantID != "AB 12" || b.Variant != "a" {
		t.Fatalf("unexpected bootstrap: %#v", b)
	}

	session := Resolve(QuerySource{URL: "https://shop.example/?uid=XYZ"})
	if session.ID() != "XYZ" || session.Variant() != VariantB {
		t.Fatalf("unexpected session: id=%q variant=%q", session.ID(), session.Variant())
	}

	session = Resolve(QuerySource{URL: "https://shop.example/?uid=%zz"})
	if session.ID() != ParseErrorID {
		t.Fatalf("expected parse error id, got %q", session.ID())
	}
}

func TestQuerySourceToleratesUnrelatedParams(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		id      string
		variant string
	}{
		{name: "bad unrelated escape", url: "https://shop.example/?uid=P1&ref=50%&variant=A", id: "P1", variant: "A"},
		{name: "semicolon separators", url: "https://shop.example/?uid=P1;variant=A", id: "P1", variant: "A"},
		{name: "semicolon inside pair list", url: "https://shop.example/?uid=P1;x=1", id: "P1", variant: ""},
		{name: "bad variant escape", url: "https://shop.example/?uid=P1&variant=%zz", id: "P1", variant: ""},
		{name: "first value wins", url: "https://shop.example/?uid=P1&uid=P2&variant=a&variant=b", id: "P1", variant: "a"},
	}
	for _, tt := range tests {
		b, err := QuerySource{URL: tt.url}.Lookup()
		if err != nil {
			t.Fatalf("%s: lookup: %v", tt.name, err)
		}
		if b.ParticipantID != tt.id || b.Variant != tt.variant {
			t.Fatalf("%s: unexpected bootstrap: %#v", tt.name, b)
		}
	}

	b, err := QuerySource{URL: "https://shop.example/?uid=%zz&variant=A"}.Lookup()
	if err == nil {
		t.Fatal("expected error for undecodable uid")
	}
	if b.ParticipantID != "" || b.Variant != "A" {
		t.Fatalf("unexpected bootstrap: %#v", b)
	}
	session := Resolve(QuerySource{URL: "https://shop.example/?uid=%zz&variant=A"})
	if session.ID() != ParseErrorID || session.Variant() != VariantA {
		t.Fatalf("unexpected session: id=%q variant=%q", session.ID(), session.Variant())
	}
}

func TestEnvSource(t *testing.T) {
	src := EnvSource{Environment: map[string]string{
		"SHOP_UID":     " P-7 ",
		"SHOP_VARIANT": "A",
	}}
	session := Resolve(src)
	if session.ID() != "P-7" || session.Variant() != VariantA {
		t.Fatalf("unexpected session: id=%q variant=%q", session.ID(), session.Variant())
	}

	session = Resolve(EnvSource{Environment: map[string]string{}})
	if session.ID() != MissingID {
		t.Fatalf("expected %q, got %q", MissingID, session.ID())
	}
}

func TestChainFirstSpecifiedWins(t *testing.T) {
	chain := Chain{
		StaticSource{ParticipantID: "flag-id"},
		EnvSource{Environment: map[string]string{"SHOP_UID": "env-id", "SHOP_VARIANT": "a"}},
		StaticSource{Variant: "B"},
	}
	session := Resolve(chain)
	if session.ID() != "flag-id" {
		t.Fatalf("expected flag id, got %q", session.ID())
	}
	if session.Variant() != VariantA {
		t.Fatalf("expected variant from env, got %q", session.Variant())
	}
}

func TestChainSkipsFailingSource(t *testing.T) {
	session := Resolve(Chain{failingSource{}, StaticSource{ParticipantID: "p1", Variant: "a"}})
	if session.ID() != "p1" || session.Variant() != VariantA {
		t.Fatalf("unexpected session: id=%q variant=%q", session.ID(), session.Variant())
	}
	if session.Err() != nil {
		t.Fatalf("expected complete chain to drop the error, got %v", session.Err())
	}

	session = Resolve(Chain{failingSource{}, StaticSource{Variant: "A"}})
	if session.ID() != ParseErrorID || session.Variant() != VariantA {
		t.Fatalf("unexpected session: id=%q variant=%q", session.ID(), session.Variant())
	}
}
