package player

import (
	"context"
	"testing"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

func TestLoopback_PlayDecodes(t *testing.T) {
	dec, err := morse.NewDecoder(fastTable())
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}

	p, err := NewPlayer(NopIndicator{})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	p.AddObserver(NewLoopback(dec))

	steps := encodeFast(t, "Red", "5")
	if err := p.Play(context.Background(), steps); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	sig := dec.LatestDecoded()
	if sig == nil {
		t.Fatal("LatestDecoded() = nil, want a decoded signal")
	}
	if sig.Color != "Red" || sig.Number != "5" {
		t.Errorf("decoded %s %s, want Red 5", sig.Color, sig.Number)
	}
}

func TestFeed_MatchesLoopback(t *testing.T) {
	steps := encodeFast(t, "Blue", "100")

	viaFeed, err := morse.NewDecoder(fastTable())
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	Feed(viaFeed, steps)

	viaLoopback, err := morse.NewDecoder(fastTable())
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	lb := NewLoopback(viaLoopback)
	for _, s := range steps {
		lb.ObserveStep(s)
	}

	a := viaFeed.LatestDecoded()
	b := viaLoopback.LatestDecoded()
	if a == nil || b == nil {
		t.Fatalf("LatestDecoded() = %v, %v, want both non-nil", a, b)
	}
	if a.Color != b.Color || a.Number != b.Number || a.RawPattern != b.RawPattern {
		t.Errorf("feed decoded %s %s %q, loopback decoded %s %s %q",
			a.Color, a.Number, a.RawPattern, b.Color, b.Number, b.RawPattern)
	}
}

func TestFeed_CanceledPlaybackDecodesNothing(t *testing.T) {
	// A cancel mid-transmission leaves a partial buffer: even after the
	// inactivity window the partial payload must reject.
	dec, err := morse.NewDecoder(fastTable())
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}

	steps := encodeFast(t, "Green", "77")
	// Only the color group reaches the decoder.
	Feed(dec, steps[:6])
	dec.ProcessGap(fastTable().EndTransmissionGap)

	if sig := dec.LatestDecoded(); sig != nil {
		t.Errorf("LatestDecoded() = %+v, want nil for partial transmission", sig)
	}
}
