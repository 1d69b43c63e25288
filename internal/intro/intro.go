// Package intro times the loading overlay and the title reveal that follows it.
//
// The sky animates from the first frame; the timeline only decides what is
// drawn over it.
package intro

import (
	"sync"
	"time"

	"github.com/litescript/skyline/internal/palette"
)

// Loader and title timings.
const (
	BarDuration   = 2 * time.Second
	FadeDelay     = 2500 * time.Millisecond
	FadeDuration  = 1200 * time.Millisecond
	TitleDuration = 800 * time.Millisecond
	TaglineDelay  = 200 * time.Millisecond
	SocialDelay   = 400 * time.Millisecond

	// LoaderTotal is when the overlay has fully faded.
	LoaderTotal = FadeDelay + FadeDuration
)

// Title copy.
const (
	Title       = "HOMOS"
	TitleMark   = "TM"
	Tagline     = "season 1 coming soon"
	SocialLabel = "Follow on X (Twitter)"
	SocialURL   = "https://x.com/malone"

	// TaglineOpacity is the tagline's resting opacity.
	TaglineOpacity = 0.5
	// TitleRise is how far the title and tagline travel up while fading in.
	TitleRise = 20.0
)

// Overlay is what to draw at one instant.
type Overlay struct {
	Loading bool // loader still covers the sky

	BarScale   float64 // horizontal scale of the loader bar, 0-1
	BarOpacity float64
	Backdrop   float64 // opacity of the black loader backdrop

	TitleOpacity   float64
	TitleOffset    float64 // remaining upward travel in pixels
	TaglineOpacity float64
	TaglineOffset  float64
	SocialOpacity  float64
}

// Timeline maps elapsed time to an Overlay. OnComplete, if set, runs exactly
// once, the first time At is asked for a moment past LoaderTotal.
type Timeline struct {
	OnComplete func()

	once sync.Once
}

// At returns the overlay state elapsed after start.
func (tl *Timeline) At(elapsed time.Duration) Overlay {
	if elapsed < LoaderTotal {
		return Overlay{
			Loading:    true,
			BarScale:   EaseInOut.At(progress(elapsed, 0, BarDuration)),
			BarOpacity: palette.Lerp(0.5, 1, EaseInOut.At(progress(elapsed, 0, BarDuration))),
			Backdrop:   1 - EaseInOut.At(progress(elapsed, FadeDelay, FadeDuration)),
		}
	}

	tl.once.Do(func() {
		if tl.OnComplete != nil {
			tl.OnComplete()
		}
	})

	since := elapsed - LoaderTotal
	title := EaseOut.At(progress(since, 0, TitleDuration))
	tagline := EaseOut.At(progress(since, TaglineDelay, TitleDuration))
	return Overlay{
		TitleOpacity:   title,
		TitleOffset:    TitleRise * (1 - title),
		TaglineOpacity: TaglineOpacity * tagline,
		TaglineOffset:  TitleRise * (1 - tagline),
		SocialOpacity:  EaseOut.At(progress(since, SocialDelay, TitleDuration)),
	}
}

// Settled reports whether every transition has finished by elapsed.
func Settled(elapsed time.Duration) bool {
	return elapsed >= LoaderTotal+SocialDelay+TitleDuration
}

func progress(elapsed, delay, duration time.Duration) float64 {
	return palette.Clamp01(float64(elapsed-delay) / float64(duration))
}
