package orrery

import (
	"context"

	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/timectrl"
)

// Player animates the diagram by shifting the date on every autoplay tick.
type Player struct {
	ctx   context.Context
	loop  Dispatcher
	dates *DateController
	tc    *timectrl.TimeController
	log   logging.Logger

	onChange func(playing bool)
}

// NewPlayer wires tc ticks into dates through the UI loop.
func NewPlayer(ctx context.Context, loop Dispatcher, dates *DateController, tc *timectrl.TimeController, log logging.Logger) *Player {
	if log == nil {
		log = logging.Noop()
	}
	p := &Player{ctx: ctx, loop: loop, dates: dates, tc: tc, log: log.With(logging.String("component", "autoplay"))}
	tc.AddListener(func(tick timectrl.Tick) {
		loop.Post(func() { p.step(tick) })
	})
	return p
}

// OnChange registers a callback for play/pause transitions.
func (p *Player) OnChange(fn func(playing bool)) { p.onChange = fn }

// Playing reports whether autoplay is running.
func (p *Player) Playing() bool { return p.tc.Running() }

// Toggle starts or pauses autoplay.
func (p *Player) Toggle() bool {
	playing := p.tc.Toggle(p.ctx)
	p.log.Info(p.ctx, "autoplay toggled", logging.Bool("playing", playing))
	if p.onChange != nil {
		p.onChange(playing)
	}
	return playing
}

// Stop pauses autoplay.
func (p *Player) Stop() {
	if !p.tc.Running() {
		return
	}
	p.tc.Stop()
	if p.onChange != nil {
		p.onChange(false)
	}
}

func (p *Player) step(tick timectrl.Tick) {
	if err := p.dates.Advance(tick.Days); err != nil {
		p.log.Warn(p.ctx, "autoplay step failed", logging.Err(err))
	}
}
