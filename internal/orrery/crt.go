package orrery

import (
	"context"

	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/prefs"
)

// CRTController applies and persists the CRT filter preference.
type CRTController struct {
	ctx   context.Context
	store prefs.Store
	view  CRTView
	log   logging.Logger
	on    bool
}

// NewCRTController reads the stored preference and applies it.
func NewCRTController(ctx context.Context, store prefs.Store, view CRTView, log logging.Logger) *CRTController {
	if log == nil {
		log = logging.Noop()
	}
	c := &CRTController{ctx: ctx, store: store, view: view, log: log, on: prefs.LoadCRT(store)}
	view.SetCRT(c.on)
	return c
}

// On reports the current state.
func (c *CRTController) On() bool { return c.on }

// Toggle flips the filter. Persistence failures leave the visual change in
// place.
func (c *CRTController) Toggle() bool {
	c.on = !c.on
	c.view.SetCRT(c.on)
	if err := prefs.SaveCRT(c.store, c.on); err != nil {
		c.log.Warn(c.ctx, "could not persist crt preference", logging.Err(err))
	}
	return c.on
}
