//go:build js && wasm

// Command orrery-wasm takes over the server-rendered page in the browser,
// driving it from the API without full page loads.
package main

import (
	"context"
	"os"
	"time"

	"github.com/signalsfoundry/orrery/internal/client"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/internal/web/dom"
	"github.com/signalsfoundry/orrery/timectrl"
)

const (
	autoplayInterval = 400 * time.Millisecond
	autoplayStepDays = 1
)

func main() {
	ctx := context.Background()
	log := logging.New(logging.Config{Level: "info", Writer: os.Stdout}).
		With(logging.String("component", "orrery-wasm"))

	doc := dom.Global()
	backend, err := client.New(doc.Origin(), client.WithLogger(log))
	if err != nil {
		log.Error(ctx, "build api client", logging.Err(err))
		return
	}
	annotations, err := doc.Annotations()
	if err != nil {
		log.Warn(ctx, "annotations unavailable", logging.Err(err))
	}

	loop := orrery.NewLoop(log)
	app := orrery.NewApp(ctx, orrery.Options{
		Loop:        loop,
		Backend:     backend,
		Views:       doc.Views(),
		Annotations: annotations,
		Prefs:       dom.NewLocalStorage(doc),
		Clock:       timectrl.SystemClock{},
		Autoplay:    timectrl.NewTimeController(autoplayInterval, autoplayStepDays),
		Log:         log,
	})
	bindings := doc.Bind(app)
	defer bindings.Release()

	app.Start()
	log.Info(ctx, "orrery attached")
	_ = loop.Run(ctx)
}
