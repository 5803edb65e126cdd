package kb

import (
	"sync"
	"testing"

	"github.com/signalsfoundry/orrery/model"
)

func TestSolarSystemPreloaded(t *testing.T) {
	c := NewSolarSystem()
	for _, id := range model.Bodies {
		if _, ok := c.Get(id); !ok {
			t.Fatalf("Get(%q) missing from preloaded catalog", id)
		}
	}
	sun, _ := c.Get(model.Sun)
	if sun.Elements != nil || sun.RingRadius != 0 {
		t.Fatalf("sun should have no orbit, got %#v", sun)
	}
}

func TestRingRadiiMatchDiagram(t *testing.T) {
	want := map[model.BodyID]float64{
		model.Mercury: 110, model.Venus: 170, model.Earth: 230, model.Mars: 290,
		model.Jupiter: 400, model.Saturn: 500, model.Uranus: 600, model.Neptune: 700,
	}
	got := NewSolarSystem().RingRadii()
	if len(got) != len(want) {
		t.Fatalf("RingRadii returned %d entries, want %d", len(got), len(want))
	}
	for id, r := range want {
		if got[id] != r {
			t.Fatalf("ring radius for %s = %v, want %v", id, got[id], r)
		}
	}
}

func TestPlanetsSortedOutwards(t *testing.T) {
	planets := NewSolarSystem().Planets()
	if len(planets) != len(model.Planets) {
		t.Fatalf("Planets returned %d bodies, want %d", len(planets), len(model.Planets))
	}
	for i, p := range planets {
		if p.ID != model.Planets[i] {
			t.Fatalf("planet %d = %s, want %s", i, p.ID, model.Planets[i])
		}
	}
}

func TestAddDuplicate(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(BodyFacts{ID: model.Earth}); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	if err := c.Add(BodyFacts{ID: model.Earth}); err == nil {
		t.Fatalf("expected duplicate Add to fail")
	}
	if err := c.Add(BodyFacts{}); err == nil {
		t.Fatalf("expected Add without id to fail")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := NewSolarSystem()
	b, _ := c.Get(model.Mars)
	b.RingRadius = 1
	again, _ := c.Get(model.Mars)
	if again.RingRadius != 290 {
		t.Fatalf("mutating a returned copy changed the catalog: %v", again.RingRadius)
	}
}

func TestSetRingRadiusNotifiesSubscribers(t *testing.T) {
	c := NewSolarSystem()
	var got []Event
	unsubscribe := c.Subscribe(func(e Event) {
		// Reading inside the callback must not deadlock.
		_, _ = c.Get(e.Body.ID)
		got = append(got, e)
	})

	if err := c.SetRingRadius(model.Mars, 320); err != nil {
		t.Fatalf("SetRingRadius error: %v", err)
	}
	if len(got) != 1 || got[0].Type != EventBodyUpdated || got[0].Body.RingRadius != 320 {
		t.Fatalf("unexpected events: %#v", got)
	}

	unsubscribe()
	if err := c.SetRingRadius(model.Mars, 330); err != nil {
		t.Fatalf("SetRingRadius error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unsubscribed callback still invoked, %d events", len(got))
	}
}

func TestSetRingRadiusRejects(t *testing.T) {
	c := NewSolarSystem()
	if err := c.SetRingRadius(model.Earth, 0); err == nil {
		t.Fatalf("expected non-positive radius to fail")
	}
	if err := c.SetRingRadius(model.Sun, 50); err == nil {
		t.Fatalf("expected sun radius change to fail")
	}
	if err := c.SetRingRadius("pluto", 800); err == nil {
		t.Fatalf("expected unknown body to fail")
	}
}

func TestConcurrentReads(t *testing.T) {
	c := NewSolarSystem()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.Planets[i]
			for j := 0; j < 100; j++ {
				if _, ok := c.Get(id); !ok {
					t.Errorf("Get(%s) missing", id)
					return
				}
				_ = c.RingRadii()
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			_ = c.SetRingRadius(model.Neptune, float64(700+j))
		}
	}()
	wg.Wait()
}
