package page

// Locate returns the first section, in declaration order, whose region
// crosses the reference line. Sections without measurable geometry are
// skipped. ok is false when no section matches.
//
// When regions overlap, the earlier declared section wins. Stacked
// sections share at most an edge, so this only decides the boundary row.
func Locate(sections Sections, geometry Geometry, referenceLine float64) (id SectionID, ok bool) {
	for _, id := range sections.order {
		r, measurable := geometry.RegionBounds(id)
		if !measurable {
			continue
		}
		if r.Crosses(referenceLine) {
			return id, true
		}
	}
	return "", false
}

// ScrollSource delivers scroll events. Subscribe returns a func that stops
// delivery to handler.
type ScrollSource interface {
	Subscribe(handler func()) (unsubscribe func())
}

// Tracker keeps the controller's active section in step with the viewport.
type Tracker struct {
	c             *Controller
	geometry      Geometry
	referenceLine float64
}

// Evaluate runs one tracking pass. On a match the section is published as
// active; otherwise the previous active section is kept. It returns the
// active section after the pass.
func (t *Tracker) Evaluate() SectionID {
	if id, ok := Locate(t.c.sections, t.geometry, t.referenceLine); ok {
		t.c.active = id
	}
	return t.c.active
}

// ReferenceLine returns the y position the tracker tests against.
func (t *Tracker) ReferenceLine() float64 { return t.referenceLine }

// Mount evaluates once and then on every scroll event from source until the
// returned release func is called. Release is idempotent.
func (t *Tracker) Mount(source ScrollSource) (release func()) {
	t.Evaluate()

	live := true
	unsubscribe := source.Subscribe(func() {
		if live {
			t.Evaluate()
		}
	})
	return func() {
		if !live {
			return
		}
		live = false
		unsubscribe()
	}
}

// Feed is a ScrollSource that hosts fire by hand.
type Feed struct {
	handlers map[int]func()
	next     int
}

func (f *Feed) Subscribe(handler func()) func() {
	if f.handlers == nil {
		f.handlers = make(map[int]func())
	}
	id := f.next
	f.next++
	f.handlers[id] = handler
	return func() { delete(f.handlers, id) }
}

// Emit delivers one scroll event to every subscriber.
func (f *Feed) Emit() {
	for _, h := range f.handlers {
		h()
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int { return len(f.handlers) }
