package patch

// Change describes one successful mutation as a batch of affected ids.
// A batch carries only what changed: the router re-routes links incident on
// Moved nodes, drops cached paths for LinksRemoved, and routes LinksAdded.
type Change struct {
	NodesAdded   []NodeID
	NodesRemoved []NodeID
	Moved        []NodeID
	LinksAdded   []LinkID
	LinksRemoved []LinkID
}

// IsZero reports whether the change carries nothing.
func (c Change) IsZero() bool {
	return len(c.NodesAdded) == 0 && len(c.NodesRemoved) == 0 &&
		len(c.Moved) == 0 && len(c.LinksAdded) == 0 && len(c.LinksRemoved) == 0
}

// Observer receives change batches after each successful mutation.
// Observers run synchronously on the mutating call; they must not mutate
// the patch re-entrantly.
type Observer interface {
	PatchChanged(Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Change)

// PatchChanged calls f.
func (f ObserverFunc) PatchChanged(c Change) { f(c) }

// Observe registers an observer. Observers are notified in registration
// order. There is no removal; observers live as long as the patch.
func (p *Patch) Observe(o Observer) {
	p.observers = append(p.observers, o)
}

func (p *Patch) notify(c Change) {
	if c.IsZero() {
		return
	}
	for _, o := range p.observers {
		o.PatchChanged(c)
	}
}
