package combat

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/la2go-combat/internal/model"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrEntityExists  = errors.New("entity already registered")
)

// Registry owns the combat State of every entity in the world and resolves
// ids for effects. It is the engine's exposed read surface.
//
// Thread-safe via sync.Map.
type Registry struct {
	deps   Deps
	states sync.Map // map[model.ObjectID]*State
	count  atomic.Int32
}

// NewRegistry creates an empty registry sharing deps across its states.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{deps: deps.withDefaults()}
	r.deps.resolver = r
	return r
}

// SetAttackResolver replaces the resolver DoT ticks are sent to.
// Resolvers usually need the registry itself, so they are wired after
// NewRegistry. Must be called before the tick loop starts.
func (r *Registry) SetAttackResolver(a AttackResolver) {
	if a == nil {
		a = nopAttacks{}
	}
	r.deps.Attacks = a
}

// Add creates the combat state for e.
func (r *Registry) Add(e *model.Entity) (*State, error) {
	st := newState(e, &r.deps)
	if _, loaded := r.states.LoadOrStore(e.ID(), st); loaded {
		return nil, fmt.Errorf("adding entity %d: %w", e.ID(), ErrEntityExists)
	}
	r.count.Add(1)

	slog.Debug("combat state registered", "objectID", e.ID(), "kind", e.Kind())
	return st, nil
}

// Remove drops the state of id and returns it.
func (r *Registry) Remove(id model.ObjectID) (*State, bool) {
	v, ok := r.states.LoadAndDelete(id)
	if !ok {
		return nil, false
	}
	r.count.Add(-1)

	slog.Debug("combat state unregistered", "objectID", id)
	return v.(*State), true
}

// State implements Resolver.
func (r *Registry) State(id model.ObjectID) (*State, bool) {
	v, ok := r.states.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*State), true
}

// Range calls fn for every state until it returns false.
func (r *Registry) Range(fn func(*State) bool) {
	r.states.Range(func(_, v any) bool {
		return fn(v.(*State))
	})
}

// Len returns number of registered states (O(1) cached count).
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// EffectiveValue returns the effective attr of entity id.
func (r *Registry) EffectiveValue(id model.ObjectID, attr model.Attribute) (int32, error) {
	st, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return st.Value(attr), nil
}

// ActiveStatuses returns the status snapshot of entity id.
func (r *Registry) ActiveStatuses(id model.ObjectID) ([]Status, error) {
	st, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return st.Statuses(), nil
}

// ActiveDoTs returns the DoT snapshot of entity id.
func (r *Registry) ActiveDoTs(id model.ObjectID) ([]DoT, error) {
	st, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return st.DoTs(), nil
}

func (r *Registry) lookup(id model.ObjectID) (*State, error) {
	st, ok := r.State(id)
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", id, ErrUnknownEntity)
	}
	return st, nil
}
