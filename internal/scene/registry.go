package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jinzhu/copier"

	"wildfox-engine/internal/mesh"
)

// ErrNotFound is returned when an ID names no live object.
var ErrNotFound = errors.New("scene: object not found")

// Drawer receives each active object during RenderAll.
type Drawer interface {
	DrawObject(o *Object)
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(o *Object)

func (f DrawerFunc) DrawObject(o *Object) { f(o) }

// Registry owns every scene object. Iteration always follows ascending ID, which is
// creation order. Callbacks passed to ForEachActive, Update and RenderAll must not
// create or remove objects. All methods run on the main thread.
type Registry struct {
	ids      IDAllocator
	objects  map[ID]*Object
	order    []ID
	onRemove []func(*Object)
	log      *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{objects: map[ID]*Object{}, log: log}
}

// Create adds a new active object that takes ownership of model. A nil transform
// means the identity transform.
func (r *Registry) Create(name string, model *mesh.Model, t *Transform) ID {
	tr := NewTransform()
	if t != nil {
		tr = *t
	}
	obj := &Object{
		Name:      name,
		Active:    true,
		Transform: tr,
		Params:    DefaultParams(),
		id:        r.ids.Next(),
		model:     model,
	}
	if model != nil && obj.Source == "" {
		obj.Source = model.Name
	}
	r.objects[obj.id] = obj
	// IDs only grow, so appending keeps order sorted.
	r.order = append(r.order, obj.id)
	r.log.Debug("object created", "id", obj.id, "name", name)
	return obj.id
}

// Get returns the live object with id.
func (r *Registry) Get(id ID) (*Object, bool) {
	o, ok := r.objects[id]
	return o, ok
}

// OnRemove registers fn to run for every object removed by Remove or Clear,
// after it has left the registry and before its model is released.
func (r *Registry) OnRemove(fn func(*Object)) {
	r.onRemove = append(r.onRemove, fn)
}

func (r *Registry) drop(o *Object) {
	delete(r.objects, o.id)
	o.removed = true
	for _, fn := range r.onRemove {
		fn(o)
	}
	o.model.Release()
	o.model = nil
}

// Remove deletes the object and releases its GPU storage. Returns false when id is unknown.
func (r *Registry) Remove(id ID) bool {
	o, ok := r.objects[id]
	if !ok {
		return false
	}
	if i, found := slices.BinarySearch(r.order, id); found {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.drop(o)
	r.log.Debug("object removed", "id", id, "name", o.Name)
	return true
}

// Clear removes every object in ID order.
func (r *Registry) Clear() {
	order := r.order
	r.order = nil
	for _, id := range order {
		if o, ok := r.objects[id]; ok {
			r.drop(o)
		}
	}
	r.log.Debug("scene cleared", "removed", len(order))
}

// Len returns the number of live objects, active or not.
func (r *Registry) Len() int { return len(r.order) }

// Objects returns all live objects in ID order.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

// ForEachActive visits every active object in ID order.
func (r *Registry) ForEachActive(fn func(*Object)) {
	for _, id := range r.order {
		if o := r.objects[id]; o.Active {
			fn(o)
		}
	}
}

// Update advances every active object by dt seconds.
func (r *Registry) Update(dt float32) {
	r.ForEachActive(func(o *Object) { o.Update(dt) })
}

// RenderAll hands every active object to d in ID order.
func (r *Registry) RenderAll(d Drawer) {
	r.ForEachActive(d.DrawObject)
}

// Duplicate creates a copy of id's name, transform, params and source that owns model,
// which the caller must build fresh since geometry is never shared.
func (r *Registry) Duplicate(id ID, model *mesh.Model) (ID, error) {
	src, ok := r.objects[id]
	if !ok {
		return 0, fmt.Errorf("duplicate %d: %w", id, ErrNotFound)
	}
	var dup Object
	if err := copier.Copy(&dup, src); err != nil {
		return 0, fmt.Errorf("duplicate %d: %w", id, err)
	}
	newID := r.Create(src.Name+" copy", model, &dup.Transform)
	o := r.objects[newID]
	o.Active = dup.Active
	o.Params = dup.Params
	o.Source = dup.Source
	return newID, nil
}
