package scene

// Selection is a reference to at most one object that can never dangle: it clears
// itself when the object leaves its registry, and Get re-checks identity.
type Selection struct {
	reg *Registry
	obj *Object
}

// NewSelection tracks objects of reg.
func NewSelection(reg *Registry) *Selection {
	s := &Selection{reg: reg}
	reg.OnRemove(func(o *Object) {
		if s.obj == o {
			s.obj = nil
		}
	})
	return s
}

// Set selects o. Objects that are removed or belong to another registry clear the selection.
func (s *Selection) Set(o *Object) {
	if o == nil || o.removed {
		s.obj = nil
		return
	}
	if live, ok := s.reg.Get(o.id); !ok || live != o {
		s.obj = nil
		return
	}
	s.obj = o
}

// SetID selects the object with id; unknown ids clear the selection.
func (s *Selection) SetID(id ID) bool {
	o, ok := s.reg.Get(id)
	if !ok {
		s.obj = nil
		return false
	}
	s.obj = o
	return true
}

// Get returns the selected object if it is still live.
func (s *Selection) Get() (*Object, bool) {
	if s.obj == nil || s.obj.removed {
		s.obj = nil
		return nil, false
	}
	return s.obj, true
}

// Is reports whether o is the current selection.
func (s *Selection) Is(o *Object) bool {
	cur, ok := s.Get()
	return ok && cur == o
}

func (s *Selection) Clear() { s.obj = nil }
