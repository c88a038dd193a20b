package frames

// Handle is one enumerated frame. Export fails when the frame's interface
// cannot be read, e.g. because it is not same-origin.
type Handle interface {
	Export() (Frame, error)
}

// Enumerator lists the descendant frames of the current document.
type Enumerator interface {
	Frames() []Handle
}

// CardFrames holds the discovered frames. Absent frames are nil.
type CardFrames struct {
	Composite CompositeFrame
	Number    NumberFrame
	CVV       FieldFrame
	Expiry    FieldFrame
	Name      FieldFrame
	Postal    FieldFrame
}

// Mounted returns every discovered frame.
func (cf CardFrames) Mounted() []Frame {
	out := make([]Frame, 0, 6)
	if cf.Composite != nil {
		out = append(out, cf.Composite)
	}
	if cf.Number != nil {
		out = append(out, cf.Number)
	}
	if cf.CVV != nil {
		out = append(out, cf.CVV)
	}
	if cf.Expiry != nil {
		out = append(out, cf.Expiry)
	}
	if cf.Name != nil {
		out = append(out, cf.Name)
	}
	if cf.Postal != nil {
		out = append(out, cf.Postal)
	}
	return out
}

// HasAtomicFields reports whether the three mandatory atomic frames are mounted.
func (cf CardFrames) HasAtomicFields() bool {
	return cf.Number != nil && cf.CVV != nil && cf.Expiry != nil
}

// Registry is the lookup over the live card frames.
type Registry interface {
	ListCardFrames() CardFrames
	HasCardFields() bool
}

type registry struct {
	enumerator Enumerator
}

// NewRegistry creates a registry over the given frame enumerator.
func NewRegistry(enumerator Enumerator) Registry {
	return &registry{enumerator: enumerator}
}

// ListCardFrames searches the enumerated frames for recognized field exports.
// The first frame found for a kind wins. Frames whose export cannot be read
// are treated as not found.
func (r *registry) ListCardFrames() CardFrames {
	var cf CardFrames
	if r.enumerator == nil {
		return cf
	}

	for _, h := range r.enumerator.Frames() {
		f := readExport(h)
		if f == nil {
			continue
		}

		switch f.Kind() {
		case KindComposite:
			if c, ok := f.(CompositeFrame); ok && cf.Composite == nil {
				cf.Composite = c
			}
		case KindNumber:
			if n, ok := f.(NumberFrame); ok && cf.Number == nil {
				cf.Number = n
			}
		case KindCVV:
			if v, ok := f.(FieldFrame); ok && cf.CVV == nil {
				cf.CVV = v
			}
		case KindExpiry:
			if v, ok := f.(FieldFrame); ok && cf.Expiry == nil {
				cf.Expiry = v
			}
		case KindName:
			if v, ok := f.(FieldFrame); ok && cf.Name == nil {
				cf.Name = v
			}
		case KindPostal:
			if v, ok := f.(FieldFrame); ok && cf.Postal == nil {
				cf.Postal = v
			}
		}
	}
	return cf
}

// HasCardFields is true when a composite frame or all mandatory atomic frames are mounted.
func (r *registry) HasCardFields() bool {
	cf := r.ListCardFrames()
	return cf.Composite != nil || cf.HasAtomicFields()
}

func readExport(h Handle) (f Frame) {
	if h == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			f = nil
		}
	}()

	f, err := h.Export()
	if err != nil {
		return nil
	}
	return f
}

// StaticEnumerator enumerates a fixed set of frames.
type StaticEnumerator []Frame

func (s StaticEnumerator) Frames() []Handle {
	out := make([]Handle, 0, len(s))
	for _, f := range s {
		out = append(out, staticHandle{f})
	}
	return out
}

type staticHandle struct {
	frame Frame
}

func (h staticHandle) Export() (Frame, error) {
	return h.frame, nil
}
