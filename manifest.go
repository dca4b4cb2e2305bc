package flateralus

// ManifestDefinition is the mutable authoring form of a manifest. Pass it to
// CreateManifest to obtain the immutable Manifest used everywhere else.
type ManifestDefinition struct {
	ID          string
	Name        string
	Description string
	Controls    []Control
}

// ManifestSource is accepted by CreateManifest and ValidateManifest. It is
// implemented by ManifestDefinition and *Manifest.
type ManifestSource interface {
	definition() ManifestDefinition
}

func (d ManifestDefinition) definition() ManifestDefinition {
	return d.clone()
}

func (d ManifestDefinition) clone() ManifestDefinition {
	out := d
	if d.Controls != nil {
		out.Controls = make([]Control, len(d.Controls))
		for i, c := range d.Controls {
			if c != nil {
				out.Controls[i] = c.clone()
			}
		}
	}
	return out
}

// Manifest is the immutable declaration of an animation's (or stage's)
// configurable parameters. Every accessor returns copies, so a Manifest
// cannot be modified after CreateManifest returns it.
type Manifest struct {
	id          string
	name        string
	description string
	controls    []Control
	index       map[string]int
}

// CreateManifest freezes src into a Manifest. Passing a *Manifest returns it
// unchanged. CreateManifest does not validate; call ValidateManifest to check
// the structural integrity of the controls.
func CreateManifest(src ManifestSource) *Manifest {
	if m, ok := src.(*Manifest); ok {
		return m
	}
	def := src.definition()
	m := &Manifest{
		id:          def.ID,
		name:        def.Name,
		description: def.Description,
		index:       make(map[string]int, len(def.Controls)),
	}
	for _, c := range def.Controls {
		if c == nil {
			continue
		}
		name := c.Base().Name
		if _, dup := m.index[name]; dup {
			// duplicates are reported by ValidateManifest; lookups see the first
			m.controls = append(m.controls, c)
			continue
		}
		m.index[name] = len(m.controls)
		m.controls = append(m.controls, c)
	}
	return m
}

// MustCreateManifest freezes and validates src, panicking on an invalid
// manifest. It is meant for package-level manifest declarations.
func MustCreateManifest(src ManifestSource) *Manifest {
	m := CreateManifest(src)
	if err := ValidateManifest(m); err != nil {
		panic(err)
	}
	return m
}

func (m *Manifest) definition() ManifestDefinition {
	return ManifestDefinition{
		ID:          m.id,
		Name:        m.name,
		Description: m.description,
		Controls:    m.Controls(),
	}
}

// Definition returns a mutable copy of the manifest.
func (m *Manifest) Definition() ManifestDefinition { return m.definition() }

// ID returns the stable identifier used by exported settings.
func (m *Manifest) ID() string { return m.id }

// Name returns the display name.
func (m *Manifest) Name() string { return m.name }

// Description returns the manifest description.
func (m *Manifest) Description() string { return m.description }

// Len returns the number of controls.
func (m *Manifest) Len() int { return len(m.controls) }

// Controls returns copies of the controls in declaration order.
func (m *Manifest) Controls() []Control {
	out := make([]Control, len(m.controls))
	for i, c := range m.controls {
		out[i] = c.clone()
	}
	return out
}

// Control returns a copy of the control called name.
func (m *Manifest) Control(name string) (Control, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.controls[i].clone(), true
}

// Names returns the control names in declaration order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.controls))
	for i, c := range m.controls {
		out[i] = c.Base().Name
	}
	return out
}

// lookup returns the stored control without copying. Callers must not modify it.
func (m *Manifest) lookup(name string) (Control, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.controls[i], true
}
