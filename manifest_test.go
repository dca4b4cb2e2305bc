package flateralus

import "testing"

func testDefinition() ManifestDefinition {
	return ManifestDefinition{
		ID:   "test",
		Name: "Test",
		Controls: []Control{
			Slider("speed", 5, Range(0, 10), Step(1)),
			Toggle("loop", true),
			Color("tint", "#ff0000"),
			Select("shape", "circle", Choices("circle", "square")),
			Group("palette", GroupColor, []GroupItemValue{ColorItem("#fff"), ColorItem("#000")}, MinItems(1), MaxItems(4)),
		},
	}
}

func TestCreateManifest(t *testing.T) {
	m := CreateManifest(testDefinition())
	if m.ID() != "test" || m.Name() != "Test" {
		t.Errorf("ID/Name = %q/%q", m.ID(), m.Name())
	}
	if m.Len() != 5 {
		t.Fatalf("Len = %d, want 5", m.Len())
	}
	names := m.Names()
	want := []string{"speed", "loop", "tint", "shape", "palette"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	c, ok := m.Control("shape")
	if !ok || c.Type() != ControlSelect {
		t.Errorf("Control(shape) = %v, %v", c, ok)
	}
	if _, ok := m.Control("missing"); ok {
		t.Error("Control(missing) should not be found")
	}
}

func TestCreateManifestIdempotent(t *testing.T) {
	m := CreateManifest(testDefinition())
	if again := CreateManifest(m); again != m {
		t.Error("CreateManifest(*Manifest) should return the same manifest")
	}
}

func TestManifestIsolatedFromDefinition(t *testing.T) {
	def := testDefinition()
	m := CreateManifest(def)

	// Mutating the authoring definition after freezing has no effect.
	def.ID = "changed"
	def.Controls[0] = Toggle("speed", false)
	sel := def.Controls[3].(SelectControl)
	sel.Options[0].Value = "triangle"

	if m.ID() != "test" {
		t.Errorf("ID = %q, want %q", m.ID(), "test")
	}
	c, _ := m.Control("speed")
	if c.Type() != ControlNumber {
		t.Errorf("speed type = %q, want number", c.Type())
	}
	s, _ := m.Control("shape")
	if s.(SelectControl).Options[0].Value != "circle" {
		t.Error("select options changed through the definition")
	}
}

func TestManifestAccessorsReturnCopies(t *testing.T) {
	m := CreateManifest(testDefinition())

	controls := m.Controls()
	controls[0] = Toggle("speed", false)
	n := m.Controls()[0].(NumberControl)
	*n.Max = 999
	g := m.Controls()[4].(GroupControl)
	g.DefaultValue[0].Value = "#123456"

	def := m.Definition()
	def.Controls = nil

	got := m.Controls()[0].(NumberControl)
	if *got.Max != 10 {
		t.Errorf("Max = %v, want 10", *got.Max)
	}
	gg := m.Controls()[4].(GroupControl)
	if gg.DefaultValue[0].Value != "#fff" {
		t.Errorf("group default = %v, want #fff", gg.DefaultValue[0].Value)
	}
	if m.Len() != 5 {
		t.Errorf("Len = %d, want 5", m.Len())
	}
}

func TestMustCreateManifestPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an invalid manifest")
		}
	}()
	MustCreateManifest(ManifestDefinition{ID: "bad", Controls: []Control{Select("s", "x")}})
}
