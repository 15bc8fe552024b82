package keepalive

import "testing"

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    *Descriptor
		want string
	}{
		{"explicit key wins", &Descriptor{Key: "k1", Component: &Component{ID: 42}, Tag: "tag"}, "k1"},
		{"id and tag", &Descriptor{Component: &Component{ID: 42}, Tag: "tag"}, "42::tag"},
		{"id only", &Descriptor{Component: &Component{ID: 42}}, "42"},
		{"nil component", &Descriptor{Tag: "tag"}, "0::tag"},
		{"nil descriptor", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveKey(tt.d); got != tt.want {
				t.Fatalf("DeriveKey: want %q, got %q", tt.want, got)
			}
		})
	}
}

// Same constructor registered under two tags yields two keys.
func TestDeriveKey_TagDisambiguates(t *testing.T) {
	t.Parallel()

	ctor := &Component{ID: 3, Name: "Tab"}
	a := DeriveKey(&Descriptor{Component: ctor, Tag: "tab-a"})
	b := DeriveKey(&Descriptor{Component: ctor, Tag: "tab-b"})
	if a == b {
		t.Fatalf("keys must differ, both %q", a)
	}
}

func TestDescriptor_Name(t *testing.T) {
	t.Parallel()

	if n := (&Descriptor{Component: &Component{Name: "Foo"}, Tag: "x"}).Name(); n != "Foo" {
		t.Fatalf("component name first, got %q", n)
	}
	if n := (&Descriptor{Component: &Component{}, Tag: "x"}).Name(); n != "x" {
		t.Fatalf("tag fallback, got %q", n)
	}
	var d *Descriptor
	if d.Name() != "" {
		t.Fatal("nil descriptor has no name")
	}
}

func TestKeyerOverride(t *testing.T) {
	t.Parallel()

	c := New[*widget](Options[*widget]{
		Keyer:   KeyerFunc(func(d *Descriptor) string { return "fixed" }),
		Factory: (&counting{}).factory,
	})
	r1 := mustRender(t, c, named("A"))
	r2 := mustRender(t, c, named("B"))
	if r1.Key != "fixed" || r2.State != Hit {
		t.Fatalf("custom keyer ignored: %+v %+v", r1, r2)
	}
}

func TestShapeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b *Descriptor
		same bool
	}{
		{"untagged different constructors", &Descriptor{Component: &Component{ID: 1}}, &Descriptor{Component: &Component{ID: 2}}, false},
		{"shared tag different constructors", &Descriptor{Component: &Component{ID: 1}, Tag: "t"}, &Descriptor{Component: &Component{ID: 2}, Tag: "t"}, false},
		{"same constructor different tags", &Descriptor{Component: &Component{ID: 1}, Tag: "a"}, &Descriptor{Component: &Component{ID: 1}, Tag: "b"}, false},
		{"explicit key ignored", &Descriptor{Key: "k1", Component: &Component{ID: 1}, Tag: "t"}, &Descriptor{Key: "k2", Component: &Component{ID: 1}, Tag: "t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shapeOf(tt.a) == shapeOf(tt.b); got != tt.same {
				t.Fatalf("shapeOf(%q) vs shapeOf(%q): same=%v, want %v", shapeOf(tt.a), shapeOf(tt.b), got, tt.same)
			}
		})
	}
}
