// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/naga/ir"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/geometry"
)

// Names the program's bindings are resolved by.
const (
	UniformMVP    = "MVP"
	AttributePos  = "vPos"
	AttributeCol  = "vCol"
	mvpTypeName   = "mat4x4<f32>"
	posTypeName   = "vec2<f32>"
	colorTypeName = "vec3<f32>"
)

// ResourceSlot is a @group/@binding pair.
type ResourceSlot struct {
	Group   uint32
	Binding uint32
}

// Bindings maps the program's named inputs to their slots.
type Bindings struct {
	MVP  ResourceSlot
	VPos uint32
	VCol uint32
}

// Expected is the binding table the renderer and vertex layout are built
// against. Link fails if the compiled program disagrees with it.
var Expected = Bindings{
	MVP:  ResourceSlot{Group: 0, Binding: 0},
	VPos: geometry.PositionLocation,
	VCol: geometry.ColorLocation,
}

// LinkError reports an incompatible vertex/fragment pair or a binding that
// does not match Expected.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader: link failed: " + e.Log
}

// Program is a linked vertex/fragment pair.
type Program struct {
	Vertex   *Shader
	Fragment *Shader
	Bindings Bindings
}

// Link checks the stage interface and resolves bindings by name.
func Link(vs, fs *Shader) (*Program, error) {
	if vs == nil || vs.Stage != Vertex || fs == nil || fs.Stage != Fragment {
		return nil, &LinkError{Log: "need one vertex and one fragment shader"}
	}

	var problems []string
	problems = append(problems, checkInterface(vs, fs)...)

	b, resolveProblems := resolve(vs)
	problems = append(problems, resolveProblems...)

	if len(problems) > 0 {
		return nil, &LinkError{Log: strings.Join(problems, "\n")}
	}
	if b != Expected {
		return nil, &LinkError{Log: fmt.Sprintf("bindings %+v differ from expected %+v", b, Expected)}
	}

	hellotriangle.Logger().Info("shader program linked",
		"vertex", vs.EntryPoint(),
		"fragment", fs.EntryPoint(),
		"mvp_group", b.MVP.Group,
		"mvp_binding", b.MVP.Binding,
		"vpos", b.VPos,
		"vcol", b.VCol)

	return &Program{Vertex: vs, Fragment: fs, Bindings: b}, nil
}

// Load compiles and links the embedded sources.
func Load() (*Program, error) {
	vs, err := Compile(Vertex, VertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := Compile(Fragment, FragmentSource)
	if err != nil {
		return nil, err
	}
	return Link(vs, fs)
}

// checkInterface verifies that every fragment input location is written by
// the vertex stage with an identical type.
func checkInterface(vs, fs *Shader) []string {
	outputs := map[uint32]string{}
	if res := vs.Entry.Function.Result; res != nil {
		collectLocations(vs.Module, res.Binding, res.Type, outputs)
	}

	inputs := map[uint32]string{}
	for _, arg := range fs.Entry.Function.Arguments {
		collectLocations(fs.Module, arg.Binding, arg.Type, inputs)
	}

	locs := make([]uint32, 0, len(inputs))
	for loc := range inputs {
		locs = append(locs, loc)
	}
	slices.Sort(locs)

	var problems []string
	for _, loc := range locs {
		want := inputs[loc]
		got, ok := outputs[loc]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("fragment input @location(%d) is not written by the vertex stage", loc))
		case got != want:
			problems = append(problems, fmt.Sprintf("@location(%d): vertex writes %s, fragment reads %s", loc, got, want))
		}
	}
	return problems
}

// collectLocations records the type of every @location value reachable
// from a binding/type pair, descending into struct members.
func collectLocations(m *ir.Module, binding *ir.Binding, th ir.TypeHandle, into map[uint32]string) {
	if binding != nil {
		if lb, ok := (*binding).(ir.LocationBinding); ok {
			into[lb.Location] = typeName(m, th)
		}
		return
	}
	if int(th) >= len(m.Types) {
		return
	}
	st, ok := m.Types[th].Inner.(ir.StructType)
	if !ok {
		return
	}
	for _, member := range st.Members {
		if member.Binding != nil {
			collectLocations(m, member.Binding, member.Type, into)
		}
	}
}

// resolve looks up the named uniform and attributes in the vertex stage.
func resolve(vs *Shader) (Bindings, []string) {
	var (
		b        Bindings
		problems []string
		found    = map[string]bool{}
	)

	for _, gv := range vs.Module.GlobalVariables {
		if gv.Name != UniformMVP {
			continue
		}
		found[UniformMVP] = true
		switch {
		case gv.Space != ir.SpaceUniform:
			problems = append(problems, UniformMVP+" is not a uniform")
		case gv.Binding == nil:
			problems = append(problems, UniformMVP+" has no @group/@binding")
		default:
			b.MVP = ResourceSlot{Group: gv.Binding.Group, Binding: gv.Binding.Binding}
		}
		if tn := typeName(vs.Module, gv.Type); tn != mvpTypeName {
			problems = append(problems, fmt.Sprintf("%s has type %s, want %s", UniformMVP, tn, mvpTypeName))
		}
	}

	attrs := []struct {
		name string
		typ  string
		dst  *uint32
	}{
		{AttributePos, posTypeName, &b.VPos},
		{AttributeCol, colorTypeName, &b.VCol},
	}
	for _, arg := range vs.Entry.Function.Arguments {
		for _, a := range attrs {
			if arg.Name != a.name {
				continue
			}
			found[a.name] = true
			lb, ok := locationOf(arg.Binding)
			if !ok {
				problems = append(problems, a.name+" has no @location")
				continue
			}
			*a.dst = lb
			if tn := typeName(vs.Module, arg.Type); tn != a.typ {
				problems = append(problems, fmt.Sprintf("%s has type %s, want %s", a.name, tn, a.typ))
			}
		}
	}

	for _, name := range []string{UniformMVP, AttributePos, AttributeCol} {
		if !found[name] {
			problems = append(problems, fmt.Sprintf("%s not found in %s", name, vs.EntryPoint()))
		}
	}
	return b, problems
}

func locationOf(binding *ir.Binding) (uint32, bool) {
	if binding == nil {
		return 0, false
	}
	lb, ok := (*binding).(ir.LocationBinding)
	return lb.Location, ok
}

// typeName renders a type handle in WGSL spelling for diagnostics and
// cross-module comparison.
func typeName(m *ir.Module, th ir.TypeHandle) string {
	if int(th) >= len(m.Types) {
		return fmt.Sprintf("type#%d", th)
	}
	t := m.Types[th]
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarName(inner.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", inner.Columns, inner.Rows, scalarName(inner.Scalar))
	default:
		if t.Name != "" {
			return t.Name
		}
		return fmt.Sprintf("%T", inner)
	}
}

func scalarName(s ir.ScalarType) string {
	var prefix string
	switch s.Kind {
	case ir.ScalarFloat:
		prefix = "f"
	case ir.ScalarSint:
		prefix = "i"
	case ir.ScalarUint:
		prefix = "u"
	case ir.ScalarBool:
		return "bool"
	default:
		return "abstract"
	}
	return fmt.Sprintf("%s%d", prefix, int(s.Width)*8)
}
