package dsl

import (
	"fmt"

	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/graph"
)

// implicitSources are the graph source names a DSL program may reference
// without a node_def declaring them.
var implicitSources = map[string]bool{
	"source":   true,
	"source_a": true,
	"source_b": true,
}

// Build compiles a parsed Program into a graph.Graph, resolving filter
// kinds against reg. Every node referenced by name but never declared by
// a node_def must be one of the implicit source names, or Build fails.
// A node whose output is never consumed by another node's input is
// treated as a program output and wired to an auto-created Sink named
// "<node>.out" — the grammar has no explicit sink syntax, so "unconsumed
// output" is the natural stand-in.
func Build(prog *Program, reg *filter.Registry) (*graph.Graph, error) {
	b := &builder{
		g:        graph.New(),
		reg:      reg,
		declared: make(map[string]bool),
		consumed: make(map[string]bool),
	}
	if err := b.assignNames(prog); err != nil {
		return nil, err
	}
	for _, stmt := range b.stmts {
		if err := b.buildStmt(stmt); err != nil {
			return nil, err
		}
	}
	b.addSinks()
	return b.g, nil
}

type namedStmt struct {
	name string
	call FilterCall
}

type builder struct {
	g        *graph.Graph
	reg      *filter.Registry
	stmts    []namedStmt
	declared map[string]bool
	consumed map[string]bool
}

func (b *builder) assignNames(prog *Program) error {
	for i, s := range prog.Stmts {
		name := s.NodeName
		if name == "" {
			name = fmt.Sprintf("_stmt%d", i)
		}
		if b.declared[name] {
			return fmt.Errorf("dsl: node %q declared more than once", name)
		}
		b.declared[name] = true
		b.stmts = append(b.stmts, namedStmt{name: name, call: s.Call})
	}
	return nil
}

func (b *builder) ensureSource(name string) error {
	if b.declared[name] {
		return nil
	}
	if !implicitSources[name] {
		return fmt.Errorf("dsl: reference to undeclared node %q (only source/source_a/source_b may be referenced without a node_def)", name)
	}
	b.declared[name] = true
	b.g.AddSource(name)
	return nil
}

func (b *builder) buildStmt(s namedStmt) error {
	params := map[string]any{}
	type pendingEdge struct {
		fromNode, fromPort, toPort string
	}
	var refs []pendingEdge

	paramIdx := 0
	portIdx := 0
	for _, arg := range s.call.Args {
		if arg.Value.Kind == ValRef {
			if err := b.ensureSource(arg.Value.RefNode); err != nil {
				return fmt.Errorf("dsl: node %q: %w", s.name, err)
			}
			fromPort := arg.Value.RefPort
			if fromPort == "" {
				fromPort = filter.DefaultOutputPort
			}
			// toPort left blank when arg.Key == "" — resolved positionally
			// below once the filter's port schema is known.
			refs = append(refs, pendingEdge{fromNode: arg.Value.RefNode, fromPort: fromPort, toPort: arg.Key})
			b.consumed[arg.Value.RefNode] = true
			portIdx++
			continue
		}
		val, err := valueToParam(arg.Value)
		if err != nil {
			return fmt.Errorf("dsl: node %q: %w", s.name, err)
		}
		key := arg.Key
		if key == "" {
			name, ok := positionalName(s.call.Name, paramIdx)
			if !ok {
				return fmt.Errorf("dsl: %q has no positional parameter form (argument %d); use key=value", s.call.Name, paramIdx)
			}
			key = name
			paramIdx++
		}
		params[key] = val
	}

	f, err := b.reg.Build(s.call.Name, params)
	if err != nil {
		return fmt.Errorf("dsl: node %q: %w", s.name, err)
	}
	b.g.AddFilter(s.name, f)

	unboundPorts := make([]string, 0, len(f.Ports.Inputs))
	for _, p := range f.Ports.Inputs {
		unboundPorts = append(unboundPorts, p.Name)
	}
	next := 0
	for _, e := range refs {
		toPort := e.toPort
		if toPort == "" {
			if next >= len(unboundPorts) {
				return fmt.Errorf("dsl: node %q: more positional port references than declared input ports", s.name)
			}
			toPort = unboundPorts[next]
			next++
		}
		b.g.Connect(e.fromNode, e.fromPort, s.name, toPort)
	}
	return nil
}

// addSinks wires every declared filter node whose output nothing consumes
// to a freshly named Sink, making it a program output.
func (b *builder) addSinks() {
	for _, s := range b.stmts {
		if b.consumed[s.name] {
			continue
		}
		sinkName := s.name + ".out"
		b.g.AddSink(sinkName)
		b.g.Connect(s.name, filter.DefaultOutputPort, sinkName, filter.DefaultInputPort)
	}
}

func valueToParam(v Value) (any, error) {
	switch v.Kind {
	case ValNumber:
		return v.Number, nil
	case ValBool:
		return v.Bool, nil
	case ValString:
		return v.Str, nil
	case ValColor:
		return "#" + v.Color, nil
	case ValTuple:
		out := make([]any, len(v.Tuple))
		for i, el := range v.Tuple {
			cv, err := valueToParam(el)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case ValRef:
		return nil, fmt.Errorf("a reference cannot be used as a literal parameter value")
	default:
		return nil, fmt.Errorf("unhandled value kind %d", v.Kind)
	}
}
