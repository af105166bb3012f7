// Package graph implements the Graph value: a DAG of Source, Sink, and
// Filter nodes connected by named typed ports. Construction-time validation
// rejects cycles, uncovered required ports, and port type mismatches with a
// typed engerr.GraphInvalid error before a single pixel is touched. Grounded
// on core/processor.go's Batch/ProcessVariants fan-out shape, generalized
// from a fixed linear step list to a general DAG with named ports.
package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/rimage"
)

// Kind distinguishes the three node roles a Graph can hold.
type Kind int

const (
	KindSource Kind = iota
	KindSink
	KindFilter
)

// Node is one vertex of the graph: a Source/Sink (pure port plumbing) or
// a Filter node wrapping a *filter.Filter descriptor.
type Node struct {
	Name   string
	Kind   Kind
	Filter *filter.Filter // nil for Source/Sink
}

// portRef names one (node, port) pair ("a connection specifies (from_node,
// from_port) → (to_node, to_port)").
type portRef struct {
	Node string
	Port string
}

// Edge connects an upstream output port to a downstream input port.
type Edge struct {
	From portRef
	To   portRef
}

// Graph is a DAG of named nodes connected by typed ports.
type Graph struct {
	nodes      map[string]*Node
	order      []string // insertion order, kept for deterministic validation errors
	edges      []Edge
	validated  bool
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddSource registers a Source node. Sources accept external input at
// execution time, named by the caller.
func (g *Graph) AddSource(name string) *Graph {
	return g.addNode(&Node{Name: name, Kind: KindSource})
}

// AddSink registers a Sink node. The bound upstream value is emitted as
// the Graph's output under the Sink's name.
func (g *Graph) AddSink(name string) *Graph {
	return g.addNode(&Node{Name: name, Kind: KindSink})
}

// AddFilter registers a Filter node.
func (g *Graph) AddFilter(name string, f *filter.Filter) *Graph {
	return g.addNode(&Node{Name: name, Kind: KindFilter, Filter: f})
}

func (g *Graph) addNode(n *Node) *Graph {
	if g.nodes == nil {
		g.nodes = make(map[string]*Node)
	}
	if _, exists := g.nodes[n.Name]; !exists {
		g.order = append(g.order, n.Name)
	}
	g.nodes[n.Name] = n
	g.validated = false
	return g
}

// Connect binds (fromNode, fromPort) to (toNode, toPort). For Source/Sink
// nodes, port is conventionally the filter.DefaultInputPort/
// DefaultOutputPort name.
func (g *Graph) Connect(fromNode, fromPort, toNode, toPort string) *Graph {
	g.edges = append(g.edges, Edge{From: portRef{fromNode, fromPort}, To: portRef{toNode, toPort}})
	g.validated = false
	return g
}

// Validate checks acyclicity, required-port coverage, and connection type
// compatibility, returning an engerr.GraphInvalid error describing the
// first problem found.
func (g *Graph) Validate() error {
	if err := g.checkNodesAndPorts(); err != nil {
		return err
	}
	if _, err := g.topoOrder(); err != nil {
		return err
	}
	if err := g.checkSourcesAndSinks(); err != nil {
		return err
	}
	g.validated = true
	return nil
}

func (g *Graph) checkNodesAndPorts() error {
	boundInputs := make(map[portRef]portRef)
	for _, e := range g.edges {
		fromNode, ok := g.nodes[e.From.Node]
		if !ok {
			return graphErr(fmt.Errorf("edge references unknown node %q", e.From.Node))
		}
		toNode, ok := g.nodes[e.To.Node]
		if !ok {
			return graphErr(fmt.Errorf("edge references unknown node %q", e.To.Node))
		}
		if prev, dup := boundInputs[e.To]; dup {
			return graphErr(fmt.Errorf("input port %s.%s bound more than once (from %s.%s and %s.%s): %w",
				e.To.Node, e.To.Port, prev.Node, prev.Port, e.From.Node, e.From.Port, engerr.ErrDuplicateBinding))
		}
		boundInputs[e.To] = e.From

		outKind, err := outputPortKind(fromNode, e.From.Port)
		if err != nil {
			return err
		}
		inKind, _, err := inputPortKind(toNode, e.To.Port)
		if err != nil {
			return err
		}
		if outKind != inKind {
			return graphErr(fmt.Errorf("%s.%s (%s) -> %s.%s (%s): %w",
				e.From.Node, e.From.Port, outKind, e.To.Node, e.To.Port, inKind, engerr.ErrPortTypeMismatch))
		}
	}

	// Every required input port on every Filter/Sink node must be bound.
	for _, name := range g.order {
		n := g.nodes[name]
		for _, p := range requiredInputPorts(n) {
			if _, bound := boundInputs[portRef{name, p}]; !bound {
				return graphErr(fmt.Errorf("%s.%s: %w", name, p, engerr.ErrUnboundPort))
			}
		}
	}
	return nil
}

func requiredInputPorts(n *Node) []string {
	switch n.Kind {
	case KindSink:
		return []string{filter.DefaultInputPort}
	case KindFilter:
		var names []string
		for _, p := range n.Filter.Ports.Inputs {
			if p.Required {
				names = append(names, p.Name)
			}
		}
		return names
	default:
		return nil
	}
}

func outputPortKind(n *Node, port string) (filter.ValueKind, error) {
	switch n.Kind {
	case KindSource:
		if port != filter.DefaultOutputPort {
			return 0, graphErr(fmt.Errorf("source %q has no output port %q", n.Name, port))
		}
		return filter.ValueImage, nil
	case KindFilter:
		for _, p := range n.Filter.Ports.Outputs {
			if p.Name == port {
				return p.Kind, nil
			}
		}
		return 0, graphErr(fmt.Errorf("filter node %q has no output port %q", n.Name, port))
	default:
		return 0, graphErr(fmt.Errorf("node %q (kind %d) cannot be an edge source", n.Name, n.Kind))
	}
}

func inputPortKind(n *Node, port string) (filter.ValueKind, bool, error) {
	switch n.Kind {
	case KindSink:
		if port != filter.DefaultInputPort {
			return 0, false, graphErr(fmt.Errorf("sink %q has no input port %q", n.Name, port))
		}
		return filter.ValueImage, true, nil
	case KindFilter:
		for _, p := range n.Filter.Ports.Inputs {
			if p.Name == port {
				return p.Kind, p.Required, nil
			}
		}
		return 0, false, graphErr(fmt.Errorf("filter node %q has no input port %q", n.Name, port))
	default:
		return 0, false, graphErr(fmt.Errorf("node %q (kind %d) cannot be an edge target", n.Name, n.Kind))
	}
}

func (g *Graph) checkSourcesAndSinks() error {
	var sources, sinks int
	for _, name := range g.order {
		switch g.nodes[name].Kind {
		case KindSource:
			sources++
		case KindSink:
			sinks++
		}
	}
	if sources == 0 || sinks == 0 {
		return graphErr(engerr.ErrMissingSourceOrSink)
	}
	return nil
}

// topoOrder returns nodes in a valid topological order (Kahn's
// algorithm), or an engerr.GraphInvalid error wrapping
// engerr.ErrCyclicGraph if the graph contains a cycle.
func (g *Graph) topoOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	adj := make(map[string][]string, len(g.nodes))
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, e := range g.edges {
		adj[e.From.Node] = append(adj[e.From.Node], e.To.Node)
		indegree[e.To.Node]++
	}

	var ready []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var out []string
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)

		var newlyReady []string
		for _, next := range adj[n] {
			indegree[next]--
			if indegree[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
		sort.Strings(ready)
	}

	if len(out) != len(g.nodes) {
		return nil, graphErr(engerr.ErrCyclicGraph)
	}
	return out, nil
}

// Run executes the graph: topologically orders nodes, then for each node
// gathers bound inputs (already computed) and invokes the filter's
// apply_multi, storing outputs keyed by (node, port). sources maps Source
// node names to the external image bound to them for this execution. The
// returned map is keyed by Sink node name.
func (g *Graph) Run(ctx context.Context, sources map[string]*rimage.Image) (map[string]*rimage.Image, error) {
	if !g.validated {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	// incoming[node][port] = produced value
	incoming := make(map[string]map[string]filter.Value, len(g.nodes))
	for _, name := range g.order {
		incoming[name] = make(map[string]filter.Value)
	}

	outputs := make(map[string]map[string]filter.Value, len(g.nodes))
	sinkResults := make(map[string]*rimage.Image)

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, engerr.Wrap(engerr.Cancelled, name, err)
		}
		n := g.nodes[name]
		var nodeOut map[string]filter.Value

		switch n.Kind {
		case KindSource:
			img, ok := sources[name]
			if !ok {
				return nil, graphErr(fmt.Errorf("source %q: no input bound for this execution: %w", name, engerr.ErrUnboundPort))
			}
			nodeOut = map[string]filter.Value{filter.DefaultOutputPort: filter.ImageValue(img)}

		case KindSink:
			in := incoming[name][filter.DefaultInputPort]
			sinkResults[name] = in.Image
			nodeOut = map[string]filter.Value{}

		case KindFilter:
			nodeOut, err = n.Filter.ApplyMulti(ctx, incoming[name])
			if err != nil {
				return nil, err
			}
		}

		outputs[name] = nodeOut
		for _, e := range g.edges {
			if e.From.Node != name {
				continue
			}
			v, ok := nodeOut[e.From.Port]
			if !ok {
				continue
			}
			incoming[e.To.Node][e.To.Port] = v
		}
	}

	return sinkResults, nil
}

func graphErr(err error) error {
	return engerr.New(engerr.GraphInvalid, "graph.validate", err)
}

// Connection is one exported edge view, for serialization and diagnostics —
// portRef stays unexported since nothing outside this package needs to
// construct one directly.
type Connection struct {
	FromNode, FromPort string
	ToNode, ToPort     string
}

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Connections returns every edge in declaration order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, Connection{FromNode: e.From.Node, FromPort: e.From.Port, ToNode: e.To.Node, ToPort: e.To.Port})
	}
	return out
}

// SingleIO adapts a Graph with exactly one live Source/Sink pair to the
// single-input/single-output contract shared by filter.Filter and
// pipeline.Pipeline, so an executor can drive a Graph the same way it
// drives a Pipeline.
type SingleIO struct {
	Graph  *Graph
	Source string
	Sink   string
}

// Apply runs the graph with img bound to s.Source and returns the value
// produced at s.Sink.
func (s SingleIO) Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error) {
	out, err := s.Graph.Run(ctx, map[string]*rimage.Image{s.Source: img})
	if err != nil {
		return nil, err
	}
	result, ok := out[s.Sink]
	if !ok {
		return nil, graphErr(fmt.Errorf("sink %q produced no output for this execution", s.Sink))
	}
	return result, nil
}
