package imagegraph

import (
	"encoding/json"
	"fmt"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/graph"
	"github.com/pixelforge/imagegraph/pipeline"
)

// filterDoc is the stable, codec-neutral document every Filter
// serializes to: {"type": "<filter_kind>", "params": {..}}.
type filterDoc struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// SerializeFilter renders f as its JSON document.
func SerializeFilter(f *filter.Filter) ([]byte, error) {
	return json.Marshal(filterDoc{Type: f.Kind, Params: f.Params})
}

// DeserializeFilter parses a filter document and rebuilds it against reg,
// failing with engerr.InvalidArgument on an unknown kind or a wrongly typed
// parameter value. Parameter names the filter's factory does not read are
// ignored, not rejected.
func DeserializeFilter(data []byte, reg *filter.Registry) (*filter.Filter, error) {
	var doc filterDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, engerr.New(engerr.InvalidArgument, "imagegraph.deserialize_filter", err)
	}
	return reg.Build(doc.Type, doc.Params)
}

// pipelineDoc is a Pipeline's serialized form: {"type":"pipeline",
// "filters":[<filterDoc>,..]}.
type pipelineDoc struct {
	Type    string      `json:"type"`
	Filters []filterDoc `json:"filters"`
}

// SerializePipeline renders p as its JSON document.
func SerializePipeline(p *pipeline.Pipeline) ([]byte, error) {
	doc := pipelineDoc{Type: "pipeline"}
	for _, f := range p.Filters() {
		doc.Filters = append(doc.Filters, filterDoc{Type: f.Kind, Params: f.Params})
	}
	return json.Marshal(doc)
}

// DeserializePipeline parses a pipeline document and rebuilds every filter
// against reg.
func DeserializePipeline(data []byte, reg *filter.Registry) (*pipeline.Pipeline, error) {
	var doc pipelineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, engerr.New(engerr.InvalidArgument, "imagegraph.deserialize_pipeline", err)
	}
	p := pipeline.New()
	for _, fd := range doc.Filters {
		f, err := reg.Build(fd.Type, fd.Params)
		if err != nil {
			return nil, err
		}
		p.Use(f)
	}
	return p, nil
}

// nodeDoc is one entry of a graphDoc's "nodes" map.
type nodeDoc struct {
	Kind   string         `json:"kind"` // "source", "sink", or "filter"
	Type   string         `json:"type,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// connDoc is one entry of a graphDoc's "connections" list. Omitting
// FromPort/ToPort is the "string name implies the default port"
// shorthand
type connDoc struct {
	From     string `json:"from"`
	FromPort string `json:"from_port,omitempty"`
	To       string `json:"to"`
	ToPort   string `json:"to_port,omitempty"`
}

// graphDoc is a Graph's serialized form: {"type":"graph",
// "nodes":{name:{..}}, "connections":[{"from":"a",..},..]}.
type graphDoc struct {
	Type        string             `json:"type"`
	Nodes       map[string]nodeDoc `json:"nodes"`
	Connections []connDoc          `json:"connections"`
}

// SerializeGraph renders g as its JSON document.
func SerializeGraph(g *graph.Graph) ([]byte, error) {
	doc := graphDoc{Type: "graph", Nodes: make(map[string]nodeDoc)}
	for _, n := range g.Nodes() {
		switch n.Kind {
		case graph.KindSource:
			doc.Nodes[n.Name] = nodeDoc{Kind: "source"}
		case graph.KindSink:
			doc.Nodes[n.Name] = nodeDoc{Kind: "sink"}
		case graph.KindFilter:
			doc.Nodes[n.Name] = nodeDoc{Kind: "filter", Type: n.Filter.Kind, Params: n.Filter.Params}
		}
	}
	for _, c := range g.Connections() {
		cd := connDoc{From: c.FromNode, To: c.ToNode}
		if c.FromPort != filter.DefaultOutputPort {
			cd.FromPort = c.FromPort
		}
		if c.ToPort != filter.DefaultInputPort {
			cd.ToPort = c.ToPort
		}
		doc.Connections = append(doc.Connections, cd)
	}
	return json.Marshal(doc)
}

// DeserializeGraph parses a graph document, rebuilds every filter node
// against reg, wires every connection, and validates the result before
// returning it.
func DeserializeGraph(data []byte, reg *filter.Registry) (*graph.Graph, error) {
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, engerr.New(engerr.InvalidArgument, "imagegraph.deserialize_graph", err)
	}
	g := graph.New()
	for name, n := range doc.Nodes {
		switch n.Kind {
		case "source":
			g.AddSource(name)
		case "sink":
			g.AddSink(name)
		case "filter":
			f, err := reg.Build(n.Type, n.Params)
			if err != nil {
				return nil, fmt.Errorf("imagegraph: node %q: %w", name, err)
			}
			g.AddFilter(name, f)
		default:
			return nil, fmt.Errorf("imagegraph: node %q: unknown kind %q", name, n.Kind)
		}
	}
	for _, c := range doc.Connections {
		fromPort := c.FromPort
		if fromPort == "" {
			fromPort = filter.DefaultOutputPort
		}
		toPort := c.ToPort
		if toPort == "" {
			toPort = filter.DefaultInputPort
		}
		g.Connect(c.From, fromPort, c.To, toPort)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
