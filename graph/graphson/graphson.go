// Package graphson loads a property graph from its JSON form into a
// memory.Graph:
//
//	{
//	  "vertices": [{"id": 1, "properties": {"name": "marko"}}],
//	  "edges":    [{"id": 7, "out": 1, "in": 2, "label": "knows", "properties": {"weight": 0.5}}]
//	}
//
// Integral numbers (ids and property values) become int64, other numbers
// float64. Objects and arrays inside properties are kept as their decoded
// Go values.
package graphson

import (
	"fmt"
	"math"
	"os"

	"github.com/tidwall/gjson"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/graph/memory"
	"github.com/tinkerpop/blueprints-sub007/logger"
)

const (
	expectedFormat = `{"vertices":[...],"edges":[...]}`
	endpointFormat = `number or string "out" and "in" vertex ids`
)

// ReadFile reads and parses the JSON graph stored at path.
func ReadFile(path string) (*memory.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NotFound("graph file", path).WithCause(err)
	}
	g, err := Read(data)
	if err != nil {
		return nil, err
	}
	logger.Get("graphson").Debug("graph loaded", logger.Fields(
		"file", path,
		"vertices", len(g.Vertices()),
		"edges", len(g.Edges()),
	))
	return g, nil
}

// Read parses a JSON graph document. Vertices are added before edges, so
// edges may reference vertices declared anywhere in the document.
func Read(data []byte) (*memory.Graph, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidFormat("graph document", expectedFormat)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.InvalidFormat("graph document", expectedFormat)
	}

	g := memory.New()
	var err error
	doc.Get("vertices").ForEach(func(_, v gjson.Result) bool {
		var id any
		if id, err = readID(v, "vertex"); err != nil {
			return false
		}
		_, err = g.AddVertex(id, readProperties(v.Get("properties")))
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	doc.Get("edges").ForEach(func(_, e gjson.Result) bool {
		var id any
		if id, err = readID(e, "edge"); err != nil {
			return false
		}
		what := fmt.Sprintf("edge %v", id)
		var out, in any
		if out, err = idValue(e.Get("out"), what, endpointFormat); err != nil {
			return false
		}
		if in, err = idValue(e.Get("in"), what, endpointFormat); err != nil {
			return false
		}
		_, err = g.AddEdge(id, out, in, e.Get("label").String(), readProperties(e.Get("properties")))
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func readID(r gjson.Result, kind string) (any, error) {
	return idValue(r.Get("id"), kind, `an object with a number or string "id"`)
}

// idValue accepts only numbers and strings as element ids.
func idValue(r gjson.Result, what, expected string) (any, error) {
	switch r.Type {
	case gjson.Number, gjson.String:
		return value(r), nil
	default:
		return nil, errors.InvalidFormat(what, expected)
	}
}

func readProperties(r gjson.Result) map[string]any {
	if !r.IsObject() {
		return nil
	}
	props := make(map[string]any)
	r.ForEach(func(k, v gjson.Result) bool {
		props[k.String()] = value(v)
		return true
	})
	return props
}

// value converts a gjson result, narrowing integral numbers to int64.
func value(r gjson.Result) any {
	switch r.Type {
	case gjson.Number:
		if r.Num == math.Trunc(r.Num) && math.Abs(r.Num) < 1<<53 {
			return r.Int()
		}
		return r.Num
	case gjson.String:
		return r.Str
	case gjson.True, gjson.False:
		return r.Bool()
	case gjson.Null:
		return nil
	default:
		return r.Value()
	}
}
