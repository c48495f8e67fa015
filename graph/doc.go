// Package graph defines the minimal property-graph capability contract that
// pipes consume: elements with properties, vertices with incident edges, and
// labeled edges with a tail and a head vertex.
//
// Storage, transactions and indices are not part of the contract; any
// backend that can answer these few questions can feed a pipeline. The
// memory subpackage is the in-process reference implementation and
// graphson reads one from JSON.
package graph
