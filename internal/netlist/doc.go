// Package netlist is the placed gate-level output model: elements with typed
// attributes at grid coordinates, joined by straight wires between pin
// positions. It also owns the Digital pin geometry, the coordinate allocator
// and the .dig and Graphviz serialisations.
package netlist
