// Package lower turns a width-annotated program into a placed netlist.
//
// Every width-polymorphic operator is expanded into 1-bit gates between lane
// splitters and a combiner, mismatched widths are bridged by truncating or
// zero-extending splitters, and internal modules are inlined at each call
// site. External modules are placed as opaque templates.
package lower
