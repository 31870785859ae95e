/*
Package domain contains the core entities of OpenPermit.

It defines self-defining Nodes, the Crosswalk value object and validation results.
The package is kept pure: no I/O, no goroutines, no transport concerns.

# Key Entities

  - Node: a typed permitting concept with attributes, relationships, rules, AI metadata and extensions.
  - Document: the canonical linked-data JSON form of a Node.
  - NodeInput: either a live Node or its JSON form, normalised explicitly via Resolve.
  - Crosswalk: a transient mapping between two nodes.
  - ValidationResult: the outcome of a structural validation pass.

# Round trip

Deserialize replays a document through the Node mutators and then restores the
original timestamps, so Deserialize(n.Serialize().Map()) is equal to n.
*/
package domain
