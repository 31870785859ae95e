/*
Package protocol defines the JSON frames exchanged between a client and a worker.

Every client frame is a Request carrying an opaque callbackId, an action and a payload.
Every worker frame is a Message: either a response echoing the callbackId or the
one-time readiness signal {"type":"ready"}.

# Actions

  - CREATE_NODE: payload is a node options object, reply carries "node".
  - VALIDATE_NODE: payload is {"node": <canonical node>}, reply carries "results".
  - CREATE_CROSSWALK: payload is {"source": ref, "target": ref}, reply carries "crosswalk".

Failed replies carry "error" and a machine readable "code".
*/
package protocol
