/*
Package openpermit is a client for the OpenPermit node model: self-defining Nodes
that describe permitting concepts (standards, components, requirements, actors,
documents) and the Crosswalks that map one onto another.

All node work happens in a worker runtime reachable only through a message channel.
The Client hides that channel: it starts the worker on first use, waits for its
ready signal, correlates each response with its call and turns failures back into
Go errors.

# Usage

	client := openpermit.New()
	defer client.Close()

	node, err := client.CreateNode(ctx, domain.NodeOptions{
		ID:   "urn:irc:r507",
		Type: domain.NodeTypeRequirement,
	})
	if err != nil {
		log.Fatal(err)
	}

	res, err := client.ValidateNode(ctx, domain.NodeValue(node))

# Transports

By default the worker runs in-process over a memory pipe. WithConn attaches to an
existing ports.Conn instead, for example a Redis list pair served by
"openpermit worker" in another process.

# Errors

Failed calls return a *CallError. errors.Is matches it against
domain.ErrInvalidArgument, domain.ErrUnknownAction or domain.ErrWorkerFault.
Calls outstanding when Close runs fail with domain.ErrClientClosed.
*/
package openpermit
