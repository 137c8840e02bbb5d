// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pubsub provides live change notifications per store collection.

Collections are named like document paths:

	pubsub.ProjectsCollection              // "projects"
	pubsub.ApplicationsCollection(pid)     // "projects/{pid}/applications"

Subscribe returns a Subscription whose Close method is the unsubscribe
handle. Events only say which document changed; subscribers re-query the
store, so a dropped event is repaired by the next one.

MemoryBroker serves a single process. RedisBroker uses Redis channels
prefixed with "collabhub:" for deployments with several API instances.
*/
package pubsub
