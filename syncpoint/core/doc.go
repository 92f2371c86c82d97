// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the rendezvous point and the gates and barriers it is
built from.

# Rendezvous point

A RendezvousPoint holds a fixed number of worker goroutines at a common point
once per cycle, until a single manager releases them:

	[worker]   p.WorkerArrive()        // blocked until released
	[observer] p.WaitUntilAllArrived() // returns once every worker arrived
	[manager]  p.WaitUntilAllArrived()
	[manager]  // mutate state shared with the workers
	[manager]  p.ReleaseCycle()        // returns once every worker left the cycle

A cycle moves through WaitingForWorkers, AllArrived, Releasing and Draining,
then starts over. Workers leave a cycle through an exit barrier, so none of
them can arrive for the next cycle while a sibling is still leaving the
previous one.

A worker that never arrives stalls everyone. Abort fails every blocked and
future call and is the only way out of such a stall.

# Gates

Gate is a synchronization aid that allows one thread to wait until a set of
operations being performed in other threads completes. Threads walking through
the gate are never blocked:

	[manager] g.AwaitGateCondition()
	[manager] // blocked until gate condition is satisfied

	[worker] g.WalkThrough()
	[worker] // not blocked

# Barriers

Barrier blocks every caller until all parties have arrived, then rearms for the
next generation. Exactly one caller per generation is told it was the last one.
*/
package core
