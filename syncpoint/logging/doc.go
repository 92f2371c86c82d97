// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*

Package logging configures the internal logs emitted by syncpoint.

Internal logs are logrus entries written to stderr by default. The rendezvous
point logs each suspension and wake-up at debug level and every failure of an
underlying gate or barrier at error level; the stress harness adds one info
line per cycle and a summary per run.

Log lines use InternalFormatter:

	2023-11-26T10:00:00.000Z [debug] worker arrived arrived=3 workers=3 cycle=0

*/
package logging
