// Package dispatcher admits outbound calls to a rate-limited API.
//
// A [Dispatcher] owns one FIFO queue and one rolling window. Operations run one
// at a time on a single processing loop that is started by [Dispatcher.Submit]
// when the dispatcher is idle and exits once the queue is empty.
//
// # Admission
//
// At most Quota operations are admitted per window. The window is re-anchored to
// now + Window whenever the loop observes that it has expired; when the quota is
// used up the loop sleeps until the window ends (never less than MinWait) and
// re-checks without dequeuing. A short Gap separates consecutive dequeues.
//
// # Failures
//
// Operations signal failures through wrapped sentinel errors:
//   - [shared.ErrRateLimited] : retried up to the entry's budget after
//     RetryDelay × attempt, re-admitted at the head of the queue, and the window
//     is reset
//   - [shared.ErrUnauthorized] : the [Future] fails with [AuthorizationError]
//   - anything else, or an exhausted budget : the [Future] resolves to nil
//
// The last rule means callers cannot tell "not found" from "broken response";
// a nil result only means no data is available.
//
// # State Machine
//
// The loop moves through [Idle], [Admitting], [Executing], [BackingOff] and
// [Draining]. [Transition] is the pure transition table, so window and queue
// invariants can be tested without running the loop.
package dispatcher
