// Package dispatcher turns named user actions into exactly one git invocation
// or GitHub gateway call.
//
// Every action moves through Idle, Validating and then either Rejected or
// Executing and Completed. Validation failures never reach the process runner
// or the gateway. Results always come back as outcome.ActionResult values.
package dispatcher
