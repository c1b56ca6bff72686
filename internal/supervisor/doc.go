// Package supervisor keeps the updater running on a fixed period.
//
// # Restart Policy
//
// [Supervisor] is a small state machine with three states: [Idle], [Running] and [CoolingDown]. Each
// run ends in one of three outcomes and [Supervisor.Next] picks the delay before the next run:
//
//   - [Success] : ping healthchecks, wait out the rest of the update period, reset the backoff
//   - [Failure] : wait for the next exponential backoff interval
//   - [Timeout] : the run exceeded its maximum duration; reset the backoff and start again at once
//
// Only an error that stops the loop (a run that cannot be started) is reported to healthchecks as a
// failure; missed pings cover the rest.
//
// Runs are child processes ([CommandRun]) so that a hung call in the updater cannot wedge the loop; on
// timeout the child is interrupted and then killed.
//
// # Client Process
//
// An optional long-running [ClientProcess] (for example the gateway the updater talks to) is started
// with the supervisor and restarted between runs once its restart period has passed. A restart sends
// an interrupt, waits up to the shutdown grace period, kills the process if it is still alive and
// launches it again.
package supervisor
