// Package testutil holds helpers shared by the integration tests: a
// thread-safe log buffer and a harness that runs job files end to end.
package testutil
