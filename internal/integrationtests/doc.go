// Package integration_tests runs complete job files through the app and
// checks the files it writes.
package integration_tests
