// Package clock provides a tiny time abstraction.
//
// Production code depends on the Clocker interface instead of calling
// time.Now() directly. OTP expiry and token lifetimes are evaluated against a
// Clocker, so tests can freeze time with Manual and step it past a deadline.
package clock
