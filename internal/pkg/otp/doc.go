// Package otp generates short random numeric one-time codes.
//
// Codes are meant to be delivered out of band (email) and checked against a
// server-side ledger; they carry no time-based structure.
package otp
