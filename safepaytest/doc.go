// Package safepaytest provides mocks and helpers shared by the tests of
// safepay extensions.
package safepaytest
