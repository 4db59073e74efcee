// Package utils provides decorators shared by every application stack:
// panic recovery, logging, metrics and savepoints.
package utils
