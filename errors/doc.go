/*
Package errors implements custom error interfaces for safepay.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Extensions register
their own root errors with Register(code, description), x/safepay being an
example.

Every error returned at runtime should wrap one of the registered root
errors, using Wrap or Wrapf at the point of creation. The root error can then
be tested with the Is method:

	if errors.ErrNotFound.Is(err) {
		...
	}

The first wrap attaches a stack trace. Use fmt with %+v to print it.

Code returns the registered code of the root cause, which allows clients to
distinguish error kinds without parsing messages.
*/
package errors
