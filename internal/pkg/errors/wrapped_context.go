package errors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// WrappedUIContext encapsulates an error, subject, and context that can be
// used to provide detail error outputs to the console. It is suggested that
// any function returning an error to the CLI use this instead of a standard
// error.
type WrappedUIContext struct {

	// Err is the full error message to store.
	Err error

	// Subject is a short, high-level summary of the error. It should avoid
	// including complex formatting to include file names for example. These
	// items should be added to the Context instead.
	Subject string

	// Context contains all the context required to fully understand the error
	// and helps troubleshooting.
	Context *UIErrorContext
}

// Error is used to satisfy to builtin.Error interface. This allows us to use
// WrappedUIContext as an error if needed, although we should prefer to return
// the strong type.
func (w *WrappedUIContext) Error() string {
	return fmt.Sprintf("%s: %v: \n%s", w.Subject, w.Err, w.Context.String())
}

// MultiErrorToWrappedUIContext converts an accumulated multierror into an
// array of WrappedUIContext, one per underlying error, so the CLI can print
// each with its own context block.
func MultiErrorToWrappedUIContext(err *multierror.Error, subject string, ctx *UIErrorContext) []*WrappedUIContext {
	if err == nil {
		return nil
	}
	wrapped := make([]*WrappedUIContext, len(err.Errors))
	for i, e := range err.Errors {
		wrapped[i] = &WrappedUIContext{
			Err:     e,
			Subject: subject,
			Context: ctx.Copy(),
		}
	}
	return wrapped
}
