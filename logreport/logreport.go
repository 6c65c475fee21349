// Package logreport wraps the standard log functions so that error values
// pass through the registered error reporters on their way to the log.
package logreport

import (
	"log"
	"net/http"

	"leadfilter/errors/report"
)

// Logf is the type of a formatted log function.
type Logf func(format string, v ...interface{})

var (
	// Print reports errors and then delegates to log.Print.
	Print = wrap(log.Print)
	// Printf reports errors and then delegates to log.Printf.
	Printf = wrapf(log.Printf)
	// Println reports errors and then delegates to log.Println.
	Println = wrap(log.Println)

	// Fatal reports errors and then delegates to log.Fatal.
	Fatal = wrap(log.Fatal)
	// Fatalf reports errors and then delegates to log.Fatalf.
	Fatalf = wrapf(log.Fatalf)
	// Fatalln reports errors and then delegates to log.Fatalln.
	Fatalln = wrap(log.Fatalln)

	// Panic reports errors and then delegates to log.Panic
	Panic = wrap(log.Panic)
	// Panicf reports errors and then delegates to log.Panicf.
	Panicf = wrapf(log.Panicf)
	// Panicln reports errors and then delegates to log.Panicln.
	Panicln = wrap(log.Panicln)
)

func wrap(f func(v ...interface{})) func(v ...interface{}) {
	return func(v ...interface{}) {
		reportErrors(v...)
		f(v...)
	}
}

func wrapf(f func(fmt string, v ...interface{})) func(fmt string, v ...interface{}) {
	return func(fmt string, v ...interface{}) {
		reportErrors(v...)
		f(fmt, v...)
	}
}

func reportErrors(v ...interface{}) {
	var (
		errs []error
		req  *http.Request
	)

	for _, item := range v {
		switch t := item.(type) {
		case error:
			errs = append(errs, t)
		case *http.Request:
			req = t
		}
	}

	for _, err := range errs {
		report.Error(err, req)
	}
}
