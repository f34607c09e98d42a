package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/mux"
)

// PrintRoutes walks through all routes registered in the router and writes
// them as a table
func PrintRoutes(w io.Writer, r *mux.Router) error {
	fmt.Fprintln(w, "METHOD\tPATH")

	return r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		// Subrouter prefixes carry no handler of their own.
		if route.GetHandler() == nil {
			return nil
		}

		methodStr := "ANY"
		if methods, err := route.GetMethods(); err == nil && len(methods) > 0 {
			methodStr = strings.Join(methods, ",")
		}

		_, err = fmt.Fprintf(w, "%s\t%s\n", methodStr, pathTemplate)
		return err
	})
}
