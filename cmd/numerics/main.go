// Command numerics runs numerical-analysis requests from the command line
// or serves them over HTTP.
//
// Usage:
//
//	numerics serve --config numerics.yaml
//	numerics solve --file request.json
//	echo '{"method":"secant","params":{"equation":"x^2-2","x0":1,"x1":2}}' | numerics solve
//	numerics methods
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
