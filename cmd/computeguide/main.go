// Command computeguide runs the GPU compute guide programs.
//
// Usage:
//
//	computeguide numbers            # multiply 0..1024 by 12 on the GPU
//	computeguide rects              # double pos_x of 1024 derived rects
//	computeguide probe              # describe the adapter the programs use
//	computeguide spirv rects -o r.spv
package main

import (
	"os"
)

func main() {
	root, a := newRootCmd()
	if err := root.Execute(); err != nil {
		a.fail(os.Stderr, err)
		os.Exit(1)
	}
}
