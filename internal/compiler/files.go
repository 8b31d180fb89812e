package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// CompileFiles compiles the given CUE files as one unified value and
// returns every query definition found under "query".
//
// Files are unified in order, so a query may be split across files the way
// CUE allows. A file that fails to read or parse is reported and skipped.
func CompileFiles(paths []string) ([]Definition, []error) {
	ctx := cuecontext.New()
	unified := ctx.CompileString("{}")

	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			errs = append(errs, formatCUEError(path, err))
			continue
		}
		unified = unified.Unify(v)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return CompileAll(unified)
}
