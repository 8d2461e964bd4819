package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/midbel/lox"
	"golang.org/x/sync/errgroup"
)

// checkFiles runs the static passes on every file concurrently. Diagnostics
// are written in the order of files once all the checks are done.
func checkFiles(w io.Writer, files []string) int {
	results := make([]error, len(files))

	var grp errgroup.Group
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		grp.Go(func() error {
			results[i] = checkFile(f)
			return nil
		})
	}
	grp.Wait()

	code := lox.ExitOk
	for i, err := range results {
		if err == nil {
			continue
		}
		fmt.Fprintf(w, "%s:\n%s\n", files[i], err)
		code = lox.ExitStatic
	}
	return code
}

func checkFile(file string) error {
	buf, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return lox.Check(string(buf))
}
