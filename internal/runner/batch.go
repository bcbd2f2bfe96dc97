package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/sourcegraph/conc/pool"

	"github.com/prehook/prehook/internal/errors"
)

// maxBatchBytes bounds the total byte length of filenames in one command
// invocation, keeping argv well under platform ARG_MAX limits.
const maxBatchBytes = 32 * 1024

// batches splits files into chunks whose joined length stays under
// maxBatchBytes. A file longer than the budget still gets its own batch.
func batches(files []string) [][]string {
	if len(files) == 0 {
		return nil
	}

	var out [][]string
	var cur []string
	size := 0

	for _, f := range files {
		if len(cur) > 0 && size+len(f)+1 > maxBatchBytes {
			out = append(out, cur)
			cur = nil
			size = 0
		}
		cur = append(cur, f)
		size += len(f) + 1
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// batchResult is the outcome of one command invocation.
type batchResult struct {
	output   []byte
	exitCode int
	err      error
}

// runBatches executes argv once per batch, appending the batch's filenames
// when passFilenames is set. Batches run on a bounded pool unless serial is
// requested. The combined output of all batches is returned along with the
// first non-zero exit code.
func runBatches(ctx context.Context, argv []string, dir string, env []string, fileBatches [][]string, passFilenames, serial bool, jobs int) (string, int, error) {
	if len(fileBatches) == 0 || !passFilenames {
		// Single invocation with no filenames appended.
		res := runOne(ctx, argv, dir, env, nil)
		return string(res.output), res.exitCode, res.err
	}

	if serial || jobs < 1 {
		jobs = 1
	}

	p := pool.NewWithResults[batchResult]().WithMaxGoroutines(jobs)
	for _, batch := range fileBatches {
		batch := batch
		p.Go(func() batchResult {
			return runOne(ctx, argv, dir, env, batch)
		})
	}
	results := p.Wait()

	var buf bytes.Buffer
	exitCode := 0
	var firstErr error
	for _, res := range results {
		buf.Write(res.output)
		if res.exitCode != 0 && exitCode == 0 {
			exitCode = res.exitCode
		}
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
	}
	return buf.String(), exitCode, firstErr
}

// runOne executes a single command invocation and captures combined output.
func runOne(ctx context.Context, argv []string, dir string, env []string, files []string) batchResult {
	args := append(append([]string{}, argv[1:]...), files...)

	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	out, err := cmd.CombinedOutput()
	if err == nil {
		return batchResult{output: out}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return batchResult{output: out, exitCode: exitErr.ExitCode()}
	}

	// Start failures (command not found, permission denied) carry no exit
	// code; surface them as errors with a conventional 127.
	return batchResult{output: out, exitCode: 127, err: errors.Wrapf(err, "running %s", argv[0])}
}
