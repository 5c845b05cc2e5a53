package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"reflq/internal/trace"
)

// ScriptExt is the extension of query scripts.
const ScriptExt = ".rq"

var manifestExts = []string{".toml", ".yaml", ".yml"}

// Pair is a script and the manifest it runs against.
type Pair struct {
	Script   string
	Manifest string
}

// FindPairs lists every *.rq file under dir together with the manifest of
// the same base name next to it. Scripts without a manifest are returned in
// orphans. Both lists are sorted by script path.
func FindPairs(dir string) (pairs []Pair, orphans []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ScriptExt) {
			return nil
		}
		base := strings.TrimSuffix(path, ScriptExt)
		for _, ext := range manifestExts {
			if st, statErr := os.Stat(base + ext); statErr == nil && !st.IsDir() {
				pairs = append(pairs, Pair{Script: path, Manifest: base + ext})
				return nil
			}
		}
		orphans = append(orphans, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Script < pairs[j].Script })
	sort.Strings(orphans)
	return pairs, orphans, nil
}

// RunBatch runs every pair in parallel, at most jobs at a time (GOMAXPROCS
// when jobs <= 0). Results keep the order of pairs. Each job owns its file
// set and diagnostics.
func RunBatch(ctx context.Context, pairs []Pair, opts Options, jobs int) ([]*Result, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "batch")
	span.WithExtra("scripts", strconv.Itoa(len(pairs))).
		WithExtra("jobs", strconv.Itoa(jobs))

	results := make([]*Result, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(pairs)))

	for i, p := range pairs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := RunScript(gctx, p.Manifest, p.Script, opts)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	failed := 0
	for _, res := range results {
		if res != nil && !res.OK() {
			failed++
		}
	}
	span.End(fmt.Sprintf("%d of %d failed", failed, len(pairs)))
	return results, err
}
