// Command p4batchd is the batch worker of §4.J/§5: it fans a directory
// of (il, input) jobs out across bounded goroutines, each owning its
// own *engine.Context, persists phantom logs via internal/store, and
// serves grpc's standard health-check service so an orchestrator can
// liveness-probe it while a batch runs.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/p4lang/p4spectec-core/internal/config"
	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/ilcodec"
	"github.com/p4lang/p4spectec-core/internal/interp"
	"github.com/p4lang/p4spectec-core/internal/store"
	"github.com/p4lang/p4spectec-core/internal/value"
)

const (
	exitOK          = 0
	exitLoadFailure = 1
	exitEvalFailure = 2
	exitInterrupt   = 130
)

func main() {
	config.IsBatchMode = true
	os.Exit(run(os.Args[1:]))
}

type batchFlags struct {
	jobsDir     string
	storePath   string
	healthAddr  string
	concurrency int
	configPath  string
}

func parseFlags(args []string) (batchFlags, error) {
	cfg := config.DefaultEngineConfig()
	f := batchFlags{concurrency: cfg.Batch.Concurrency, healthAddr: cfg.Batch.HealthAddr, storePath: cfg.Store.Path}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--jobs":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--jobs requires a directory")
			}
			f.jobsDir = args[i]
		case "--store":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--store requires a path")
			}
			f.storePath = args[i]
		case "--health":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--health requires an address")
			}
			f.healthAddr = args[i]
		case "--concurrency":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--concurrency requires a number")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return f, fmt.Errorf("--concurrency: %w", err)
			}
			f.concurrency = n
		case "--config":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--config requires a path")
			}
			f.configPath = args[i]
			loaded, err := config.LoadEngineConfig(f.configPath)
			if err != nil {
				return f, err
			}
			f.concurrency, f.healthAddr, f.storePath = loaded.Batch.Concurrency, loaded.Batch.HealthAddr, loaded.Store.Path
		default:
			return f, fmt.Errorf("unrecognized flag %q", args[i])
		}
	}
	return f, nil
}

// job is one (program, input, target) triple discovered in the jobs
// directory: <name>.il.json, <name>.input.json, <name>.rel (a single
// line naming the relation or function to invoke).
type job struct {
	name  string
	ilPath, inputPath, relPath string
}

func discoverJobs(dir string) ([]job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading jobs dir %s: %w", dir, err)
	}
	names := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".rel") {
			names[strings.TrimSuffix(e.Name(), ".rel")] = true
		}
	}
	jobs := make([]job, 0, len(names))
	for name := range names {
		jobs = append(jobs, job{
			name:      name,
			ilPath:    filepath.Join(dir, name+".il.json"),
			inputPath: filepath.Join(dir, name+".input.json"),
			relPath:   filepath.Join(dir, name+".rel"),
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].name < jobs[j].name })
	return jobs, nil
}

func run(args []string) int {
	f, err := parseFlags(args)
	if err != nil || f.jobsDir == "" {
		fmt.Fprintf(os.Stderr, "usage: %s --jobs <dir> --store <sqlite-path> --health <addr> [--concurrency N] [--config <path>]\n", os.Args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitLoadFailure
	}

	jobs, err := discoverJobs(f.jobsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		return exitLoadFailure
	}

	s, err := store.Open(f.storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: opening store: %v\n", err)
		return exitLoadFailure
	}
	defer s.Close()

	grpcServer, lis, err := serveHealth(f.healthAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: health endpoint: %v\n", err)
		return exitLoadFailure
	}
	defer grpcServer.GracefulStop()
	go grpcServer.Serve(lis)
	log.Printf("p4batchd: health service listening on %s, %d jobs discovered in %s", f.healthAddr, len(jobs), f.jobsDir)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	eg, egCtx := errgroup.WithContext(sigCtx)
	if f.concurrency > 0 {
		eg.SetLimit(f.concurrency)
	}

	var loadFailures, evalFailures atomic.Int32
	for _, j := range jobs {
		j := j
		eg.Go(func() error {
			if err := runJob(egCtx, s, j); err != nil {
				if _, ok := err.(*loadError); ok {
					loadFailures.Add(1)
					log.Printf("job %s: load failed: %v", j.name, err)
				} else {
					evalFailures.Add(1)
					log.Printf("job %s: eval failed: %v", j.name, err)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	if sigCtx.Err() != nil {
		return exitInterrupt
	}
	if loadFailures.Load() > 0 {
		return exitLoadFailure
	}
	if evalFailures.Load() > 0 {
		return exitEvalFailure
	}
	return exitOK
}

type loadError struct{ err error }

func (e *loadError) Error() string { return e.err.Error() }

func runJob(goCtx context.Context, s *store.Store, j job) error {
	ilData, err := os.ReadFile(j.ilPath)
	if err != nil {
		return &loadError{err}
	}
	spec, err := ilcodec.UnmarshalSpec(ilData)
	if err != nil {
		return &loadError{err}
	}
	relBytes, err := os.ReadFile(j.relPath)
	if err != nil {
		return &loadError{err}
	}
	relID := strings.TrimSpace(string(relBytes))

	def, ok := spec.Lookup(relID)
	if !ok {
		return &loadError{fmt.Errorf("unknown relation or function %q", relID)}
	}

	ctx := engine.New(spec, engine.Limits{})
	ctx.WithGoContext(goCtx)

	inputData, err := os.ReadFile(j.inputPath)
	if err != nil {
		return &loadError{err}
	}
	inputVal, err := ilcodec.Unmarshal(ctx, inputData)
	if err != nil {
		return &loadError{err}
	}

	outcome, err := invoke(ctx, def, inputVal)
	if err != nil {
		return fmt.Errorf("%s: %s", j.name, errs.Diagnostic(err))
	}
	if outcome.Kind != interp.Completed {
		return fmt.Errorf("%s: %s fell through without a result", j.name, relID)
	}

	runID := uuid.NewString()
	if err := s.RecordRun(runID, ctx.Tracker()); err != nil {
		return fmt.Errorf("%s: persisting run %s: %w", j.name, runID, err)
	}
	return nil
}

// invoke mirrors cmd/p4ilrun's binding convention: the whole input value
// for a single-parameter definition, positional tuple elements for more
// than one.
func invoke(ctx *engine.Context, def ilast.Def, input value.Value) (interp.Outcome, error) {
	var params []ilast.Param
	var instrs []ilast.Instr
	switch d := def.(type) {
	case ilast.RelD:
		params, instrs = d.Inputs, d.Instrs
	case ilast.DecD:
		params, instrs = d.Params, d.Instrs
	default:
		return interp.Outcome{}, fmt.Errorf("%q is not invocable", def.Ident())
	}

	ctx.EnterScope()
	defer ctx.LeaveScope()

	switch {
	case len(params) == 1:
		ctx.Bind(params[0].Name, params[0].Typ, input)
	case len(params) > 1:
		tup, ok := input.(value.Tuple)
		if !ok || len(tup.Elems) != len(params) {
			return interp.Outcome{}, fmt.Errorf("%q takes %d inputs; input value is not a matching tuple", def.Ident(), len(params))
		}
		for i, p := range params {
			ctx.Bind(p.Name, p.Typ, tup.Elems[i])
		}
	}

	return interp.Exec(ctx, instrs)
}

func serveHealth(addr string) (*grpc.Server, net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, lis, nil
}
