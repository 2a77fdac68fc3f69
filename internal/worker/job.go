// Package worker runs one generator job end to end: resolve the
// partition date, claim a sequence range, generate the thread row sets
// and publish the encoded files.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/fluxpay/txnforge/internal/config"
	"github.com/fluxpay/txnforge/internal/gen"
	"github.com/fluxpay/txnforge/internal/identity"
	"github.com/fluxpay/txnforge/internal/logging"
	"github.com/fluxpay/txnforge/internal/metrics"
	"github.com/fluxpay/txnforge/internal/partition"
	"github.com/fluxpay/txnforge/internal/sequence"
	"github.com/fluxpay/txnforge/internal/tables"
)

// FileWriter publishes one encoded dataset file.
type FileWriter interface {
	WriteFile(ctx context.Context, ref tables.FileRef, data []byte) error
}

// Job wires the pieces of one generator run.
type Job struct {
	cfg        *config.Config
	resolver   *partition.Resolver
	coord      *sequence.Coordinator
	identities *identity.Allocator
	writer     FileWriter
	log        *slog.Logger
}

// New builds a Job from already-constructed collaborators.
func New(cfg *config.Config, resolver *partition.Resolver, coord *sequence.Coordinator,
	identities *identity.Allocator, writer FileWriter) *Job {
	return &Job{
		cfg:        cfg,
		resolver:   resolver,
		coord:      coord,
		identities: identities,
		writer:     writer,
		log:        logging.Component("worker"),
	}
}

// Result summarizes a completed run.
type Result struct {
	PartitionDate string
	JobOrder      int64
	BaseSequence  int64
	Reused        bool
	Rows          int
	Files         int
	Elapsed       time.Duration
}

// Run executes the job. Any thread or upload failure fails the whole
// run; a retried job with the same key reclaims the same sequence range
// and regenerates identical files.
func (j *Job) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	jobIndex := j.cfg.EffectiveJobIndex()

	date, err := j.resolver.Resolve(jobIndex, partition.Mode(j.cfg.Job.Mode))
	if err != nil {
		return Result{}, fmt.Errorf("resolve partition date: %w", err)
	}
	dateKey := partition.DateKey(date)

	jobKey := j.cfg.Job.Key
	if jobKey == "" {
		jobKey = uuid.NewString()
		j.log.Warn("no job key configured, generated one; retries will not reuse this job's order",
			"job_key", jobKey)
	}
	jobKey = fmt.Sprintf("%s:%d", jobKey, jobIndex)

	alloc, err := j.coord.Allocate(ctx, dateKey, jobKey)
	if err != nil {
		j.failed(dateKey)
		return Result{}, err
	}

	runID := logging.GenerateRunID()
	log := logging.JobLogger(runID, jobIndex, dateKey, alloc.Order, alloc.Base)
	log.Info("job starting",
		"mode", j.cfg.Job.Mode,
		"job_key", jobKey,
		"rows_per_job", j.cfg.Job.RowsPerJob,
		"threads", j.cfg.Job.Threads,
		"order_reused", alloc.Reused)

	ctx = logging.WithRunID(ctx, runID)

	rows, files, err := j.runThreads(ctx, log, jobIndex, date, alloc)
	if err != nil {
		j.failed(dateKey)
		return Result{}, err
	}

	if err := j.coord.Release(ctx, dateKey, jobKey); err != nil {
		// The data is fully published; a failed release only costs the
		// bookkeeping row, so log and carry on.
		log.Warn("release job order failed", "error", err)
	}

	if m := metrics.Get(); m != nil {
		m.IncJobsCompleted(j.cfg.Job.Mode, dateKey)
	}

	elapsed := time.Since(start)
	log.Info("job complete", "rows", rows, "files", files, "elapsed", elapsed.String())

	return Result{
		PartitionDate: dateKey,
		JobOrder:      alloc.Order,
		BaseSequence:  alloc.Base,
		Reused:        alloc.Reused,
		Rows:          rows,
		Files:         files,
		Elapsed:       elapsed,
	}, nil
}

func (j *Job) failed(dateKey string) {
	if m := metrics.Get(); m != nil {
		m.IncJobsFailed(j.cfg.Job.Mode, dateKey)
	}
}

// runThreads fans the job's sequence range out over the generator
// threads and waits for all of them.
func (j *Job) runThreads(ctx context.Context, log *slog.Logger, jobIndex int,
	date time.Time, alloc sequence.Allocation) (rows, files int, err error) {

	threads := j.cfg.Job.Threads
	pool, err := ants.NewPool(threads)
	if err != nil {
		return 0, 0, fmt.Errorf("create thread pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(e error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = e
		}
		mu.Unlock()
		cancel()
	}

	for t := 0; t < threads; t++ {
		threadIndex := t
		wg.Add(1)
		task := func() {
			defer wg.Done()
			n, f, terr := j.runThread(ctx, log, jobIndex, threadIndex, date, alloc)
			if terr != nil {
				fail(fmt.Errorf("thread %d: %w", threadIndex, terr))
				return
			}
			mu.Lock()
			rows += n
			files += f
			mu.Unlock()
		}
		if submitErr := pool.Submit(task); submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit thread %d: %w", threadIndex, submitErr))
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return 0, 0, firstErr
	}
	return rows, files, nil
}

// runThread generates, encodes and publishes one thread's share.
func (j *Job) runThread(ctx context.Context, parent *slog.Logger, jobIndex, threadIndex int,
	date time.Time, alloc sequence.Allocation) (rows, files int, err error) {

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	log := logging.ThreadLogger(parent, threadIndex)

	startSeq, count, err := j.coord.ThreadRange(alloc, threadIndex)
	if err != nil {
		return 0, 0, err
	}

	rec, err := j.identities.Select(ctx, gen.ThreadSeed(jobIndex, threadIndex))
	if err != nil {
		return 0, 0, fmt.Errorf("select identity: %w", err)
	}

	genStart := time.Now()
	out, err := gen.Generate(gen.Params{
		JobIndex:       jobIndex,
		ThreadIndex:    threadIndex,
		PartitionDate:  date,
		CardBrand:      j.cfg.Generator.CardBrand,
		NetworkBrand:   j.cfg.Generator.NetworkBrand,
		ChargebackRate: j.cfg.Generator.ChargebackRate,
		Identity:       rec,
	}, startSeq, count)
	if err != nil {
		return 0, 0, err
	}
	genElapsed := time.Since(genStart)

	log.Info("thread generated",
		"start_sequence", startSeq,
		"row_count", count,
		"chargebacks", len(out.Chargebacks),
		"elapsed", genElapsed.String())

	if m := metrics.Get(); m != nil {
		m.AddRowsGenerated(tables.TableAuthorization, float64(len(out.Authorizations)))
		m.AddRowsGenerated(tables.TableClearing, float64(len(out.Clearings)))
		m.AddRowsGenerated(tables.TableChargeback, float64(len(out.Chargebacks)))
		m.ObserveGenerateDuration(tables.TableAuthorization, genElapsed.Seconds())
	}

	files, err = j.publishThread(ctx, jobIndex, threadIndex, date, out)
	if err != nil {
		return 0, 0, err
	}
	return out.Rows(), files, nil
}

// publishThread encodes and writes the thread's table files, all in
// parallel. The chargeback pair is skipped when the thread drew no
// chargebacks, so a thread publishes four to six files.
func (j *Job) publishThread(ctx context.Context, jobIndex, threadIndex int,
	date time.Time, out *gen.Output) (int, error) {

	codec := j.cfg.Generator.Compression
	ref := func(table string) tables.FileRef {
		return tables.FileRef{Table: table, Date: date, JobIndex: jobIndex, ThreadIndex: threadIndex}
	}

	type target struct {
		table  string
		encode func() ([]byte, error)
	}
	targets := []target{
		{tables.TableAuthorization, func() ([]byte, error) { return tables.Encode(out.Authorizations, codec) }},
		{tables.TableClearing, func() ([]byte, error) { return tables.Encode(out.Clearings, codec) }},
		{tables.TableAuthorizationHash, func() ([]byte, error) { return tables.Encode(out.AuthorizationHashes, codec) }},
		{tables.TableClearingHash, func() ([]byte, error) { return tables.Encode(out.ClearingHashes, codec) }},
	}
	if len(out.Chargebacks) > 0 {
		targets = append(targets,
			target{tables.TableChargeback, func() ([]byte, error) { return tables.Encode(out.Chargebacks, codec) }},
			target{tables.TableChargebackHash, func() ([]byte, error) { return tables.Encode(out.ChargebackHashes, codec) }},
		)
	}

	encodeStart := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, tgt := range targets {
		g.Go(func() error {
			data, err := tgt.encode()
			if err != nil {
				return fmt.Errorf("encode %s: %w", tgt.table, err)
			}
			return j.writer.WriteFile(ctx, ref(tgt.table), data)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if m := metrics.Get(); m != nil {
		m.ObserveEncodeDuration(tables.TableAuthorization, time.Since(encodeStart).Seconds())
	}
	return len(targets), nil
}
