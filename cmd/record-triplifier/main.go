// Package main provides the CLI entrypoint for record-triplifier.
//
// record-triplifier converts flat bibliographic records into RDF triples
// driven by a YAML mapping specification:
//   - Loads and validates the specification (with include resolution)
//   - Reads records from a JSON-lines file or a cursor-paged search index
//   - Resolves each record against the specification's node rules
//   - Writes the resulting triples to a triple store or stdout
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/fetch"
	"record-triplifier/internal/resolve"
	"record-triplifier/internal/triplestore"
	"record-triplifier/log"
)

type options struct {
	specURL     string
	inputURL    string
	fetchURL    string
	query       string
	prefix      string
	storeURL    string
	taggedField string
	workers     int
	rows        int
	batch       int
	logLevel    string
	inspect     bool
}

func main() {
	opts := parseFlags()
	log.SetLevel(opts.logLevel)

	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("record-triplifier: %v", err)
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.specURL, "spec", "", "mapping specification URL (required)")
	flag.StringVar(&opts.inputURL, "input", "", "JSON-lines record file URL")
	flag.StringVar(&opts.fetchURL, "fetch", "", "search-index base URL for paged record fetch")
	flag.StringVar(&opts.query, "query", "*", "search-index query (with -fetch)")
	flag.StringVar(&opts.prefix, "prefix", "", "subject URI prefix prepended to record identifiers")
	flag.StringVar(&opts.storeURL, "store", "", "triple-store endpoint; omit to print N-Triples to stdout")
	flag.StringVar(&opts.taggedField, "tagged-field", "fullrecord", "record key holding the raw tagged record")
	flag.IntVar(&opts.workers, "workers", 4, "number of concurrent record workers")
	flag.IntVar(&opts.rows, "rows", 500, "records per fetch page (with -fetch)")
	flag.IntVar(&opts.batch, "batch", 1000, "triples per store write")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&opts.inspect, "inspect", false, "resolve the first record only and dump per-node results")
	flag.Parse()

	if opts.specURL == "" {
		fmt.Fprintln(os.Stderr, "record-triplifier: -spec is required")
		flag.Usage()
		os.Exit(2)
	}

	if (opts.inputURL == "") == (opts.fetchURL == "") {
		fmt.Fprintln(os.Stderr, "record-triplifier: exactly one of -input or -fetch is required")
		flag.Usage()
		os.Exit(2)
	}

	return opts
}

func run(ctx context.Context, opts options) error {
	spec, err := descriptor.Load(ctx, opts.specURL)
	if err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}

	store := resolve.NewSaveAs()
	proc := resolve.NewProcessor(spec, resolve.Config{TaggedField: opts.taggedField}, store)

	log.Infof("run %s: specification %s, %d nodes, %d graphs",
		store.RunID(), opts.specURL, len(spec.Nodes), len(spec.Graphs()))

	if opts.inspect {
		return inspect(ctx, opts, spec, store)
	}

	records := make(chan map[string]any, opts.workers)
	sink, flush, err := newSink(opts)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		return readRecords(ctx, opts, spec, records)
	})

	var (
		mu      sync.Mutex
		total   int
		emptied int
	)

	for w := 0; w < opts.workers; w++ {
		g.Go(func() error {
			for rec := range records {
				res, err := proc.Process(rec, opts.prefix)
				if err != nil {
					log.Warnf("skipping record: %v", err)
					continue
				}

				if res.Status == resolve.StatusEmpty {
					mu.Lock()
					emptied++
					mu.Unlock()
					continue
				}

				if err := sink(ctx, res.Triples); err != nil {
					return err
				}

				mu.Lock()
				total += len(res.Triples)
				mu.Unlock()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := flush(ctx); err != nil {
		return err
	}

	store.Dedup()
	log.Infof("run %s done: %d triples written, %d empty records, %d saved keys",
		store.RunID(), total, emptied, len(store.Keys()))

	return nil
}

// readRecords streams records from whichever source the flags selected.
// The fetch path projects down to the fields the specification actually
// reads.
func readRecords(ctx context.Context, opts options, spec *descriptor.Specification, out chan<- map[string]any) error {
	emit := func(rec map[string]any) error {
		select {
		case out <- rec:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if opts.fetchURL != "" {
		fields := spec.Fields()
		if opts.taggedField != "" {
			fields = append(fields, opts.taggedField)
		}

		return fetch.NewClient(opts.fetchURL, opts.rows).Fetch(ctx, opts.query, fields, emit)
	}

	return readLines(ctx, opts.inputURL, emit)
}

// readLines decodes one JSON object per line from the input URL.
func readLines(ctx context.Context, URL string, emit func(map[string]any) error) error {
	reader, err := afs.New().OpenURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("opening input %v: %w", URL, err)
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return fmt.Errorf("input line %d: %w", line, err)
		}

		if err := emit(rec); err != nil {
			return err
		}
	}

	return scanner.Err()
}

type sinkFunc func(context.Context, []resolve.Triple) error

// newSink returns the triple writer plus its end-of-run flush. The stdout
// sink serializes writes so concurrent workers cannot interleave lines.
func newSink(opts options) (sinkFunc, func(context.Context) error, error) {
	if opts.storeURL != "" {
		client := triplestore.NewClient(opts.storeURL, opts.batch)
		return client.Write, func(context.Context) error { return nil }, nil
	}

	var mu sync.Mutex
	out := bufio.NewWriter(os.Stdout)

	write := func(_ context.Context, triples []resolve.Triple) error {
		mu.Lock()
		defer mu.Unlock()

		_, err := out.WriteString(triplestore.Document(triples))
		return err
	}

	return write, func(context.Context) error { return out.Flush() }, nil
}

// inspect resolves the first record and dumps every node's pairs, the
// record's triples, and the saveAs side channel.
func inspect(ctx context.Context, opts options, spec *descriptor.Specification, store *resolve.SaveAs) error {
	var first map[string]any

	errStop := fmt.Errorf("first record captured")
	capture := func(rec map[string]any) error {
		first = rec
		return errStop
	}

	var err error
	if opts.fetchURL != "" {
		err = fetch.NewClient(opts.fetchURL, 1).Fetch(ctx, opts.query, nil, capture)
	} else {
		err = readLines(ctx, opts.inputURL, capture)
	}

	if err != nil && err != errStop {
		return err
	}

	if first == nil {
		return fmt.Errorf("no records in input")
	}

	proc := resolve.NewProcessor(spec, resolve.Config{TaggedField: opts.taggedField}, store)

	res, err := proc.Process(first, opts.prefix)
	if err != nil {
		return err
	}

	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	dumper.Fdump(os.Stdout, res)

	for _, key := range store.Keys() {
		fmt.Printf("saveAs %q:\n", key)
		dumper.Fdump(os.Stdout, store.Values(key))
	}

	return nil
}
