// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Command esrixml writes GEONIS protocol files for Esri JSON geometries read
// from files, stdin or an ArcGIS Feature Layer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sudo-Ivan/esrixml/pkg/arcgis"
	"github.com/Sudo-Ivan/esrixml/pkg/protocol"
)

type config struct {
	OutputDir     string
	Project       string
	Message       string
	Prefix        string
	Table         string
	GlobalIDField string
	Overwrite     bool
	SkipExisting  bool
}

// result summarizes one written protocol file.
type result struct {
	Path    string
	Written int
	Failed  int
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var inputs stringList
	flag.Var(&inputs, "input", "Esri JSON input file, '-' for stdin (repeatable; further arguments are inputs too)")
	urlPtr := flag.String("url", "", "ArcGIS Feature Layer URL to fetch features from")
	outputPtr := flag.String("output", "", "Output directory (default: current directory)")
	projectPtr := flag.String("project", "", "GEONIS project file recorded in the protocol (default: "+DefaultProjectName+" in the output directory)")
	messagePtr := flag.String("message", "", "Message logged with every geometry, followed by the feature name")
	tablePtr := flag.String("table", "", "Table or feature class path recorded for features (default: input path or layer URL)")
	globalIDPtr := flag.String("globalid-field", "", "GlobalID field name (default: the layer's GlobalID field, or "+protocol.DefaultGlobalIDField+")")
	noColorPtr := flag.Bool("no-color", false, "Disable colored output")
	overwritePtr := flag.Bool("overwrite", false, "Overwrite existing output files")
	skipExistingPtr := flag.Bool("skip-existing", false, "Skip processing if output file already exists")
	prefixPtr := flag.String("prefix", "", "Prefix for output filenames")
	timeoutPtr := flag.Int("timeout", DefaultTimeoutSeconds, "HTTP request timeout in seconds")

	flag.Parse()

	useColor = !*noColorPtr
	inputs = append(inputs, flag.Args()...)

	if *urlPtr == "" && len(inputs) == 0 {
		printError("An input file or -url is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := &config{
		OutputDir:     *outputPtr,
		Project:       *projectPtr,
		Message:       *messagePtr,
		Prefix:        *prefixPtr,
		Table:         *tablePtr,
		GlobalIDField: *globalIDPtr,
		Overwrite:     *overwritePtr,
		SkipExisting:  *skipExistingPtr,
	}
	if cfg.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatal(err)
		}
		cfg.OutputDir = wd
	}
	if cfg.Project == "" {
		cfg.Project = filepath.Join(cfg.OutputDir, DefaultProjectName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := arcgis.NewClient(time.Duration(*timeoutPtr) * time.Second)
	client.Log = os.Stdout

	type job struct {
		name string
		load func() (*batch, error)
	}
	var jobs []job
	seen := make(map[string]bool)
	for _, in := range inputs {
		in := in
		if seen[in] {
			continue
		}
		seen[in] = true
		jobs = append(jobs, job{in, func() (*batch, error) { return loadFile(in, os.Stdin, cfg) }})
	}
	if *urlPtr != "" {
		jobs = append(jobs, job{*urlPtr, func() (*batch, error) { return loadLayer(ctx, client, *urlPtr, cfg) }})
	}

	claims := newOutputClaims()
	printInfo(fmt.Sprintf("\nProcessing %d input(s) concurrently...", len(jobs)))
	var successCount, skippedCount, errorCount atomic.Int32
	var wg sync.WaitGroup

	for _, j := range jobs {
		j := j
		wg.Add(1)
		go func() {
			defer wg.Done()
			printInfo(fmt.Sprintf("Processing input: %s", j.name))
			res, err := process(j.name, j.load, cfg, claims)
			switch {
			case errors.Is(err, errSkippedExisting):
				printWarning(fmt.Sprintf("  Skipped %s (output file exists).", j.name))
				skippedCount.Add(1)
			case errors.Is(err, errNoFeatures):
				printWarning(fmt.Sprintf("  Skipped %s (no features found).", j.name))
				skippedCount.Add(1)
			case err != nil:
				printError(fmt.Sprintf("  Error processing %s: %v", j.name, err))
				errorCount.Add(1)
			case res.Failed > 0:
				printWarning(fmt.Sprintf("  Wrote %s: %d geometries, %d skipped (see protocol warnings).", res.Path, res.Written, res.Failed))
				successCount.Add(1)
			default:
				printSuccess(fmt.Sprintf("  Wrote %s: %d geometries.", res.Path, res.Written))
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	finalSuccessCount := successCount.Load()
	finalSkippedCount := skippedCount.Load()
	finalErrorCount := errorCount.Load()

	summary := fmt.Sprintf("\nProcessing Complete. %d inputs succeeded, %d skipped, %d failed.", finalSuccessCount, finalSkippedCount, finalErrorCount)
	if finalErrorCount > 0 {
		printError(summary)
		os.Exit(1)
	} else if finalSkippedCount > 0 {
		printWarning(summary)
	} else {
		printSuccess(summary)
	}
}

var errDuplicateOutput = errors.New("output file claimed by another input")

// outputClaims records which input writes each output path, so concurrent
// inputs with the same base name cannot replace each other's protocol.
type outputClaims struct {
	mu    sync.Mutex
	paths map[string]string
}

func newOutputClaims() *outputClaims {
	return &outputClaims{paths: make(map[string]string)}
}

// claim reserves path for input. It fails if another input holds it.
func (c *outputClaims) claim(path, input string) error {
	key := filepath.Clean(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if owner, ok := c.paths[key]; ok && owner != input {
		return fmt.Errorf("%w: %s is written by %s", errDuplicateOutput, path, owner)
	}
	c.paths[key] = input
	return nil
}

// process loads one input and writes its protocol file.
func process(name string, load func() (*batch, error), cfg *config, claims *outputClaims) (*result, error) {
	b, err := load()
	if err != nil {
		return nil, err
	}
	if err := claims.claim(outputFile(cfg, b.Base), name); err != nil {
		return nil, err
	}
	path, err := outputPath(cfg, b.Base)
	if err != nil {
		return nil, err
	}
	return writeBatch(b, path, cfg)
}

func outputFile(cfg *config, base string) string {
	return filepath.Join(cfg.OutputDir, cfg.Prefix+base+OutputExt)
}

// outputPath returns the protocol file path for base, checking whether an
// existing file may be replaced.
func outputPath(cfg *config, base string) (string, error) {
	path := outputFile(cfg, base)
	if _, err := os.Stat(path); err == nil {
		if cfg.SkipExisting {
			return "", errSkippedExisting
		}
		if !cfg.Overwrite {
			return "", fmt.Errorf("output file %s already exists. Use -overwrite or -skip-existing", path)
		}
		printWarning(fmt.Sprintf("  Overwriting existing file: %s", path))
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check output file status %s: %w", path, err)
	}
	return path, nil
}

// writeBatch logs every item of b and flushes the protocol to path.
// Items whose geometry cannot be serialized are logged as warnings instead.
func writeBatch(b *batch, path string, cfg *config) (*result, error) {
	logger, err := protocol.NewLogger(cfg.Project)
	if err != nil {
		return nil, err
	}
	if err := logger.Header(b.Name, nil); err != nil {
		return nil, err
	}

	res := &result{Path: path}
	for _, it := range b.Items {
		f := &protocol.Feature{
			Table:         b.Table,
			GlobalID:      it.GlobalID,
			GlobalIDField: b.GlobalIDField,
			Geometry:      it.Geometry,
		}
		msg := it.Label
		if cfg.Message != "" {
			msg = fmt.Sprintf(MessageFormat, cfg.Message, it.Label)
		}
		if err := logger.Message(msg, f); err != nil {
			res.Failed++
			if err := logger.Warn(fmt.Sprintf(WarningFormat, it.Label, err), nil); err != nil {
				return nil, err
			}
			continue
		}
		res.Written++
	}

	logger.Blank()
	if err := logger.Info(fmt.Sprintf("%d of %d geometries written", res.Written, len(b.Items)), nil); err != nil {
		return nil, err
	}
	if err := logger.Flush(path); err != nil {
		return nil, err
	}
	return res, nil
}
