package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

type job struct {
	in  string
	out string
}

// Processor renders every image in a directory with one parameter set using
// a pool of workers. Each worker builds its own session per file.
type Processor struct {
	startTime time.Time
	endTime   time.Time
	outDir    string
	poolSize  int
	opts      Options
	files     []string
	jobs      chan job
	results   chan error
	log       logrus.FieldLogger
}

func NewProcessor(inDir, outDir string, poolSize int, opts Options, logger logrus.FieldLogger) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if opts.Rand != nil && poolSize > 1 {
		return nil, errors.New("a fixed random source cannot be shared between workers")
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(inDir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, errors.New("no images to process")
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.WithField("files", len(files)).Info("batch prepared")
	return &Processor{
		startTime: time.Now(),
		outDir:    outDir,
		poolSize:  poolSize,
		opts:      opts,
		files:     files,
		jobs:      make(chan job),
		results:   make(chan error),
		log:       logger,
	}, nil
}

// DispatchJobs feeds the files to the workers.
func (p *Processor) DispatchJobs() {
	go func() {
		for _, file := range p.files {
			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			p.jobs <- job{in: file, out: filepath.Join(p.outDir, base+".png")}
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	p.log.WithField("poolSize", p.poolSize).Info("starting workers")

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log := p.log.WithField("worker", i)
	log.Debug("worker started")
	for j := range p.jobs {
		p.results <- RenderFile(j.in, j.out, p.opts, log)
	}
	log.Debug("worker finished")
}

// Wait blocks until every file has been processed and returns the failures.
func (p *Processor) Wait() []error {
	errs := make([]error, 0)
	for range p.files {
		if err := <-p.results; err != nil {
			errs = append(errs, err)
		}
	}
	p.endTime = time.Now()
	p.log.WithFields(logrus.Fields{
		"elapsed": p.endTime.Sub(p.startTime),
		"errors":  len(errs),
	}).Info("batch complete")
	return errs
}

func (p *Processor) Files() []string {
	return p.files
}
