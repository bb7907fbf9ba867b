package tagger

import (
	"context"
	"encoding/csv"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"tagdesk/internal/errors"
	"tagdesk/internal/log"

	"github.com/anthonynsimon/bild/transform"
	ort "github.com/yalue/onnxruntime_go"
)

// Files expected inside a WD tagger model directory
const (
	WDModelFile  = "model.onnx"
	WDLabelsFile = "selected_tags.csv"

	wdDefaultSize = 448
)

// selected_tags.csv category codes
const (
	categoryGeneral   = 0
	categoryCharacter = 4
	categoryRating    = 9
)

type wdLabel struct {
	name     string
	category int
}

// WDOptions parameterises a WD tagger
type WDOptions struct {
	ModelDir           string
	LibraryPath        string
	GeneralThreshold   float32
	CharacterThreshold float32
	IncludeRating      bool
}

// WD runs a SmilingWolf WD14-style ONNX tagger locally. The model is loaded
// on first use and kept until Close.
type WD struct {
	opts WDOptions

	mu      sync.Mutex
	labels  []wdLabel
	size    int
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	session *ort.AdvancedSession
}

var ortInit sync.Once

// NewWD checks that the model directory holds a model and its label file
func NewWD(opts WDOptions) (*WD, error) {
	for _, name := range []string{WDModelFile, WDLabelsFile} {
		if _, err := os.Stat(filepath.Join(opts.ModelDir, name)); err != nil {
			return nil, errors.NewModelError("model file missing: "+name, "wd", errors.ModelUnavailable, err)
		}
	}
	return &WD{opts: opts}, nil
}

// Name implements Tagger
func (w *WD) Name() string { return "wd" }

// Close destroys the session and its tensors
func (w *WD) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.session != nil {
		firstErr = w.session.Destroy()
		w.session = nil
	}
	if w.input != nil {
		if err := w.input.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.input = nil
	}
	if w.output != nil {
		if err := w.output.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.output = nil
	}
	return firstErr
}

// Tag implements Tagger
func (w *WD) Tag(ctx context.Context, imagePath string, progress func(string)) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		progress("Loading WD tagger model...")
		if err := w.load(); err != nil {
			return nil, err
		}
	}

	progress("Processing image...")
	img, err := loadImage(imagePath)
	if err != nil {
		return nil, err
	}
	fillBGR(w.input.GetData(), img, w.size)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress("Running inference...")
	if err := w.session.Run(); err != nil {
		return nil, errors.NewModelError("inference failed", w.Name(), errors.ModelFailed, err)
	}

	return selectLabels(w.labels, w.output.GetData(), w.opts), nil
}

func (w *WD) load() error {
	var initErr error
	ortInit.Do(func() {
		if w.opts.LibraryPath != "" {
			ort.SetSharedLibraryPath(w.opts.LibraryPath)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return errors.NewModelError("onnxruntime unavailable", w.Name(), errors.ModelUnavailable, initErr)
	}
	if !ort.IsInitialized() {
		return errors.NewModelError("onnxruntime unavailable", w.Name(), errors.ModelUnavailable, nil)
	}

	labels, err := readLabels(filepath.Join(w.opts.ModelDir, WDLabelsFile))
	if err != nil {
		return err
	}

	modelPath := filepath.Join(w.opts.ModelDir, WDModelFile)
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil || len(inputs) == 0 || len(outputs) == 0 {
		return errors.NewModelError("cannot inspect model", w.Name(), errors.ModelUnavailable, err)
	}

	// NHWC input; a dynamic height reads as -1
	size := wdDefaultSize
	if dims := inputs[0].Dimensions; len(dims) == 4 && dims[1] > 0 {
		size = int(dims[1])
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(size), int64(size), 3))
	if err != nil {
		return errors.NewModelError("cannot allocate input", w.Name(), errors.ModelFailed, err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		input.Destroy()
		return errors.NewModelError("cannot allocate output", w.Name(), errors.ModelFailed, err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return errors.NewModelError("cannot create session", w.Name(), errors.ModelUnavailable, err)
	}

	w.labels, w.size = labels, size
	w.input, w.output, w.session = input, output, session
	log.LogWithFields(log.F("model", modelPath), log.F("labels", len(labels)), log.F("size", size)).Info("WD tagger loaded")
	return nil
}

// readLabels parses selected_tags.csv: tag_id,name,category,count
func readLabels(path string) ([]wdLabel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileError("failed to open labels", path, errors.IOFailure, err)
	}
	defer f.Close()
	return parseLabels(f)
}

func parseLabels(r io.Reader) ([]wdLabel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewModelError("malformed label file", "wd", errors.ModelUnavailable, err)
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	labels := make([]wdLabel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		l := wdLabel{name: row[1], category: categoryGeneral}
		if len(row) > 2 {
			if c, err := strconv.Atoi(row[2]); err == nil {
				l.category = c
			}
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// fillBGR resizes img to size x size and writes it into dst as NHWC BGR
// floats in 0-255, the layout WD taggers are trained on.
func fillBGR(dst []float32, img image.Image, size int) {
	resized := transform.Resize(img, size, size, transform.CatmullRom)

	pix := resized.Pix
	for i := 0; i < size*size; i++ {
		dst[i*3+0] = float32(pix[i*4+2])
		dst[i*3+1] = float32(pix[i*4+1])
		dst[i*3+2] = float32(pix[i*4+0])
	}
}

// selectLabels keeps the best rating (if asked for), then characters and
// general tags above their thresholds, each group by descending score.
func selectLabels(labels []wdLabel, probs []float32, opts WDOptions) []string {
	type scored struct {
		name  string
		score float32
	}
	var rating *scored
	var characters, general []scored

	for i, l := range labels {
		if i >= len(probs) {
			break
		}
		p := probs[i]
		switch l.category {
		case categoryRating:
			if rating == nil || p > rating.score {
				rating = &scored{l.name, p}
			}
		case categoryCharacter:
			if p >= opts.CharacterThreshold {
				characters = append(characters, scored{l.name, p})
			}
		default:
			if p >= opts.GeneralThreshold {
				general = append(general, scored{l.name, p})
			}
		}
	}

	byScore := func(s []scored) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].score > s[j].score })
	}
	byScore(characters)
	byScore(general)

	tags := []string{}
	if opts.IncludeRating && rating != nil {
		tags = append(tags, rating.name)
	}
	for _, s := range characters {
		tags = append(tags, s.name)
	}
	for _, s := range general {
		tags = append(tags, s.name)
	}
	return tags
}
