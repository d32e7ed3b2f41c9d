// Package histogram loads 2-D adverse-event histograms as dense matrices.
package histogram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"pvsynergy/adapters/excel"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"

	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/mat"
)

// Histogram file columns.
const (
	ColBinX = "bin_x"
	ColBinY = "bin_y"
	ColFreq = "freq"
	ColName = "name"
)

// files pivoted concurrently by LoadDir
const loadParallelism = 4

// Size is the edge of a padded histogram matrix: 59 bins plus one zero row
// and column.
const Size = 60

// Histogram is one pivoted file.
type Histogram struct {
	Source string
	BinsX  []float64 // column labels before padding, ascending
	BinsY  []float64 // row labels before padding, ascending
	Matrix *mat.Dense
	Labels []string // unique non-empty names in file order
}

// Dims returns the padded matrix shape.
func (h Histogram) Dims() (rows, cols int) { return h.Matrix.Dims() }

// Sum is the total frequency mass of the matrix.
func (h Histogram) Sum() float64 { return mat.Sum(h.Matrix) }

// LoadDir reads every *.csv in dir, sorted by file name.
func LoadDir(ctx context.Context, dir string) ([]Histogram, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return nil, apperrors.InputShape(dir, statErr)
		}
	}
	slices.Sort(files)

	// files load in parallel; the first failure in file order is reported
	sem := semaphore.NewWeighted(loadParallelism)
	var wg sync.WaitGroup
	out := make([]Histogram, len(files))
	errs := make([]error, len(files))
	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			out[i], errs[i] = LoadFile(ctx, f)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	logging.Component("histogram").WithFields(map[string]interface{}{
		"dir":   dir,
		"files": len(out),
	}).Debug("histograms loaded")
	return out, nil
}

// LoadFile pivots one histogram file: rows are bin_y, columns bin_x, cells
// the mean freq of matching rows and 0 where no row exists. The result is
// padded with one trailing zero row and column.
func LoadFile(ctx context.Context, path string) (Histogram, error) {
	t, err := excel.NewDataReader(path).ReadData(ctx)
	if err != nil {
		return Histogram{}, apperrors.InputShape(path, err)
	}
	idx, err := t.Columns(ColBinX, ColBinY, ColFreq, ColName)
	if err != nil {
		return Histogram{}, apperrors.InputShape(path, err)
	}
	cx, cy, cf, cn := idx[0], idx[1], idx[2], idx[3]

	type cell struct{ x, y float64 }
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	xs := make(map[float64]bool)
	ys := make(map[float64]bool)
	var labels []string
	seen := make(map[string]bool)

	for i := range t.Rows {
		if name := t.Cell(i, cn); name != "" && !seen[name] {
			seen[name] = true
			labels = append(labels, name)
		}

		x, err := parseFloat(t, i, cx, ColBinX)
		if err != nil {
			return Histogram{}, err
		}
		y, err := parseFloat(t, i, cy, ColBinY)
		if err != nil {
			return Histogram{}, err
		}
		raw := t.Cell(i, cf)
		if raw == "" {
			// missing values do not take part in the mean
			continue
		}
		f, err := parseFloat(t, i, cf, ColFreq)
		if err != nil {
			return Histogram{}, err
		}

		k := cell{x, y}
		sums[k] += f
		counts[k]++
		xs[x] = true
		ys[y] = true
	}

	binsX := sortedKeys(xs)
	binsY := sortedKeys(ys)
	col := positions(binsX)
	row := positions(binsY)

	m := mat.NewDense(len(binsY)+1, len(binsX)+1, nil)
	for k, s := range sums {
		m.Set(row[k.y], col[k.x], s/float64(counts[k]))
	}

	return Histogram{Source: path, BinsX: binsX, BinsY: binsY, Matrix: m, Labels: labels}, nil
}

// Stack concatenates the histograms row-wise into one (len(hs)*size) x size
// matrix. Every histogram must be size x size.
func Stack(hs []Histogram, size int) (*mat.Dense, error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("no histograms to stack")
	}
	out := mat.NewDense(len(hs)*size, size, nil)
	for i, h := range hs {
		r, c := h.Dims()
		if r != size || c != size {
			return nil, apperrors.InputShape(h.Source, fmt.Errorf("histogram is %dx%d, want %dx%d", r, c, size, size))
		}
		out.Slice(i*size, (i+1)*size, 0, size).(*mat.Dense).Copy(h.Matrix)
	}
	return out, nil
}

func parseFloat(t *excel.Table, row, col int, name string) (float64, error) {
	raw := t.Cell(row, col)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InputShape(t.Source, fmt.Errorf("row %d column %s: %q is not a number", row+2, name, raw))
	}
	return f, nil
}

func sortedKeys(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func positions(bins []float64) map[float64]int {
	out := make(map[float64]int, len(bins))
	for i, b := range bins {
		out[b] = i
	}
	return out
}
