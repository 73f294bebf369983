package lcs

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/utils"
)

// Result is the FTLE field of one integration window
type Result struct {
	Field                  *grid.ScalarField
	Direction              types.Direction
	InitialTime, FinalTime float64
}

// Window returns the window times with the numerically smaller one first
func (r *Result) Window() (earlier, later float64) {
	return r.Direction.Ordered(r.InitialTime, r.FinalTime)
}

type ResultWriter interface {
	WriteResult(r *Result) (fileName string, err error)
}

// FileResultWriter writes each result as a text file under Dir
type FileResultWriter struct {
	Dir       string
	Prefix    string
	Precision int
}

func NewFileResultWriter(dir, prefix string, precision int) (w *FileResultWriter, err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	w = &FileResultWriter{Dir: dir, Prefix: prefix, Precision: precision}
	return
}

func (w *FileResultWriter) WriteResult(r *Result) (fileName string, err error) {
	fileName = FTLEFileName(w.Dir, w.Prefix, r.Direction, r.InitialTime, r.FinalTime, w.Precision)
	err = WriteFTLE(fileName, r, w.Precision)
	return
}

// FTLEFileName is {prefix}{positive_|negative_}{earlier}-{later}.txt
func FTLEFileName(dir, prefix string, d types.Direction, tInitial, tFinal float64, precision int) string {
	earlier, later := d.Ordered(tInitial, tFinal)
	return filepath.Join(dir, prefix+d.Tag()+
		utils.FormatTime(earlier, precision)+"-"+utils.FormatTime(later, precision)+".txt")
}

/*
FTLE text layout, three header lines then one value per node in x major order
(i outer, j inner), invalid nodes written as nan:

	# FTLE <earlier>-<later>
	<nx> <ny>
	<x_min> <x_max> <y_min> <y_max>
*/
func WriteFTLE(fileName string, r *Result, precision int) (err error) {
	var (
		file           *os.File
		lat            = r.Field.Lattice
		fD             = r.Field.Data()
		earlier, later = r.Window()
	)
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# FTLE %s-%s\n", utils.FormatTime(earlier, precision), utils.FormatTime(later, precision))
	fmt.Fprintf(w, "%d %d\n", lat.Nx, lat.Ny)
	fmt.Fprintf(w, "%v %v %v %v\n", lat.XMin, lat.XMax, lat.YMin, lat.YMax)
	for i := 0; i < lat.Nx; i++ {
		for j := 0; j < lat.Ny; j++ {
			v := fD[lat.Index(i, j)]
			if math.IsNaN(v) {
				w.WriteString("nan\n")
				continue
			}
			w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			w.WriteByte('\n')
		}
	}
	err = w.Flush()
	return
}

// ReadFTLE parses a result file back into a field and its window times
func ReadFTLE(fileName string) (f *grid.ScalarField, earlier, later float64, err error) {
	var (
		file    *os.File
		lat     *grid.Lattice
		line, k int
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch line {
		case 1:
			if earlier, later, err = parseWindow(text); err != nil {
				return nil, 0, 0, fmt.Errorf("%s:%d: %w", fileName, line, err)
			}
			continue
		case 2:
			var nx, ny int
			if _, err = fmt.Sscan(text, &nx, &ny); err != nil {
				return nil, 0, 0, fmt.Errorf("%s:%d: %w", fileName, line, err)
			}
			lat = &grid.Lattice{Nx: nx, Ny: ny}
			continue
		case 3:
			var b grid.Bounds
			if _, err = fmt.Sscan(text, &b.XMin, &b.XMax, &b.YMin, &b.YMax); err != nil {
				return nil, 0, 0, fmt.Errorf("%s:%d: %w", fileName, line, err)
			}
			if lat, err = grid.NewLattice(b, lat.Nx, lat.Ny); err != nil {
				return nil, 0, 0, fmt.Errorf("%s: %w", fileName, err)
			}
			f = grid.NewScalarField(lat)
			continue
		}
		if len(text) == 0 {
			continue
		}
		if k >= lat.Len() {
			return nil, 0, 0, fmt.Errorf("%s:%d: more than %d values", fileName, line, lat.Len())
		}
		var v float64
		if v, err = strconv.ParseFloat(text, 64); err != nil {
			return nil, 0, 0, fmt.Errorf("%s:%d: %w", fileName, line, err)
		}
		f.Set(k/lat.Ny, k%lat.Ny, v)
		k++
	}
	if err = scanner.Err(); err != nil {
		return nil, 0, 0, err
	}
	if f == nil || k != lat.Len() {
		return nil, 0, 0, fmt.Errorf("%s: incomplete FTLE file, have %d values", fileName, k)
	}
	return
}

func parseWindow(header string) (earlier, later float64, err error) {
	var (
		span string
	)
	if _, err = fmt.Sscanf(header, "# FTLE %s", &span); err != nil {
		return
	}
	// Split on the dash between the times, not on a leading minus sign
	n := strings.Index(span[1:], "-") + 1
	if n == 0 {
		err = fmt.Errorf("malformed window %q", span)
		return
	}
	if earlier, err = strconv.ParseFloat(span[:n], 64); err != nil {
		return
	}
	later, err = strconv.ParseFloat(span[n+1:], 64)
	return
}
