package velocity

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/utils"
)

var ErrSnapshotMissing = errors.New("velocity snapshot file not found")

/*
Snapshot text layout, three header lines then one "u v" pair per node in x
major order (i outer, j inner):

	# velocity t=<time>
	<nx> <ny>
	<x_min> <x_max> <y_min> <y_max>
*/
func WriteSnapshot(fileName string, lat *grid.Lattice, s *Snapshot, precision int) (err error) {
	var (
		file *os.File
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
	fmt.Fprintf(w, "# velocity t=%s\n", utils.FormatTime(s.Time, precision))
	fmt.Fprintf(w, "%d %d\n", lat.Nx, lat.Ny)
	fmt.Fprintf(w, "%v %v %v %v\n", lat.XMin, lat.XMax, lat.YMin, lat.YMax)
	for i := 0; i < lat.Nx; i++ {
		for j := 0; j < lat.Ny; j++ {
			k := lat.Index(i, j)
			w.WriteString(strconv.FormatFloat(s.U[k], 'g', -1, 64))
			w.WriteByte(' ')
			w.WriteString(strconv.FormatFloat(s.V[k], 'g', -1, 64))
			w.WriteByte('\n')
		}
	}
	err = w.Flush()
	return
}

// ReadSnapshot parses a snapshot file written for lat. The header must match the lattice.
func ReadSnapshot(fileName string, lat *grid.Lattice) (s *Snapshot, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrSnapshotMissing, fileName)
		}
		return
	}
	defer file.Close()
	var (
		scanner = bufio.NewScanner(file)
		line    int
		k       int
		nx, ny  int
	)
	s = &Snapshot{
		U: make([]float64, lat.Len()),
		V: make([]float64, lat.Len()),
	}
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		switch {
		case line == 1:
			continue
		case line == 2:
			if len(fields) != 2 {
				return nil, fmt.Errorf("%s:%d: expected \"nx ny\"", fileName, line)
			}
			if nx, err = strconv.Atoi(fields[0]); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
			}
			if ny, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
			}
			if nx != lat.Nx || ny != lat.Ny {
				return nil, fmt.Errorf("%s: snapshot is %dx%d, data lattice is %dx%d",
					fileName, nx, ny, lat.Nx, lat.Ny)
			}
			continue
		case line == 3:
			if err = checkBounds(fileName, line, fields, lat.Bounds); err != nil {
				return nil, err
			}
			continue
		case len(fields) == 0:
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"u v\", have %q", fileName, line, scanner.Text())
		}
		if k >= lat.Len() {
			return nil, fmt.Errorf("%s:%d: more than %d values", fileName, line, lat.Len())
		}
		// x major on disk, flat index is row major in y
		i, j := k/lat.Ny, k%lat.Ny
		ind := lat.Index(i, j)
		if s.U[ind], err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
		}
		if s.V[ind], err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
		}
		k++
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if k != lat.Len() {
		return nil, fmt.Errorf("%s: have %d values, need %d", fileName, k, lat.Len())
	}
	return
}

// checkBounds parses the "x_min x_max y_min y_max" header line and compares it with b
func checkBounds(fileName string, line int, fields []string, b grid.Bounds) (err error) {
	var (
		have [4]float64
		want = [4]float64{b.XMin, b.XMax, b.YMin, b.YMax}
		tol  = 1e-12 * math.Max(b.XMax-b.XMin, b.YMax-b.YMin)
	)
	if len(fields) != 4 {
		return fmt.Errorf("%s:%d: expected \"x_min x_max y_min y_max\"", fileName, line)
	}
	for n, field := range fields {
		if have[n], err = strconv.ParseFloat(field, 64); err != nil {
			return fmt.Errorf("%s:%d: %w", fileName, line, err)
		}
	}
	for n := range have {
		if !(math.Abs(have[n]-want[n]) <= tol) {
			return fmt.Errorf("%s: snapshot bounds %v %v %v %v, data lattice bounds %v %v %v %v",
				fileName, have[0], have[1], have[2], have[3], want[0], want[1], want[2], want[3])
		}
	}
	return
}
