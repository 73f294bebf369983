package plotting

import (
	"fmt"
	"math"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/notargets/avs/assets"
	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/lcs"
)

// LatticeTriMesh splits every lattice cell into two triangles over the lattice nodes
func LatticeTriMesh(lat *grid.Lattice) (gm geometry.TriMesh) {
	var (
		xy    = make([]float32, 2*lat.Len())
		verts = make([][3]int64, 0, 2*(lat.Nx-1)*(lat.Ny-1))
	)
	for k := 0; k < lat.Len(); k++ {
		i, j := lat.IJ(k)
		xy[2*k], xy[2*k+1] = float32(lat.X(i)), float32(lat.Y(j))
	}
	for j := 0; j < lat.Ny-1; j++ {
		for i := 0; i < lat.Nx-1; i++ {
			k00 := int64(lat.Index(i, j))
			k10, k01, k11 := k00+1, k00+int64(lat.Nx), k00+int64(lat.Nx)+1
			verts = append(verts, [3]int64{k00, k10, k11}, [3]int64{k00, k11, k01})
		}
	}
	gm = *geometry.NewTriMesh(xy, verts)
	return
}

// FieldValues32 converts a field for shading, invalid nodes take the field minimum
func FieldValues32(f *grid.ScalarField) (vals []float32, fMin, fMax float32) {
	var (
		min, max, _, _ = f.Stats()
	)
	if math.IsNaN(min) {
		min, max = 0, 0
	}
	fMin, fMax = float32(min), float32(max)
	vals = make([]float32, len(f.Data()))
	for k, v := range f.Data() {
		if math.IsNaN(v) {
			vals[k] = fMin
			continue
		}
		vals[k] = float32(v)
	}
	return
}

/*
PlotFTLE shades the FTLE field of a result over its lattice in an OpenGL
window. With a zero hold the call blocks until the process is stopped.
*/
func PlotFTLE(r *lcs.Result, precision int, hold time.Duration) {
	var (
		lat            = r.Field.Lattice
		gm             = LatticeTriMesh(lat)
		vals, fMin, fM = FieldValues32(r.Field)
		earlier, later = r.Window()
	)
	ch := chart2d.NewChart2D(float32(lat.XMin), float32(lat.XMax), float32(lat.YMin), float32(lat.YMax),
		1024, 1024, utils2.WHITE, utils2.BLACK)
	vs := geometry.VertexScalar{
		TMesh:       &gm,
		FieldValues: vals,
	}
	fmt.Printf("FTLE fMin: %f, fMax: %f\n", fMin, fM)
	ch.AddShadedVertexScalar(&vs, fMin, fM)
	tf := assets.NewTextFormatter("NotoSans", "Regular", 24, utils2.BLACK, true, false)
	ch.Printf(tf, float32(lat.XMin), float32(lat.YMax), "FTLE %s %.*f-%.*f",
		r.Direction, precision, earlier, precision, later)
	if hold > 0 {
		time.Sleep(hold)
		return
	}
	select {}
}

// SummaryChart renders the max and mean FTLE of each window against window length
func SummaryChart(summaries []lcs.Summary, caption string) string {
	var (
		maxs, means []float64
	)
	for _, sm := range summaries {
		if math.IsNaN(sm.Max) {
			continue
		}
		maxs = append(maxs, sm.Max)
		means = append(means, sm.Mean)
	}
	if len(maxs) == 0 {
		return caption + ": no valid FTLE values\n"
	}
	if len(maxs) == 1 {
		// a single point is drawn as a flat line
		maxs, means = append(maxs, maxs[0]), append(means, means[0])
	}
	return asciigraph.PlotMany([][]float64{maxs, means},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(caption),
	) + "\n"
}
