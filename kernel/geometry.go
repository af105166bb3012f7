package kernel

import (
	"fmt"
	"math"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// ResizeMethod selects the resampling kernel used by Resize.
type ResizeMethod int

const (
	ResizeNearest ResizeMethod = iota
	ResizeBilinear
	ResizeBicubic
	ResizeLanczos3
)

func cubicWeight(x float64) float64 {
	const a = -0.5
	x = math.Abs(x)
	switch {
	case x <= 1:
		return (a+2)*x*x*x - (a+3)*x*x + 1
	case x < 2:
		return a*x*x*x - 5*a*x*x + 8*a*x - 4*a
	default:
		return 0
	}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

func lanczos3Weight(x float64) float64 {
	const a = 3.0
	x = math.Abs(x)
	if x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

func resizeWeights(method ResizeMethod, frac float64) (offsets []int, weights []float64) {
	switch method {
	case ResizeNearest:
		o := 0
		if frac >= 0.5 {
			o = 1
		}
		return []int{o}, []float64{1}
	case ResizeBilinear:
		return []int{0, 1}, []float64{1 - frac, frac}
	case ResizeBicubic:
		offs := []int{-1, 0, 1, 2}
		w := make([]float64, 4)
		sum := 0.0
		for i, o := range offs {
			w[i] = cubicWeight(float64(o) - frac)
			sum += w[i]
		}
		for i := range w {
			w[i] /= sum
		}
		return offs, w
	default: // ResizeLanczos3
		offs := []int{-2, -1, 0, 1, 2, 3}
		w := make([]float64, 6)
		sum := 0.0
		for i, o := range offs {
			w[i] = lanczos3Weight(float64(o) - frac)
			sum += w[i]
		}
		if sum == 0 {
			sum = 1
		}
		for i := range w {
			w[i] /= sum
		}
		return offs, w
	}
}

// ResizeU8 resamples buf to the given dimensions using method, sampling
// outside the source bounds per edge.
func ResizeU8(buf *raster.Buffer, newW, newH int, method ResizeMethod, edge EdgeMode) (*raster.Buffer, error) {
	if newW < 1 || newH < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.resize", engerr.ErrInvalidDimensions)
	}
	c := buf.Layout.Channels()
	out := raster.NewU8(newW, newH, buf.Layout)
	src := buf.U8()
	dst := out.U8()
	sx := float64(buf.W) / float64(newW)
	sy := float64(buf.H) / float64(newH)
	for y := 0; y < newH; y++ {
		srcY := (float64(y)+0.5)*sy - 0.5
		y0 := int(math.Floor(srcY))
		fy := srcY - float64(y0)
		oy, wy := resizeWeights(method, fy)
		for x := 0; x < newW; x++ {
			srcX := (float64(x)+0.5)*sx - 0.5
			x0 := int(math.Floor(srcX))
			fx := srcX - float64(x0)
			ox, wx := resizeWeights(method, fx)
			for k := 0; k < c; k++ {
				var acc float64
				for iy, dy := range oy {
					ry, ok := clampIndex(y0+dy, buf.H, edge)
					if !ok {
						continue
					}
					for ix, dx := range ox {
						rx, ok := clampIndex(x0+dx, buf.W, edge)
						if !ok {
							continue
						}
						acc += wy[iy] * wx[ix] * float64(src[(ry*buf.W+rx)*c+k])
					}
				}
				dst[(y*newW+x)*c+k] = clampU8Float64(acc)
			}
		}
	}
	return out, nil
}

// ResizeF32 is the F32 counterpart.
func ResizeF32(buf *raster.Buffer, newW, newH int, method ResizeMethod, edge EdgeMode) (*raster.Buffer, error) {
	if newW < 1 || newH < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.resize", engerr.ErrInvalidDimensions)
	}
	c := buf.Layout.Channels()
	out := raster.NewF32(newW, newH, buf.Layout)
	src := buf.F32()
	dst := out.F32()
	sx := float64(buf.W) / float64(newW)
	sy := float64(buf.H) / float64(newH)
	for y := 0; y < newH; y++ {
		srcY := (float64(y)+0.5)*sy - 0.5
		y0 := int(math.Floor(srcY))
		fy := srcY - float64(y0)
		oy, wy := resizeWeights(method, fy)
		for x := 0; x < newW; x++ {
			srcX := (float64(x)+0.5)*sx - 0.5
			x0 := int(math.Floor(srcX))
			fx := srcX - float64(x0)
			ox, wx := resizeWeights(method, fx)
			for k := 0; k < c; k++ {
				var acc float32
				for iy, dy := range oy {
					ry, ok := clampIndex(y0+dy, buf.H, edge)
					if !ok {
						continue
					}
					for ix, dx := range ox {
						rx, ok := clampIndex(x0+dx, buf.W, edge)
						if !ok {
							continue
						}
						acc += float32(wy[iy]*wx[ix]) * src[(ry*buf.W+rx)*c+k]
					}
				}
				dst[(y*newW+x)*c+k] = acc
			}
		}
	}
	return out, nil
}

// Flip mirrors buf horizontally, vertically, or both. Works for either
// element type since it only permutes samples.
func Flip(buf *raster.Buffer, horizontal, vertical bool) *raster.Buffer {
	out := buf.Clone()
	c := buf.Layout.Channels()
	copyPixel := func(dx, dy, sx, sy int) {
		if buf.Elem == raster.U8 {
			src, dst := buf.U8(), out.U8()
			copy(dst[(dy*buf.W+dx)*c:(dy*buf.W+dx)*c+c], src[(sy*buf.W+sx)*c:(sy*buf.W+sx)*c+c])
		} else {
			src, dst := buf.F32(), out.F32()
			copy(dst[(dy*buf.W+dx)*c:(dy*buf.W+dx)*c+c], src[(sy*buf.W+sx)*c:(sy*buf.W+sx)*c+c])
		}
	}
	for y := 0; y < buf.H; y++ {
		sy := y
		if vertical {
			sy = buf.H - 1 - y
		}
		for x := 0; x < buf.W; x++ {
			sx := x
			if horizontal {
				sx = buf.W - 1 - x
			}
			copyPixel(x, y, sx, sy)
		}
	}
	return out
}

// Crop extracts the sub-rectangle [x,y,x+w,y+h) of buf.
func Crop(buf *raster.Buffer, x, y, w, h int) (*raster.Buffer, error) {
	if w < 1 || h < 1 || x < 0 || y < 0 || x+w > buf.W || y+h > buf.H {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.crop", engerr.ErrInvalidDimensions)
	}
	c := buf.Layout.Channels()
	if buf.Elem == raster.U8 {
		out := raster.NewU8(w, h, buf.Layout)
		src, dst := buf.U8(), out.U8()
		for row := 0; row < h; row++ {
			srow := (y+row)*buf.W + x
			drow := row * w
			copy(dst[drow*c:(drow+w)*c], src[srow*c:(srow+w)*c])
		}
		return out, nil
	}
	out := raster.NewF32(w, h, buf.Layout)
	src, dst := buf.F32(), out.F32()
	for row := 0; row < h; row++ {
		srow := (y+row)*buf.W + x
		drow := row * w
		copy(dst[drow*c:(drow+w)*c], src[srow*c:(srow+w)*c])
	}
	return out, nil
}

// CenterCrop extracts a w x h rectangle centered in buf.
func CenterCrop(buf *raster.Buffer, w, h int) (*raster.Buffer, error) {
	if w > buf.W || h > buf.H {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.center_crop", engerr.ErrInvalidDimensions)
	}
	x := (buf.W - w) / 2
	y := (buf.H - h) / 2
	return Crop(buf, x, y, w, h)
}

// RotateU8 rotates buf by degrees clockwise. Multiples of 90 take a fast
// exact-copy path; other angles resample with nearest-pixel fill.
func RotateU8(buf *raster.Buffer, degrees float64, fill []uint8, edge EdgeMode) (*raster.Buffer, error) {
	if m := math.Mod(degrees, 360); m == 0 {
		return buf.Clone(), nil
	} else if m == 90 || m == -270 {
		return rotate90U8(buf, 1), nil
	} else if m == 180 || m == -180 {
		return rotate90U8(buf, 2), nil
	} else if m == 270 || m == -90 {
		return rotate90U8(buf, 3), nil
	}
	return rotateGeneralU8(buf, degrees, fill, edge)
}

func rotate90U8(buf *raster.Buffer, quarter int) *raster.Buffer {
	c := buf.Layout.Channels()
	src := buf.U8()
	switch quarter {
	case 1:
		out := raster.NewU8(buf.H, buf.W, buf.Layout)
		dst := out.U8()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := buf.H-1-y, x
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	case 2:
		out := raster.NewU8(buf.W, buf.H, buf.Layout)
		dst := out.U8()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := buf.W-1-x, buf.H-1-y
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	default: // 3
		out := raster.NewU8(buf.H, buf.W, buf.Layout)
		dst := out.U8()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := y, buf.W-1-x
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	}
}

func rotateGeneralU8(buf *raster.Buffer, degrees float64, fill []uint8, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	if fill == nil {
		fill = make([]uint8, c)
	}
	theta := degrees * math.Pi / 180
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(buf.W)/2, float64(buf.H)/2
	out := raster.NewU8(buf.W, buf.H, buf.Layout)
	src, dst := buf.U8(), out.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			sxf := cosT*dx + sinT*dy + cx
			syf := -sinT*dx + cosT*dy + cy
			sx, sy := int(math.Round(sxf)), int(math.Round(syf))
			base := (y*buf.W + x) * c
			if sx < 0 || sx >= buf.W || sy < 0 || sy >= buf.H {
				if ix, iy, ok := clampIndex2(sx, sy, buf.W, buf.H, edge); ok && edge != EdgeZero {
					copy(dst[base:base+c], src[(iy*buf.W+ix)*c:(iy*buf.W+ix)*c+c])
				} else {
					copy(dst[base:base+c], fill)
				}
				continue
			}
			copy(dst[base:base+c], src[(sy*buf.W+sx)*c:(sy*buf.W+sx)*c+c])
		}
	}
	return out, nil
}

// LensDistortionParams holds Brown-Conrady radial (k1,k2,k3) and tangential
// (p1,p2) distortion coefficients.
type LensDistortionParams struct {
	K1, K2, K3 float64
	P1, P2     float64
}

// LensDistortU8 applies (forward=true) or removes (forward=false) lens
// distortion, sampling with bilinear interpolation.
func LensDistortU8(buf *raster.Buffer, p LensDistortionParams, forward bool, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	cx, cy := float64(buf.W)/2, float64(buf.H)/2
	norm := math.Max(cx, cy)
	out := raster.NewU8(buf.W, buf.H, buf.Layout)
	src, dst := buf.U8(), out.U8()
	sign := 1.0
	if !forward {
		sign = -1.0
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			nx, ny := (float64(x)-cx)/norm, (float64(y)-cy)/norm
			r2 := nx*nx + ny*ny
			radial := 1 + sign*(p.K1*r2+p.K2*r2*r2+p.K3*r2*r2*r2)
			dxT := 2*p.P1*nx*ny + p.P2*(r2+2*nx*nx)
			dyT := p.P1*(r2+2*ny*ny) + 2*p.P2*nx*ny
			sxN := nx*radial + sign*dxT
			syN := ny*radial + sign*dyT
			sxf := sxN*norm + cx
			syf := syN*norm + cy
			base := (y*buf.W + x) * c
			sampleBilinearU8(src, buf.W, buf.H, c, sxf, syf, edge, dst[base:base+c])
		}
	}
	return out, nil
}

func sampleBilinearU8(src []uint8, w, h, c int, sxf, syf float64, edge EdgeMode, out []uint8) {
	x0 := int(math.Floor(sxf))
	y0 := int(math.Floor(syf))
	fx := sxf - float64(x0)
	fy := syf - float64(y0)
	for k := 0; k < c; k++ {
		var acc float64
		for dy := 0; dy <= 1; dy++ {
			wy := fy
			if dy == 0 {
				wy = 1 - fy
			}
			ry, ok := clampIndex(y0+dy, h, edge)
			if !ok {
				continue
			}
			for dx := 0; dx <= 1; dx++ {
				wx := fx
				if dx == 0 {
					wx = 1 - fx
				}
				rx, ok := clampIndex(x0+dx, w, edge)
				if !ok {
					continue
				}
				acc += wx * wy * float64(src[(ry*w+rx)*c+k])
			}
		}
		out[k] = clampU8Float64(acc)
	}
}

// Homography is a 3x3 perspective transform matrix in row-major order.
type Homography [9]float64

// SolvePerspective computes the homography mapping src[i] -> dst[i] for
// four non-collinear point correspondences, via direct linear solving of
// the 8-unknown system (h22 normalized to 1).
func SolvePerspective(src, dst [4][2]float64) (Homography, error) {
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		x, y := src[i][0], src[i][1]
		u, v := dst[i][0], dst[i][1]
		a[2*i] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[2*i] = u
		a[2*i+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[2*i+1] = v
	}
	h, err := solveLinear8(a, b)
	if err != nil {
		return Homography{}, err
	}
	return Homography{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

func solveLinear8(a [8][8]float64, b [8]float64) ([8]float64, error) {
	n := 8
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[piv][col]) {
				piv = r
			}
		}
		if math.Abs(a[piv][col]) < 1e-12 {
			return [8]float64{}, engerr.New(engerr.InvalidArgument, "kernel.solve_perspective", fmt.Errorf("degenerate point correspondence"))
		}
		a[col], a[piv] = a[piv], a[col]
		b[col], b[piv] = b[piv], b[col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			for cc := col; cc < n; cc++ {
				a[r][cc] -= f * a[col][cc]
			}
			b[r] -= f * b[col]
		}
	}
	var x [8]float64
	for i := 0; i < n; i++ {
		x[i] = b[i] / a[i][i]
	}
	return x, nil
}

// PerspectiveWarpU8 warps buf into an outW x outH canvas via the inverse of
// h (mapping output coordinates back into source space).
func PerspectiveWarpU8(buf *raster.Buffer, h Homography, outW, outH int, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	out := raster.NewU8(outW, outH, buf.Layout)
	src, dst := buf.U8(), out.U8()
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			fx := float64(x)
			fy := float64(y)
			w := h[6]*fx + h[7]*fy + h[8]
			if w == 0 {
				continue
			}
			sx := (h[0]*fx + h[1]*fy + h[2]) / w
			sy := (h[3]*fx + h[4]*fy + h[5]) / w
			base := (y*outW + x) * c
			sampleBilinearU8(src, buf.W, buf.H, c, sx, sy, edge, dst[base:base+c])
		}
	}
	return out, nil
}

func sampleBilinearF32(src []float32, w, h, c int, sxf, syf float64, edge EdgeMode, out []float32) {
	x0 := int(math.Floor(sxf))
	y0 := int(math.Floor(syf))
	fx := sxf - float64(x0)
	fy := syf - float64(y0)
	for k := 0; k < c; k++ {
		var acc float64
		for dy := 0; dy <= 1; dy++ {
			wy := fy
			if dy == 0 {
				wy = 1 - fy
			}
			ry, ok := clampIndex(y0+dy, h, edge)
			if !ok {
				continue
			}
			for dx := 0; dx <= 1; dx++ {
				wx := fx
				if dx == 0 {
					wx = 1 - fx
				}
				rx, ok := clampIndex(x0+dx, w, edge)
				if !ok {
					continue
				}
				acc += wx * wy * float64(src[(ry*w+rx)*c+k])
			}
		}
		out[k] = float32(acc)
	}
}

// RotateF32 is the F32 counterpart of RotateU8.
func RotateF32(buf *raster.Buffer, degrees float64, fill []float32, edge EdgeMode) (*raster.Buffer, error) {
	if m := math.Mod(degrees, 360); m == 0 {
		return buf.Clone(), nil
	} else if m == 90 || m == -270 {
		return rotate90F32(buf, 1), nil
	} else if m == 180 || m == -180 {
		return rotate90F32(buf, 2), nil
	} else if m == 270 || m == -90 {
		return rotate90F32(buf, 3), nil
	}
	return rotateGeneralF32(buf, degrees, fill, edge)
}

func rotate90F32(buf *raster.Buffer, quarter int) *raster.Buffer {
	c := buf.Layout.Channels()
	src := buf.F32()
	switch quarter {
	case 1:
		out := raster.NewF32(buf.H, buf.W, buf.Layout)
		dst := out.F32()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := buf.H-1-y, x
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	case 2:
		out := raster.NewF32(buf.W, buf.H, buf.Layout)
		dst := out.F32()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := buf.W-1-x, buf.H-1-y
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	default: // 3
		out := raster.NewF32(buf.H, buf.W, buf.Layout)
		dst := out.F32()
		for y := 0; y < buf.H; y++ {
			for x := 0; x < buf.W; x++ {
				dx, dy := y, buf.W-1-x
				copy(dst[(dy*out.W+dx)*c:(dy*out.W+dx)*c+c], src[(y*buf.W+x)*c:(y*buf.W+x)*c+c])
			}
		}
		return out
	}
}

func rotateGeneralF32(buf *raster.Buffer, degrees float64, fill []float32, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	if fill == nil {
		fill = make([]float32, c)
	}
	theta := degrees * math.Pi / 180
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(buf.W)/2, float64(buf.H)/2
	out := raster.NewF32(buf.W, buf.H, buf.Layout)
	src, dst := buf.F32(), out.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			sxf := cosT*dx + sinT*dy + cx
			syf := -sinT*dx + cosT*dy + cy
			sx, sy := int(math.Round(sxf)), int(math.Round(syf))
			base := (y*buf.W + x) * c
			if sx < 0 || sx >= buf.W || sy < 0 || sy >= buf.H {
				if ix, iy, ok := clampIndex2(sx, sy, buf.W, buf.H, edge); ok && edge != EdgeZero {
					copy(dst[base:base+c], src[(iy*buf.W+ix)*c:(iy*buf.W+ix)*c+c])
				} else {
					copy(dst[base:base+c], fill)
				}
				continue
			}
			copy(dst[base:base+c], src[(sy*buf.W+sx)*c:(sy*buf.W+sx)*c+c])
		}
	}
	return out, nil
}

// LensDistortF32 is the F32 counterpart of LensDistortU8.
func LensDistortF32(buf *raster.Buffer, p LensDistortionParams, forward bool, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	cx, cy := float64(buf.W)/2, float64(buf.H)/2
	norm := math.Max(cx, cy)
	out := raster.NewF32(buf.W, buf.H, buf.Layout)
	src, dst := buf.F32(), out.F32()
	sign := 1.0
	if !forward {
		sign = -1.0
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			nx, ny := (float64(x)-cx)/norm, (float64(y)-cy)/norm
			r2 := nx*nx + ny*ny
			radial := 1 + sign*(p.K1*r2+p.K2*r2*r2+p.K3*r2*r2*r2)
			dxT := 2*p.P1*nx*ny + p.P2*(r2+2*nx*nx)
			dyT := p.P1*(r2+2*ny*ny) + 2*p.P2*nx*ny
			sxN := nx*radial + sign*dxT
			syN := ny*radial + sign*dyT
			sxf := sxN*norm + cx
			syf := syN*norm + cy
			base := (y*buf.W + x) * c
			sampleBilinearF32(src, buf.W, buf.H, c, sxf, syf, edge, dst[base:base+c])
		}
	}
	return out, nil
}

// PerspectiveWarpF32 is the F32 counterpart of PerspectiveWarpU8.
func PerspectiveWarpF32(buf *raster.Buffer, h Homography, outW, outH int, edge EdgeMode) (*raster.Buffer, error) {
	c := buf.Layout.Channels()
	out := raster.NewF32(outW, outH, buf.Layout)
	src, dst := buf.F32(), out.F32()
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			fx := float64(x)
			fy := float64(y)
			w := h[6]*fx + h[7]*fy + h[8]
			if w == 0 {
				continue
			}
			sx := (h[0]*fx + h[1]*fy + h[2]) / w
			sy := (h[3]*fx + h[4]*fy + h[5]) / w
			base := (y*outW + x) * c
			sampleBilinearF32(src, buf.W, buf.H, c, sx, sy, edge, dst[base:base+c])
		}
	}
	return out, nil
}
