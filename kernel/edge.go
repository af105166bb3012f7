package kernel

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// sobelKx/sobelKy and scharrKx/scharrKy are the standard 3x3 gradient
// operators (gx and gy), row-major.
var sobelKx = [9]float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}
var sobelKy = [9]float64{-1, -2, -1, 0, 0, 0, 1, 2, 1}
var scharrKx = [9]float64{-3, 0, 3, -10, 0, 10, -3, 0, 3}
var scharrKy = [9]float64{-3, -10, -3, 0, 0, 0, 3, 10, 3}
var laplacianK = [9]float64{0, 1, 0, 1, -4, 1, 0, 1, 0}

func grayscaleSampleU8(buf *raster.Buffer, x, y int, edge EdgeMode) float64 {
	sx, ok := clampIndex(x, buf.W, edge)
	if !ok {
		return 0
	}
	sy, ok := clampIndex(y, buf.H, edge)
	if !ok {
		return 0
	}
	p := buf.PixelU8(sx, sy)
	if buf.Layout == raster.GRAY {
		return float64(p[0])
	}
	return float64(raster.GrayLuminosityU8(p[0], p[1], p[2]))
}

func grayscaleSampleF32(buf *raster.Buffer, x, y int, edge EdgeMode) float32 {
	sx, ok := clampIndex(x, buf.W, edge)
	if !ok {
		return 0
	}
	sy, ok := clampIndex(y, buf.H, edge)
	if !ok {
		return 0
	}
	p := buf.PixelF32(sx, sy)
	if buf.Layout == raster.GRAY {
		return p[0]
	}
	return raster.GrayLuminosityF32(p[0], p[1], p[2])
}

func apply3x3GrayU8(buf *raster.Buffer, k [9]float64, edge EdgeMode) [][]float64 {
	out := make([][]float64, buf.H)
	for y := 0; y < buf.H; y++ {
		out[y] = make([]float64, buf.W)
		for x := 0; x < buf.W; x++ {
			var acc float64
			idx := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += k[idx] * grayscaleSampleU8(buf, x+dx, y+dy, edge)
					idx++
				}
			}
			out[y][x] = acc
		}
	}
	return out
}

func apply3x3GrayF32(buf *raster.Buffer, k [9]float32, edge EdgeMode) [][]float32 {
	out := make([][]float32, buf.H)
	for y := 0; y < buf.H; y++ {
		out[y] = make([]float32, buf.W)
		for x := 0; x < buf.W; x++ {
			var acc float32
			idx := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += k[idx] * grayscaleSampleF32(buf, x+dx, y+dy, edge)
					idx++
				}
			}
			out[y][x] = acc
		}
	}
	return out
}

func toF32_9(k [9]float64) [9]float32 {
	var o [9]float32
	for i, v := range k {
		o[i] = float32(v)
	}
	return o
}

func magnitudeToGrayU8(gx, gy [][]float64, w, h int) *raster.Buffer {
	out := raster.NewU8(w, h, raster.GRAY)
	dst := out.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := math.Hypot(gx[y][x], gy[y][x])
			dst[y*w+x] = clampU8Float64(m)
		}
	}
	return out
}

func magnitudeToGrayF32(gx, gy [][]float32, w, h int) *raster.Buffer {
	out := raster.NewF32(w, h, raster.GRAY)
	dst := out.F32()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := math32.Hypot(gx[y][x], gy[y][x])
			dst[y*w+x] = m
		}
	}
	return out
}

// SobelU8 returns the gray gradient-magnitude image from the Sobel operator.
func SobelU8(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	gx := apply3x3GrayU8(buf, sobelKx, edge)
	gy := apply3x3GrayU8(buf, sobelKy, edge)
	return magnitudeToGrayU8(gx, gy, buf.W, buf.H), nil
}

// SobelF32 is the F32 counterpart.
func SobelF32(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	gx := apply3x3GrayF32(buf, toF32_9(sobelKx), edge)
	gy := apply3x3GrayF32(buf, toF32_9(sobelKy), edge)
	return magnitudeToGrayF32(gx, gy, buf.W, buf.H), nil
}

// ScharrU8 returns the gray gradient-magnitude image from the Scharr operator.
func ScharrU8(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	gx := apply3x3GrayU8(buf, scharrKx, edge)
	gy := apply3x3GrayU8(buf, scharrKy, edge)
	return magnitudeToGrayU8(gx, gy, buf.W, buf.H), nil
}

// ScharrF32 is the F32 counterpart.
func ScharrF32(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	gx := apply3x3GrayF32(buf, toF32_9(scharrKx), edge)
	gy := apply3x3GrayF32(buf, toF32_9(scharrKy), edge)
	return magnitudeToGrayF32(gx, gy, buf.W, buf.H), nil
}

// LaplacianU8 applies the discrete Laplacian operator, producing a gray
// edge-response image.
func LaplacianU8(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	r := apply3x3GrayU8(buf, laplacianK, edge)
	out := raster.NewU8(buf.W, buf.H, raster.GRAY)
	dst := out.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dst[y*buf.W+x] = clampU8Float64(r[y][x] + 128)
		}
	}
	return out, nil
}

// LaplacianF32 is the F32 counterpart.
func LaplacianF32(buf *raster.Buffer, edge EdgeMode) (*raster.Buffer, error) {
	r := apply3x3GrayF32(buf, toF32_9(laplacianK), edge)
	out := raster.NewF32(buf.W, buf.H, raster.GRAY)
	dst := out.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dst[y*buf.W+x] = r[y][x] + 0.5
		}
	}
	return out, nil
}

// CannyU8 applies Canny edge detection: Gaussian smoothing, Sobel gradient,
// non-maximum suppression, and dual-threshold hysteresis linking. Output is
// a binary (0/255) gray edge map.
func CannyU8(buf *raster.Buffer, sigma, lowThresh, highThresh float64, edge EdgeMode) (*raster.Buffer, error) {
	if lowThresh < 0 || highThresh < lowThresh {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.canny", engerr.ErrInvalidDimensions)
	}
	smoothed, err := GaussianBlurU8(buf, sigma, edge)
	if err != nil {
		return nil, err
	}
	gx := apply3x3GrayU8(smoothed, sobelKx, edge)
	gy := apply3x3GrayU8(smoothed, sobelKy, edge)
	w, h := buf.W, buf.H

	mag := make([][]float64, h)
	dir := make([][]float64, h)
	for y := 0; y < h; y++ {
		mag[y] = make([]float64, w)
		dir[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			mag[y][x] = math.Hypot(gx[y][x], gy[y][x])
			dir[y][x] = math.Atan2(gy[y][x], gx[y][x])
		}
	}

	suppressed := make([][]float64, h)
	for y := 0; y < h; y++ {
		suppressed[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			angle := dir[y][x] * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			var n1x, n1y, n2x, n2y int
			switch {
			case angle < 22.5 || angle >= 157.5:
				n1x, n1y, n2x, n2y = x-1, y, x+1, y
			case angle < 67.5:
				n1x, n1y, n2x, n2y = x-1, y-1, x+1, y+1
			case angle < 112.5:
				n1x, n1y, n2x, n2y = x, y-1, x, y+1
			default:
				n1x, n1y, n2x, n2y = x-1, y+1, x+1, y-1
			}
			m1, m2 := 0.0, 0.0
			if ix, iy, ok := clampIndex2(n1x, n1y, w, h, edge); ok {
				m1 = mag[iy][ix]
			}
			if ix, iy, ok := clampIndex2(n2x, n2y, w, h, edge); ok {
				m2 = mag[iy][ix]
			}
			if mag[y][x] >= m1 && mag[y][x] >= m2 {
				suppressed[y][x] = mag[y][x]
			}
		}
	}

	const strong, weak = 255, 128
	classified := make([][]uint8, h)
	for y := 0; y < h; y++ {
		classified[y] = make([]uint8, w)
		for x := 0; x < w; x++ {
			switch {
			case suppressed[y][x] >= highThresh:
				classified[y][x] = strong
			case suppressed[y][x] >= lowThresh:
				classified[y][x] = weak
			}
		}
	}

	out := raster.NewU8(w, h, raster.GRAY)
	dst := out.U8()
	visited := make([][]bool, h)
	for y := range visited {
		visited[y] = make([]bool, w)
	}
	var stack [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if classified[y][x] == strong {
				stack = append(stack, [2]int{x, y})
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]
		if visited[y][x] {
			continue
		}
		visited[y][x] = true
		dst[y*w+x] = 255
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h || visited[ny][nx] {
					continue
				}
				if classified[ny][nx] == weak || classified[ny][nx] == strong {
					stack = append(stack, [2]int{nx, ny})
				}
			}
		}
	}
	return out, nil
}

func clampIndex2(x, y, w, h int, edge EdgeMode) (int, int, bool) {
	ix, okx := clampIndex(x, w, edge)
	iy, oky := clampIndex(y, h, edge)
	return ix, iy, okx && oky
}
