package scanforge

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/tiff"
)

// CameraIntrinsics is the pinhole model of the depth sensor, in pixels.
type CameraIntrinsics struct {
	Fx, Fy float32
	Cx, Cy float32
}

type DepthMapOptions struct {
	Intrinsics CameraIntrinsics
	// DepthScale converts raw pixel values to scene units (e.g. 0.001 for
	// millimeter-encoded uint16 depth and meter-scale output).
	DepthScale float32
	// MaxDepth discards samples beyond this distance. Zero disables the cap.
	MaxDepth float32
}

// LoadDepthMap reads a 16-bit grayscale TIFF depth image and back-projects it
// into a camera-space vertex set with estimated normals and confidences.
func LoadDepthMap(path string, opts DepthMapOptions) ([]MeshVertex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open depth map: %w", err)
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode depth map: %w", err)
	}
	return DepthMapVertices(img, opts), nil
}

// DepthMapVertices back-projects a decoded depth image. Pixels with zero
// depth (sensor dropouts) produce no vertex. Border pixels are skipped since
// they lack the neighbors needed for normal estimation.
func DepthMapVertices(img image.Image, opts DepthMapOptions) []MeshVertex {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w < 3 || h < 3 {
		return nil
	}

	depth := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			depth[y*w+x] = rawDepth(img, bounds.Min.X+x, bounds.Min.Y+y) * opts.DepthScale
		}
	}

	var verts []MeshVertex
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			d := depth[y*w+x]
			if d <= 0 || (opts.MaxDepth > 0 && d > opts.MaxDepth) {
				continue
			}

			pos := backProject(float32(x), float32(y), d, opts.Intrinsics)

			// Central differences over the back-projected surface.
			left := depth[y*w+x-1]
			right := depth[y*w+x+1]
			up := depth[(y-1)*w+x]
			down := depth[(y+1)*w+x]
			if left <= 0 || right <= 0 || up <= 0 || down <= 0 {
				continue
			}

			dpdx := backProject(float32(x+1), float32(y), right, opts.Intrinsics).
				Sub(backProject(float32(x-1), float32(y), left, opts.Intrinsics))
			dpdy := backProject(float32(x), float32(y+1), down, opts.Intrinsics).
				Sub(backProject(float32(x), float32(y-1), up, opts.Intrinsics))

			normal := dpdx.Cross(dpdy)
			if normal.Len() == 0 {
				continue
			}
			normal = normal.Normalize()
			// Orient toward the sensor.
			if normal.Z() > 0 {
				normal = normal.Mul(-1)
			}

			verts = append(verts, NewMeshVertex(pos, normal, depthConfidence(d, left, right, up, down)))
		}
	}
	return verts
}

func rawDepth(img image.Image, x, y int) float32 {
	switch im := img.(type) {
	case *image.Gray16:
		return float32(im.Gray16At(x, y).Y)
	default:
		// Gray, RGBA and friends: take the 16-bit luma channel.
		r, g, b, _ := img.At(x, y).RGBA()
		return float32((r + g + b) / 3)
	}
}

func backProject(x, y, d float32, in CameraIntrinsics) mgl32.Vec3 {
	return mgl32.Vec3{
		(x - in.Cx) / in.Fx * d,
		-(y - in.Cy) / in.Fy * d, // image rows grow downward, scene Y grows up
		d,
	}
}

// depthConfidence falls off with local depth discontinuity: samples on a jump
// edge are likely mixed-pixel artifacts.
func depthConfidence(d, left, right, up, down float32) float32 {
	maxJump := float32(0)
	for _, n := range [4]float32{left, right, up, down} {
		jump := float32(math.Abs(float64(n - d)))
		if jump > maxJump {
			maxJump = jump
		}
	}
	// A jump equal to 5% of the depth zeroes the confidence.
	c := 1 - maxJump/(0.05*d)
	return clamp(c, 0, 1)
}
