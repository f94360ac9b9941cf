package scanforge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float":
		return wgpu.VertexFormatFloat32
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// VertexLayout derives a wgpu vertex buffer layout from the struct tags of
// vertexType. Blank padding fields contribute to attribute offsets and the
// stride, so the layout matches the GPU-side 16-byte vector slots.
func VertexLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("scanforge") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

// EncodeBuffer serializes a value into the little-endian byte layout the GPU
// kernels read. Blank padding fields are written as zero bytes.
func EncodeBuffer(data any) []byte {
	buf := new(bytes.Buffer)
	writeBufferBytes(reflect.ValueOf(data), buf)
	return buf.Bytes()
}

func writeBufferBytes(field reflect.Value, buf *bytes.Buffer) {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		if field.Kind() == reflect.Array && field.Type().Elem().Kind() == reflect.Float32 {
			// Vector types (e.g. mgl32.Vec3) are flat float arrays.
			for i := 0; i < field.Len(); i++ {
				writeScalar(field.Index(i), buf)
			}
			return
		}
		for i := 0; i < field.Len(); i++ {
			elem := field.Index(i)
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			if elem.Kind() == reflect.Struct {
				writeBufferBytes(elem, buf)
			} else {
				writeScalar(elem, buf)
			}
		}

	case reflect.Struct:
		t := field.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Name == "_" {
				// Explicit padding: zero fill, value is not addressable.
				buf.Write(make([]byte, sf.Type.Size()))
				continue
			}
			writeBufferBytes(field.Field(i), buf)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		writeScalar(field, buf)

	default:
		panic(fmt.Errorf("unsupported buffer field type: %v", field.Type()))
	}
}

func writeScalar(field reflect.Value, buf *bytes.Buffer) {
	if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
		panic(fmt.Errorf("failed to write buffer field: %w", err))
	}
}

// DecodeBuffer reads bytes produced by EncodeBuffer (or downloaded from a GPU
// buffer) back into the struct pointed to by out.
func DecodeBuffer(data []byte, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a struct pointer, got %T", out)
	}
	r := bytes.NewReader(data)
	if err := readBufferBytes(v.Elem(), r); err != nil {
		return err
	}
	return nil
}

func readBufferBytes(field reflect.Value, r *bytes.Reader) error {
	switch field.Kind() {
	case reflect.Array, reflect.Slice:
		for i := 0; i < field.Len(); i++ {
			if err := readBufferBytes(field.Index(i), r); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		t := field.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Name == "_" {
				if _, err := r.Seek(int64(sf.Type.Size()), io.SeekCurrent); err != nil {
					return err
				}
				continue
			}
			if err := readBufferBytes(field.Field(i), r); err != nil {
				return err
			}
		}
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		return binary.Read(r, binary.LittleEndian, field.Addr().Interface())

	default:
		return fmt.Errorf("unsupported buffer field type: %v", field.Type())
	}
}

// VerticesToBytes reinterprets a vertex slice as raw GPU buffer contents.
// No copy: the returned slice aliases verts.
func VerticesToBytes(verts []MeshVertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), len(verts)*MeshVertexSize)
}

// VerticesFromBytes copies raw GPU buffer contents back into a vertex slice.
func VerticesFromBytes(data []byte) []MeshVertex {
	n := len(data) / MeshVertexSize
	if n == 0 {
		return nil
	}
	verts := make([]MeshVertex, n)
	copy(VerticesToBytes(verts), data[:n*MeshVertexSize])
	return verts
}
