package view

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"lifebits/src/simulation"
	"lifebits/src/universe"
)

var ErrUnknownFormat = errors.New("view: unknown snapshot format")

//snapshot formats
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
	FormatPGM = "pgm"
	FormatTXT = "txt"
)

//Formats lists the supported snapshot formats
var Formats = []string{FormatBMP, FormatPGM, FormatPNG, FormatTXT}

//FormatFromPath guesses the format from the file extension
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func SupportedFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

//WriteSnapshot encodes the frame to w
//image formats draw every cell as a scale x scale square, white for alive
func WriteSnapshot(w io.Writer, f simulation.Frame, format string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	switch format {
	case FormatPNG:
		return png.Encode(w, frameImage(f, scale))
	case FormatBMP:
		return bmp.Encode(w, frameImage(f, scale))
	case FormatPGM:
		return writePGM(w, f, scale)
	case FormatTXT:
		_, err := io.WriteString(w, f.Render())
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func cellShade(alive bool) uint8 {
	if alive {
		return 255
	}
	return 0
}

func frameImage(f simulation.Frame, scale int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width*scale, f.Height*scale))
	for y := 0; y < f.Height*scale; y++ {
		for x := 0; x < f.Width*scale; x++ {
			img.SetGray(x, y, color.Gray{Y: cellShade(f.Alive(x/scale, y/scale))})
		}
	}
	return img
}

//writePGM writes the binary P5 variant with maxval 255
func writePGM(w io.Writer, f simulation.Frame, scale int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", f.Width*scale, f.Height*scale); err != nil {
		return err
	}
	for y := 0; y < f.Height*scale; y++ {
		for x := 0; x < f.Width*scale; x++ {
			if err := bw.WriteByte(cellShade(f.Alive(x/scale, y/scale))); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

//SnapshotOut saves the field to a file when the simulation is finished
type SnapshotOut struct {
	s      *simulation.Simulation
	Path   string
	Format string
	Scale  int
	saved  bool
}

//NewSnapshotOut creates the viewer, an empty format is taken from the path extension
func NewSnapshotOut(path string, format string, scale int) *SnapshotOut {
	if format == "" {
		format = FormatFromPath(path)
	}
	return &SnapshotOut{Path: path, Format: format, Scale: scale}
}

func (o *SnapshotOut) Register(s *simulation.Simulation) {
	o.s = s
}

func (o *SnapshotOut) Start() {
	o.saved = false
}

func (o *SnapshotOut) Refresh() {
	if o.s.Status().RunningMode != simulation.RunningStateFinished {
		o.saved = false
		return
	}
	if o.saved {
		return
	}
	o.saved = true
	if err := o.Save(o.s.Frame()); err != nil {
		universe.Logger().Error("snapshot failed", "path", o.Path, "err", err)
	}
}

//Save writes the frame to Path
func (o *SnapshotOut) Save(f simulation.Frame) (err error) {
	if !SupportedFormat(o.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, o.Format)
	}
	file, err := os.Create(o.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if err = WriteSnapshot(file, f, o.Format, o.Scale); err != nil {
		return err
	}
	universe.Logger().Info("snapshot saved", "path", o.Path, "format", o.Format)
	return nil
}
