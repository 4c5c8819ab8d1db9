package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/texturagen/textura/pkg/errors"
)

// Record is the ground-truth metadata for one rendered sample. It is the
// line format of the per-subset manifest streams.
type Record struct {
	Image        string `json:"image"` // file name within the subset folder
	Text         string `json:"text"`
	FontName     string `json:"font_name"`
	FontCategory string `json:"font_category"`
	FontStyle    string `json:"font_style"`
	SourceGroup  string `json:"source_group"`
	Granularity  string `json:"granularity"`

	// Routing fields, not part of the manifest schema.
	Subset Subset `json:"-"`
	Seq    int    `json:"-"`
}

// imageFileName derives the output file name from the pre-assigned
// sequence number. Uniqueness within a subset is the planner's invariant.
func imageFileName(seq int) string {
	return fmt.Sprintf("%06d.png", seq)
}

// RenderText rasterizes text with the font file at the target height.
//
// The glyph size starts at 0.70 × target height; after a non-rendering
// measurement pass the size is corrected once by (0.80 × target height) /
// measured height and re-measured. Output width is the measured advance
// with a 10 px floor; the text is vertically centered using the measured
// bounding-box offset and starts at x = 0.
//
// The function is pure with respect to shared state and safe for
// concurrent use. It never panics: failures from hostile font files are
// converted to errors.
func RenderText(text, fontPath string, targetHeight int) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("render %q with %s: %v", text, fontPath, r)
		}
	}()

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}

	size := glyphSizeFraction * float64(targetHeight)
	face, err := newFace(fnt, size)
	if err != nil {
		return nil, err
	}
	bounds, advance := font.BoundString(face, text)

	// Single correction pass toward 0.80 of the target height. Deliberately
	// not iterated to convergence; see package docs.
	if h := (bounds.Max.Y - bounds.Min.Y).Ceil(); h > 0 {
		face.Close()
		size *= sizeCorrection * float64(targetHeight) / float64(h)
		face, err = newFace(fnt, size)
		if err != nil {
			return nil, err
		}
		bounds, advance = font.BoundString(face, text)
	}
	defer face.Close()

	width := advance.Ceil()
	if width < minImageWidth {
		width = minImageWidth
	}

	img = image.NewRGBA(image.Rect(0, 0, width, targetHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
	top := (targetHeight - textHeight) / 2
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: -bounds.Min.X,
			Y: fixed.I(top) - bounds.Min.Y,
		},
	}
	drawer.DrawString(text)

	return img, nil
}

func newFace(fnt *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// renderItem executes one work item: render, encode to the item's unique
// output path, and build the metadata record. Any failure is returned as a
// RENDER_FAILED error; the engine skips failed items without aborting the
// batch.
func renderItem(item WorkItem, outputDir string, targetHeight int) (Record, error) {
	img, err := RenderText(item.Text, item.Font.Path, targetHeight)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"render %q with font %s", item.Text, item.Font.Family)
	}

	name := imageFileName(item.Seq)
	path := filepath.Join(outputDir, string(item.Subset), name)
	f, err := os.Create(path)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeRenderFailed, err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return Record{}, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeRenderFailed, err, "close %s", path)
	}

	return Record{
		Image:        name,
		Text:         item.Text,
		FontName:     item.Font.Family,
		FontCategory: item.Font.Category,
		FontStyle:    string(item.Font.Style),
		SourceGroup:  item.Unit.Group,
		Granularity:  string(item.Granularity),
		Subset:       item.Subset,
		Seq:          item.Seq,
	}, nil
}
