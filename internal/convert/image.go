package convert

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"gitlab.com/tozd/go/errors"

	// Registers the HEIC decoder used by imaging.Open; imaging registers BMP itself
	_ "github.com/gen2brain/heic"
)

// JPEGQuality is used for every JPEG artifact
const JPEGQuality = 92

// imagePDFName is the resource name of the embedded raster in image PDFs
const imagePDFName = "image"

// openImage decodes a raster honoring EXIF orientation
func openImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// encodeImage re-encodes sourcePath into the format implied by outputPath
func encodeImage(sourcePath, outputPath string) error {
	f, err := imaging.FormatFromFilename(outputPath)
	if err != nil {
		return errors.Errorf("%w: %s", ErrNoEncoder, err)
	}

	img, err := openImage(sourcePath)
	if err != nil {
		return err
	}
	if f == imaging.JPEG {
		img = flatten(img)
	}

	if err := imaging.Save(img, outputPath, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return errors.Errorf("encoding %s: %w", f, err)
	}
	return nil
}

// flatten composites translucent images onto white since JPEG has no alpha
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(background, img, image.Point{}, 1.0)
}

// imageToPDF writes a one-page PDF whose page matches the image in points
func imageToPDF(sourcePath, outputPath string) error {
	img, err := openImage(sourcePath)
	if err != nil {
		return err
	}

	// gofpdf only embeds 8-bit PNGs; HEIC and 16-bit PNG sources decode deeper
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return errors.Errorf("encoding page image: %w", err)
	}

	b := img.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCreator(creatorName, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imagePDFName, opts, &buf)
	pdf.ImageOptions(imagePDFName, 0, 0, width, height, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return errors.Errorf("writing pdf: %w", err)
	}
	return nil
}
