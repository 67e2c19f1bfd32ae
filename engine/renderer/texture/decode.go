package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode reads an image in any registered format (png, jpeg, gif, bmp, webp).
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - image.Image: the decoded image
//   - string: the format name
//   - error: a decode error
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// LoadFile opens and decodes an image file.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - image.Image: the decoded image
//   - error: an open or decode error
func LoadFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("texture file %s: %w", path, err)
	}
	return img, nil
}
