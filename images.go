package inkpress

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	maxThumbWidth = 800
	jpegQuality   = 80
)

// copyAssets copies static assets verbatim into the output directory:
// templates/styles.css, templates/images/*, and posts/images/*. Post images
// wider than maxThumbWidth additionally get a resized JPEG under
// images/thumbs/, which the index listing prefers. Returns a map from post
// image filename to the relative thumb path.
//
// Missing asset sources are not an error: a site without images is fine.
func (g *Generator) copyAssets() (map[string]string, error) {
	outDir := g.Config.outputPath()

	css := filepath.Join(g.Config.templatesPath(), "styles.css")
	if _, err := os.Stat(css); err == nil {
		if err := copyFile(css, filepath.Join(outDir, "styles.css")); err != nil {
			return nil, fmt.Errorf("copy styles.css: %w", err)
		}
	}

	if err := copyDir(filepath.Join(g.Config.templatesPath(), "images"), filepath.Join(outDir, "images")); err != nil {
		return nil, fmt.Errorf("copy template images: %w", err)
	}

	postImages := filepath.Join(g.Config.postsPath(), "images")
	if err := copyDir(postImages, filepath.Join(outDir, "images", "posts")); err != nil {
		return nil, fmt.Errorf("copy post images: %w", err)
	}

	return g.makeThumbs(postImages, filepath.Join(outDir, "images", "thumbs"))
}

// makeThumbs scans post images and writes a downscaled JPEG for any image
// wider than maxThumbWidth. Undecodable files are left alone; the verbatim
// copy already happened.
func (g *Generator) makeThumbs(srcDir, thumbDir string) (map[string]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read post images: %w", err)
	}

	thumbs := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := resizeImage(filepath.Join(srcDir, name))
		if err != nil {
			g.log.Warn("skipping thumbnail", slog.String("image", name), slog.Any("error", err))
			continue
		}
		if data == nil {
			continue // already small enough
		}
		if err := os.MkdirAll(thumbDir, 0o755); err != nil {
			return nil, fmt.Errorf("create thumbs dir: %w", err)
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		thumbName := stem + ".jpg"
		if err := os.WriteFile(filepath.Join(thumbDir, thumbName), data, 0o644); err != nil {
			return nil, fmt.Errorf("write thumb %s: %w", thumbName, err)
		}
		thumbs[name] = "images/thumbs/" + thumbName
	}
	return thumbs, nil
}

// resizeImage decodes an image file and, if it is wider than maxThumbWidth,
// scales it down and re-encodes it as JPEG. Returns nil bytes when the
// image needs no thumbnail.
func resizeImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxThumbWidth {
		return nil, nil
	}

	newH := h * maxThumbWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxThumbWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// copyDir recursively copies src into dst. A missing src is a no-op.
func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.Walk(src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
