package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 注册 webp 解码器
)

// ==================== 格式 ====================

// ImageFormat 图片编码族
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
	FormatWebP ImageFormat = "webp"
)

// JPEGQuality JPEG 输出质量
const JPEGQuality = 85

// DefaultMaxPixels 解码前允许的最大像素数，与 PIL 的解压炸弹阈值一致
const DefaultMaxPixels int64 = 2 * 89478485

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("invalid image data")
	ErrTooManyPixels     = errors.New("image dimensions too large")
)

// 允许的扩展名 → 编码族
var allowedExt = map[string]ImageFormat{
	"png":  FormatPNG,
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"gif":  FormatGIF,
	"webp": FormatWebP,
}

// AllowedExtensions 允许上传的扩展名
func AllowedExtensions() []string {
	return []string{"png", "jpg", "jpeg", "gif", "webp"}
}

// FormatFromFilename 解析文件扩展名（不区分大小写）
// 返回小写扩展名与对应编码族
func FormatFromFilename(filename string) (string, ImageFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	format, ok := allowedExt[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ext, format, nil
}

// ==================== 解码 ====================

// DecodeImage 解码图片并校验实际编码与扩展名属于同一族
// 先只读文件头取尺寸，像素数超过 maxPixels 时不做完整解码；maxPixels <= 0 表示不限制
func DecodeImage(data []byte, want ImageFormat, maxPixels int64) (image.Image, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if ImageFormat(name) != want {
		return nil, fmt.Errorf("%w: content is %s, extension says %s", ErrDecode, name, want)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// ==================== 变换 ====================

// HasAlphaOrPalette 是否为带透明通道或调色板的图片
func HasAlphaOrPalette(img image.Image) bool {
	switch m := img.(type) {
	case *image.Paletted:
		return true
	case *image.NRGBA, *image.NRGBA64, *image.RGBA64, *image.Alpha, *image.Alpha16:
		return true
	case *image.RGBA:
		return !m.Opaque()
	case *image.NYCbCrA:
		return true
	}
	return false
}

// Flatten 合成到纯色背景上，得到完全不透明的 RGBA
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// FitWithin 计算缩略图尺寸：保持宽高比，只缩不放
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// 按较紧的一边缩放
	if w*maxH > h*maxW {
		nh := (h*maxW + w/2) / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := (w*maxH + h/2) / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}

// Thumbnail 缩小到边界框内，已在框内的图片原样返回
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ==================== 编码 ====================

// EncodeImage 按编码族写出图片
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatJPEG:
		if HasAlphaOrPalette(img) {
			img = Flatten(img, color.White)
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatPNG:
		return png.Encode(w, img)
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
