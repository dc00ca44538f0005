package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"restaurant_hub_202601/pkg/logger"
	"restaurant_hub_202601/pkg/utils"
)

// ==================== 媒体类别 ====================

// MediaClass 媒体目录，同时作为对象 key 的第一段
type MediaClass string

const (
	MediaAvatar MediaClass = "avatars"
	MediaLogo   MediaClass = "restaurants"
	MediaDish   MediaClass = "dishes"
)

// BoundingBox 缩略图边界框
type BoundingBox struct {
	Width  int
	Height int
}

// DefaultBoundingBox 头像、Logo、菜品图统一 100x100
var DefaultBoundingBox = BoundingBox{Width: 100, Height: 100}

// Upload 上传的文件
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Present 是否携带了文件
func (u *Upload) Present() bool {
	return u != nil && u.Reader != nil && u.Filename != ""
}

var contentTypes = map[utils.ImageFormat]string{
	utils.FormatPNG:  "image/png",
	utils.FormatJPEG: "image/jpeg",
	utils.FormatGIF:  "image/gif",
	utils.FormatWebP: "image/webp",
}

// ==================== MediaService 媒体入库 ====================

// MediaService 校验、解码、缩略并持久化上传图片
// 不访问数据库
type MediaService struct {
	storage   StorageProvider
	maxBytes  int64
	maxPixels int64
}

// NewMediaService 创建媒体服务，maxBytes <= 0 表示不限制
func NewMediaService(storage StorageProvider, maxBytes int64) *MediaService {
	return &MediaService{storage: storage, maxBytes: maxBytes, maxPixels: utils.DefaultMaxPixels}
}

// WithMaxPixels 覆盖解码像素上限，<= 0 表示不限制
func (s *MediaService) WithMaxPixels(n int64) *MediaService {
	s.maxPixels = n
	return s
}

// Ingest 处理一张上传图片，返回相对媒体根目录的引用路径
func (s *MediaService) Ingest(ctx context.Context, file *Upload, class MediaClass, box BoundingBox) (string, error) {
	if !file.Present() {
		return "", newValidation(CodeImageRequired, "file", "请上传图片")
	}

	ext, format, err := utils.FormatFromFilename(file.Filename)
	if err != nil {
		return "", &BizError{
			Kind:    KindUnsupportedFormat,
			Code:    CodeBadFormat,
			Field:   "file",
			Message: "图片格式不支持（仅 " + strings.Join(utils.AllowedExtensions(), "/") + "）",
			Err:     err,
		}
	}

	data, err := s.readAll(file.Reader)
	if err != nil {
		return "", err
	}

	img, err := utils.DecodeImage(data, format, s.maxPixels)
	if errors.Is(err, utils.ErrTooManyPixels) {
		return "", &BizError{
			Kind:    KindValidation,
			Code:    CodeImageTooLarge,
			Field:   "file",
			Message: fmt.Sprintf("图片尺寸过大，像素总数不能超过 %d", s.maxPixels),
			Err:     err,
		}
	}
	if err != nil {
		return "", &BizError{
			Kind:    KindDecode,
			Code:    CodeBadImage,
			Field:   "file",
			Message: fmt.Sprintf("无法识别的图片内容，请上传有效的 %s 图片", ext),
			Err:     err,
		}
	}

	thumb := utils.Thumbnail(img, box.Width, box.Height)

	var buf bytes.Buffer
	if err := utils.EncodeImage(&buf, thumb, format); err != nil {
		logger.L().Errorw("[Media] 编码失败", "format", format, "error", err)
		return "", newStorage(err)
	}

	name, err := randomName(ext)
	if err != nil {
		return "", newStorage(err)
	}
	key := string(class) + "/" + name

	if err := s.storage.Put(ctx, key, bytes.NewReader(buf.Bytes()), contentTypes[format]); err != nil {
		logger.L().Errorw("[Media] 写入失败", "key", key, "error", err)
		return "", newStorage(err)
	}

	logger.L().Debugw("[Media] 已保存", "key", key, "bytes", buf.Len())
	return key, nil
}

// Discard 补偿删除：实体持久化失败后移除已写入的图片
func (s *MediaService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	// 请求已取消时仍需完成清理
	if err := s.storage.Delete(context.WithoutCancel(ctx), ref); err != nil {
		logger.L().Warnw("[Media] 补偿删除失败", "key", ref, "error", err)
	}
}

// discardConcurrency 批量删除的并发上限
const discardConcurrency = 4

// DiscardAll 删除一批已不再被引用的图片（级联删除提交后调用）
// 单个失败只记日志，返回失败个数
func (s *MediaService) DiscardAll(ctx context.Context, refs []string) int {
	ctx = context.WithoutCancel(ctx)
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(discardConcurrency)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		g.Go(func() error {
			if err := s.storage.Delete(ctx, ref); err != nil {
				failed.Add(1)
				logger.L().Warnw("[Media] 删除失败", "key", ref, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

// URL 引用路径对应的访问地址
func (s *MediaService) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.storage.URL(ref)
}

func (s *MediaService) readAll(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, readError(err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, readError(err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, newValidation(CodeFileTooLarge, "file", fmt.Sprintf("文件过大，最大 %d 字节", s.maxBytes))
	}
	return data, nil
}

func readError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return newStorage(fmt.Errorf("读取上传内容失败: %w", err))
}

// randomName 128 位随机数的十六进制 + 原扩展名
func randomName(ext string) (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]) + "." + ext, nil
}
