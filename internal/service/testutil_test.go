package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/database"
)

type testEnv struct {
	store *repository.Store
	local *LocalStorage
	media *MediaService
	root  string
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory("svc_" + name)
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	root := t.TempDir()
	local, err := NewLocalStorage(StorageConfig{Provider: "local", BasePath: root, URLPrefix: "/uploads"})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}
	return &testEnv{
		store: repository.NewStore(db),
		local: local,
		media: NewMediaService(local, 8*1024*1024),
		root:  root,
	}
}

func testHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 5 {
		for x := 0; x < w; x += 5 {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

func pngUpload(t *testing.T, filename string, w, h int) *Upload {
	t.Helper()
	return &Upload{Filename: filename, Reader: bytes.NewReader(pngData(t, w, h))}
}

// oversizedPNG 只含签名与 IHDR，声明 w x h 的灰度图，字节数极小
func oversizedPNG(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8
	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

// countFiles 统计目录下的正式文件（不含临时文件）
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("读取目录失败: %v", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), tempPrefix) {
			n++
		}
	}
	return n
}

func decodeStored(t *testing.T, env *testEnv, ref string) image.Image {
	t.Helper()
	f, err := os.Open(filepath.Join(env.root, filepath.FromSlash(ref)))
	if err != nil {
		t.Fatalf("打开文件失败: %v", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	return img
}

func mustUser(t *testing.T, env *testEnv, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	if err := env.store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}
