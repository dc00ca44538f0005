package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refPattern = regexp.MustCompile(`^dishes/[0-9a-f]{32}\.png$`)

func TestMediaService_LargeImageIsThumbnailed(t *testing.T) {
	env := setupServiceTest(t)

	ref, err := env.media.Ingest(context.Background(), pngUpload(t, "big.PNG", 4000, 3000), MediaDish, DefaultBoundingBox)
	require.NoError(t, err)
	assert.Regexp(t, refPattern, ref)

	img := decodeStored(t, env, ref)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 75, img.Bounds().Dy())
}

func TestMediaService_SmallImageNotUpscaled(t *testing.T) {
	env := setupServiceTest(t)

	ref, err := env.media.Ingest(context.Background(), pngUpload(t, "small.png", 50, 50), MediaAvatar, DefaultBoundingBox)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "avatars/"))

	img := decodeStored(t, env, ref)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestMediaService_JPEGTargetFromPNGBytesIsDecodeError(t *testing.T) {
	env := setupServiceTest(t)

	_, err := env.media.Ingest(context.Background(), pngUpload(t, "photo.jpg", 10, 10), MediaDish, DefaultBoundingBox)
	assert.True(t, IsKind(err, KindDecode), "err = %v", err)
	assert.Zero(t, countFiles(t, filepath.Join(env.root, "dishes")))
}

func TestMediaService_RejectsOversizedDimensions(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	bomb := oversizedPNG(20000, 20000)
	_, err := env.media.Ingest(ctx, &Upload{Filename: "bomb.png", Reader: bytes.NewReader(bomb)}, MediaAvatar, DefaultBoundingBox)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation), "err = %v", err)
	assert.Equal(t, CodeImageTooLarge, CodeOf(err))
	assert.Zero(t, countFiles(t, filepath.Join(env.root, "avatars")))

	env.media.WithMaxPixels(40 * 30)
	_, err = env.media.Ingest(ctx, pngUpload(t, "a.png", 41, 30), MediaAvatar, DefaultBoundingBox)
	assert.Equal(t, CodeImageTooLarge, CodeOf(err))
	_, err = env.media.Ingest(ctx, pngUpload(t, "b.png", 40, 30), MediaAvatar, DefaultBoundingBox)
	assert.NoError(t, err)
}

func TestMediaService_Rejections(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.media.Ingest(ctx, &Upload{Filename: "evil.svg", Reader: strings.NewReader("<svg/>")}, MediaLogo, DefaultBoundingBox)
	assert.True(t, IsKind(err, KindUnsupportedFormat), "err = %v", err)

	_, err = env.media.Ingest(ctx, &Upload{Filename: "x.gif", Reader: strings.NewReader("GIF89a-garbage")}, MediaLogo, DefaultBoundingBox)
	assert.True(t, IsKind(err, KindDecode), "err = %v", err)

	_, err = env.media.Ingest(ctx, nil, MediaLogo, DefaultBoundingBox)
	assert.True(t, IsKind(err, KindValidation), "err = %v", err)

	assert.Zero(t, countFiles(t, filepath.Join(env.root, "restaurants")))
}

func TestMediaService_SizeCap(t *testing.T) {
	env := setupServiceTest(t)
	media := NewMediaService(env.local, 64)

	_, err := media.Ingest(context.Background(), pngUpload(t, "a.png", 40, 40), MediaAvatar, DefaultBoundingBox)
	assert.Equal(t, CodeFileTooLarge, CodeOf(err))
}

func TestMediaService_JPEGInput(t *testing.T) {
	env := setupServiceTest(t)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 300, 120)), nil))

	ref, err := env.media.Ingest(context.Background(), &Upload{Filename: "seed.JPEG", Reader: &buf}, MediaDish, BoundingBox{Width: 30, Height: 30})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpeg"))

	img := decodeStored(t, env, ref)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())
}

func TestMediaService_NamesAreUnique(t *testing.T) {
	env := setupServiceTest(t)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ref := mustIngest(t, env, "same-name.png")
		assert.False(t, seen[ref], "duplicate ref %s", ref)
		seen[ref] = true
	}
	assert.Equal(t, 20, countFiles(t, filepath.Join(env.root, "dishes")))
}

func TestMediaService_Discard(t *testing.T) {
	env := setupServiceTest(t)
	ref := mustIngest(t, env, "a.png")
	require.Equal(t, 1, countFiles(t, filepath.Join(env.root, "dishes")))

	env.media.Discard(context.Background(), ref)
	assert.Zero(t, countFiles(t, filepath.Join(env.root, "dishes")))
	assert.Equal(t, "/uploads/"+ref, env.local.URL(ref))
}

func mustIngest(t *testing.T, env *testEnv, filename string) string {
	t.Helper()
	ref, err := env.media.Ingest(context.Background(), pngUpload(t, filename, 60, 40), MediaDish, DefaultBoundingBox)
	require.NoError(t, err)
	return ref
}

func TestMediaService_DiscardAll(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	var refs []string
	for i := 0; i < 6; i++ {
		ref, err := env.media.Ingest(ctx, pngUpload(t, "a.png", 20, 20), MediaDish, DefaultBoundingBox)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	refs = append(refs, "", "../escape.png")

	failed := env.media.DiscardAll(ctx, refs)
	assert.Equal(t, 1, failed)
	assert.Zero(t, countFiles(t, filepath.Join(env.root, string(MediaDish))))
}
