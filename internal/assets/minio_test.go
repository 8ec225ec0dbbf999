package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotube/internal/common"
	"gotube/internal/config"
)

func TestObjectKeyFromURL(t *testing.T) {
	base := "http://localhost:9000"

	key, err := ObjectKeyFromURL("http://localhost:9000/gotube-media/video/abc.mp4", base, "gotube-media")
	require.NoError(t, err)
	assert.Equal(t, "video/abc.mp4", key)

	key, err = ObjectKeyFromURL("http://localhost:9000/gotube-media/image/t.png?X-Amz-Expires=60", base+"/", "gotube-media")
	require.NoError(t, err)
	assert.Equal(t, "image/t.png", key)

	_, err = ObjectKeyFromURL("http://other:9000/gotube-media/video/abc.mp4", base, "gotube-media")
	assert.Error(t, err)

	_, err = ObjectKeyFromURL("http://localhost:9000/gotube-media/", base, "gotube-media")
	assert.Error(t, err)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "http://minio:9000", publicBase(config.StorageConfig{MinioEndpoint: "minio:9000"}))
	assert.Equal(t, "https://minio:9000", publicBase(config.StorageConfig{MinioEndpoint: "minio:9000", MinioUseSSL: true}))
	assert.Equal(t, "https://cdn.example.com", publicBase(config.StorageConfig{MinioPublicURL: "https://cdn.example.com/"}))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "video/x.mp4", objectKey(common.AssetKindVideo, "x.mp4"))
	assert.Equal(t, "image/x.png", objectKey(common.AssetKindImage, "x.png"))
}
