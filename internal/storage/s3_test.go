package storage

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

// setupMinio starts a MinIO container and returns a service bound to a fresh bucket.
func setupMinio(t *testing.T) S3Service {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	bucket := "phonons-test-" + uuid.New().String()[:8]
	svc, err := NewS3Service(ctx, S3Config{
		Bucket:    bucket,
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	_, err = svc.(*s3Service).client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err)
	return svc
}

func TestS3Service_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := setupMinio(t)
	ctx := context.Background()

	band := []byte("phonon:\n- distance: 0.0\n  band:\n  - frequency: 1.0\n")
	require.NoError(t, svc.UploadFile(ctx, "phonon_data/1-WSe2/band-mono-vasp.yaml", "application/x-yaml", band))

	data, err := svc.ReadFile(ctx, "./phonon_data/1-WSe2/band-mono-vasp.yaml")
	require.NoError(t, err)
	assert.Equal(t, band, data)

	_, err = svc.DownloadFile(ctx, "phonon_data/missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	require.NoError(t, svc.UploadFile(ctx, "figures/wse2/fig.png", "image/png", png))

	url, err := svc.GenerateDownloadURL(ctx, "figures/wse2/fig.png")
	require.NoError(t, err)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, png, body)

	require.NoError(t, svc.DeleteFile(ctx, "figures/wse2/fig.png"))
	_, err = svc.DownloadFile(ctx, "figures/wse2/fig.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadFileRejectsUnknownContentType(t *testing.T) {
	svc, err := NewS3Service(context.Background(), S3Config{Bucket: "phonons", Endpoint: "localhost:9000"})
	require.NoError(t, err)

	err = svc.UploadFile(context.Background(), "figures/x.gif", "image/gif", []byte("GIF89a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid content type")
}

func TestNewS3ServiceRequiresBucket(t *testing.T) {
	_, err := NewS3Service(context.Background(), S3Config{})
	assert.Error(t, err)
}
