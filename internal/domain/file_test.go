package domain

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/storage"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func multipartImageRequest(t *testing.T, key string) *http.Request {
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(key, "photo.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadImage", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestFileStorage() *testutil.MockStorage {
	return &testutil.MockStorage{
		BulkUploadFunc: func(_ context.Context, objs []*storage.UploadObject) ([]*storage.UploadResponse, error) {
			resps := make([]*storage.UploadResponse, 0, len(objs))
			for _, obj := range objs {
				resps = append(resps, &storage.UploadResponse{
					Url:      "https://cdn.example.com/" + obj.FileName,
					FileName: obj.FileName,
					Mime:     obj.Mime,
				})
			}

			return resps, nil
		},
	}
}

func Test_fileDomain_UploadImage_pinsOriginal(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithHTTPRequest(ctx, multipartImageRequest(t, "image"))

	pinnedName := ""
	pinataEndpoint := &testutil.MockPinataEndpoint{
		PinFileFunc: func(_ context.Context, name string, _ io.Reader) (string, error) {
			pinnedName = name
			return "bafyphotocid", nil
		},
	}

	domain := NewFileDomain(repository.NewFileRepository(), newTestFileStorage(), pinataEndpoint)

	resp, err := domain.UploadImage(ctx, &model.UploadImageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Urls, 2)
	require.Equal(t, "bafyphotocid", resp.CID)
	require.Equal(t, "photo.png", pinnedName)
}

func Test_fileDomain_UploadImage_pinningIsBestEffort(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithHTTPRequest(ctx, multipartImageRequest(t, "image"))

	// The mock pin endpoint fails by default. The upload still succeeds,
	// only without a cid.
	domain := NewFileDomain(repository.NewFileRepository(), newTestFileStorage(), &testutil.MockPinataEndpoint{})

	resp, err := domain.UploadImage(ctx, &model.UploadImageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Urls, 2)
	require.Empty(t, resp.CID)
}
