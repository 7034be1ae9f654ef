package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/maccessmap/backend/internal/common"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/pinata"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/storage"
	"github.com/maccessmap/backend/pkg/xcontext"
)

type FileDomain interface {
	UploadImage(context.Context, *model.UploadImageRequest) (*model.UploadImageResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type fileDomain struct {
	fileRepo       repository.FileRepository
	fileStorage    storage.Storage
	pinataEndpoint pinata.IEndpoint
}

func NewFileDomain(
	fileRepo repository.FileRepository,
	fileStorage storage.Storage,
	pinataEndpoint pinata.IEndpoint,
) *fileDomain {
	return &fileDomain{
		fileRepo:       fileRepo,
		fileStorage:    fileStorage,
		pinataEndpoint: pinataEndpoint,
	}
}

// UploadImage stores the resize variants of a review photo and returns
// their public URLs, largest first. The original photo is additionally
// pinned to ipfs when pinning credentials are present, so photos
// referenced by badge metadata outlive the bucket.
func (d *fileDomain) UploadImage(
	ctx context.Context, req *model.UploadImageRequest,
) (*model.UploadImageResponse, error) {
	responses, err := common.ProcessImage(ctx, d.fileStorage, "image", "photos", common.PhotoSizes)
	if err != nil {
		return nil, err
	}

	if err := d.saveFiles(ctx, responses); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(responses))
	for _, resp := range responses {
		urls = append(urls, resp.Url)
	}

	return &model.UploadImageResponse{
		Urls: urls,
		CID:  d.pinOriginal(ctx),
	}, nil
}

// pinOriginal re-reads the uploaded multipart file and pins it. Pinning is
// best effort, a failure never fails the upload itself.
func (d *fileDomain) pinOriginal(ctx context.Context) string {
	if d.pinataEndpoint == nil || !d.pinataEndpoint.Configured() {
		return ""
	}

	file, header, err := xcontext.HTTPRequest(ctx).FormFile("image")
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot reopen uploaded file: %v", err)
		return ""
	}
	defer file.Close()

	cid, err := d.pinataEndpoint.PinFile(ctx, header.Filename, file)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot pin uploaded file: %v", err)
		return ""
	}

	return cid
}

func (d *fileDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	responses, err := common.ProcessImage(ctx, d.fileStorage, "avatar", "avatars", common.AvatarSizes)
	if err != nil {
		return nil, err
	}

	if err := d.saveFiles(ctx, responses); err != nil {
		return nil, err
	}

	return &model.UploadAvatarResponse{Url: responses[0].Url}, nil
}

func (d *fileDomain) saveFiles(ctx context.Context, responses []*storage.UploadResponse) error {
	files := make([]*entity.File, 0, len(responses))
	for _, resp := range responses {
		files = append(files, &entity.File{
			Base:      entity.Base{ID: uuid.NewString()},
			Mime:      resp.Mime,
			Name:      resp.FileName,
			CreatedBy: xcontext.RequestUserID(ctx),
			Url:       resp.Url,
		})
	}

	if err := d.fileRepo.BulkInsert(ctx, files); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save file records: %v", err)
		return errorx.Unknown
	}

	return nil
}
