package service

import (
	"context"
	"cosbackup/internal/config"
	"cosbackup/internal/storage"
	"cosbackup/internal/types"
	"cosbackup/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sort"
	"strings"
)

var ErrBucketRootPrefix = errors.New("refusing to apply retention to the bucket root, set a prefix")

type (
	BackupService interface {
		Upload(ctx context.Context, params UploadParams) (types.UploadResult, error)
		Prune(ctx context.Context, prefix string, keep int) (types.PruneResult, error)
		Status(ctx context.Context) (types.Status, error)
		List(ctx context.Context, prefix string) ([]types.Object, error)
	}

	// UploadParams overrides the configured prefix and retention when set.
	UploadParams struct {
		Path      string
		Prefix    *string
		Retention *int
	}

	backupService struct {
		storage storage.Storage
		cfg     config.Config
	}
)

func NewBackupService(st storage.Storage, cfg config.Config) BackupService {
	return &backupService{
		storage: st,
		cfg:     cfg,
	}
}

func (b backupService) Upload(ctx context.Context, params UploadParams) (types.UploadResult, error) {
	file, err := types.StatLocalFile(params.Path)
	if err != nil {
		logger.Error("cannot upload local file", zap.String("path", params.Path), zap.Error(err))
		return types.UploadResult{}, errors.Wrap(err, params.Path)
	}

	prefix := b.cfg.Prefix
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		prefix = *params.Prefix
	}
	retention := b.cfg.Retention
	if params.Retention != nil {
		retention = *params.Retention
	}

	prefix = storage.NormalizePrefix(prefix)
	key := storage.ObjectKey(prefix, file.Path)

	logger.Info("uploading file",
		zap.String("file", file.Name),
		zap.Int64("size", file.Size),
		zap.String("bucket", b.cfg.Bucket),
		zap.String("key", key))
	result, err := b.storage.Upload(ctx, key, file.Path)
	if err != nil {
		logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return types.UploadResult{}, errors.Wrap(err, "upload failed")
	}
	logger.Info("upload successful", zap.String("key", key), zap.String("etag", result.ETag))

	if retention > 0 {
		if _, err := b.Prune(ctx, prefix, retention); err != nil {
			logger.Warn("retention policy check failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}

	return result, nil
}

// Prune deletes the oldest objects under prefix until at most keep remain.
// Directory markers are neither counted nor deleted. A failed delete is logged
// and pruning moves on to the next oldest object. An empty prefix would span
// the whole bucket and is refused.
func (b backupService) Prune(ctx context.Context, prefix string, keep int) (types.PruneResult, error) {
	result := types.PruneResult{}
	if keep <= 0 {
		return result, nil
	}
	prefix = storage.NormalizePrefix(prefix)
	if prefix == "" {
		return result, ErrBucketRootPrefix
	}

	backups, err := b.list(ctx, prefix)
	if err != nil {
		return result, errors.Wrap(err, "failed to list objects")
	}
	sortOldestFirst(backups)

	surplus := len(backups) - keep
	result.Remaining = len(backups)
	for _, oldest := range backups {
		if len(result.Deleted) >= surplus {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		logger.Info("retention policy: deleting oldest backup",
			zap.String("key", oldest.Key),
			zap.Time("last_modified", oldest.LastModified))
		if err := b.storage.Delete(ctx, oldest.Key); err != nil {
			logger.Warn("retention policy: delete failed", zap.String("key", oldest.Key), zap.Error(err))
			result.Failed = append(result.Failed, types.FailedDelete{Object: oldest, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, oldest)
		result.Remaining--
	}

	return result, nil
}

func (b backupService) Status(ctx context.Context) (types.Status, error) {
	host, _ := storage.ResolveEndpoint(b.cfg.Region, b.cfg.Endpoint)
	status := types.Status{
		Bucket:    b.cfg.Bucket,
		Region:    b.cfg.Region,
		Endpoint:  host,
		Prefix:    storage.NormalizePrefix(b.cfg.Prefix),
		Retention: b.cfg.Retention,
	}

	if err := b.storage.Ping(ctx); err != nil {
		logger.Error("connection failed", zap.String("bucket", b.cfg.Bucket), zap.Error(err))
		return status, errors.Wrap(err, "connection failed")
	}
	logger.Info("connection successful", zap.String("bucket", b.cfg.Bucket), zap.String("region", b.cfg.Region))

	backups, err := b.list(ctx, status.Prefix)
	if err != nil {
		logger.Error("failed to list objects", zap.String("prefix", status.Prefix), zap.Error(err))
		return status, errors.Wrap(err, "failed to list objects")
	}

	status.Objects = len(backups)
	status.TotalSize = lo.SumBy(backups, func(item types.Object) int64 {
		return item.Size
	})
	logger.Info("files found in prefix",
		zap.String("prefix", status.Prefix),
		zap.Int("count", status.Objects))
	return status, nil
}

// List returns the backups under prefix, newest first.
func (b backupService) List(ctx context.Context, prefix string) ([]types.Object, error) {
	if prefix == "" {
		prefix = b.cfg.Prefix
	}

	backups, err := b.list(ctx, storage.NormalizePrefix(prefix))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list objects")
	}

	sortOldestFirst(backups)
	return lo.Reverse(backups), nil
}

func (b backupService) list(ctx context.Context, prefix string) ([]types.Object, error) {
	all, err := b.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return lo.Filter(all, func(item types.Object, index int) bool {
		return !storage.IsDirMarker(item.Key)
	}), nil
}

func sortOldestFirst(objects []types.Object) {
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].Key < objects[j].Key
		}
		return objects[i].LastModified.Before(objects[j].LastModified)
	})
}
