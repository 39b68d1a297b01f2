package main

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// deleteFile removes one orphaned object, returning 1 when the object was,
// or would have been, removed. With confirmation enabled the task blocks on
// its own prompt; a declined prompt skips the key and counts nothing.
func deleteFile(ctx context.Context, client BucketClient, job SyncJob, key string, confirmer Confirmer) (int, error) {
	if ctx.Err() != nil {
		return 0, nil
	}

	target := fmt.Sprintf("%s/%s", job.BucketName, strings.TrimLeft(key, "/"))
	if job.Confirm {
		if !confirmer.Confirm(fmt.Sprintf("Remove %s", target)) {
			log.Infof("Skipping removal of %s", target)
			return 0, nil
		}
	}

	log.Infof("Deleting %s", target)
	if job.DryRun {
		return 1, nil
	}
	if err := client.Delete(ctx, job.BucketName, key); err != nil {
		return 0, fmt.Errorf("deleting %s: %w", target, err)
	}
	return 1, nil
}
