package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/google/uuid"
)

// InvalidationClient requests an edge cache flush for one distribution and
// returns the provider's invalidation ID.
type InvalidationClient interface {
	Invalidate(ctx context.Context, distributionID string) (string, error)
}

type CloudFrontClient struct {
	Client *cloudfront.Client
}

func NewCloudFrontClient(ctx context.Context) (*CloudFrontClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &CloudFrontClient{Client: cloudfront.NewFromConfig(cfg)}, nil
}

// Invalidate flushes the whole distribution. We invalidate /* instead of
// the individual changed paths because per-path invalidations are billed
// individually.
func (c *CloudFrontClient) Invalidate(ctx context.Context, distributionID string) (string, error) {
	out, err := c.Client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(uuid.NewString()),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{"/*"},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if out.Invalidation == nil {
		return "", nil
	}
	return aws.ToString(out.Invalidation.Id), nil
}
