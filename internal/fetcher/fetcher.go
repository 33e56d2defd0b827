package fetcher

import (
	"context"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/failure"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.Param,
	) (FetchResult, failure.ClassifiedError)
}
