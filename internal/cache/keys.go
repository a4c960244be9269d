package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix      = "post:%d"
	HomeKey            = "home:recent"
	portfolioVersion   = "portfolio:version"
	portfolioListKey   = "portfolio:v%d:list:%s:%s"
	portfolioStatsKey  = "portfolio:v%d:stats"
	portfolioDetailKey = "portfolio:v%d:slug:%s"
	OfferingsKey       = "offerings:all"
)

const (
	PostTTL      = 30 * time.Minute
	ListTTL      = 2 * time.Minute
	PortfolioTTL = 10 * time.Minute
	OfferingsTTL = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// portfolioGen returns the current portfolio cache generation. Bumping it
// orphans every portfolio key at once; orphans age out via their TTL.
func portfolioGen(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, portfolioVersion).Int64()
	if err != nil {
		return 0
	}
	return v
}

// PortfolioListKey keys a filtered public listing. Empty filters mean "any".
func PortfolioListKey(ctx context.Context, projectType, status string) string {
	if projectType == "" {
		projectType = "*"
	}
	if status == "" {
		status = "*"
	}
	return fmt.Sprintf(portfolioListKey, portfolioGen(ctx), projectType, status)
}

func PortfolioStatsKey(ctx context.Context) string {
	return fmt.Sprintf(portfolioStatsKey, portfolioGen(ctx))
}

func PortfolioDetailKey(ctx context.Context, slug string) string {
	return fmt.Sprintf(portfolioDetailKey, portfolioGen(ctx), slug)
}

// InvalidatePortfolio drops every cached portfolio view.
func InvalidatePortfolio(ctx context.Context) {
	if client == nil {
		return
	}
	client.Incr(ctx, portfolioVersion)
}

// InvalidatePost drops a cached post detail and the home page listing.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), HomeKey)
}
