// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"fmt"
	"time"
)

// DefaultModelVersion is the version tag written into trained model state.
const DefaultModelVersion = "2.0.0"

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Quota defines how many results each strategy contributes.
	Quota QuotaConfig `json:"quota"`

	// DefaultCount is used when a request does not specify a count.
	// Default: 10.
	DefaultCount int `json:"default_count"`

	// MaxCount caps the requested count.
	// Default: 100.
	MaxCount int `json:"max_count"`

	// Signals contains the trust weight of each signal type.
	Signals SignalWeights `json:"signals"`

	// Features contains feature bucketing thresholds.
	Features FeatureConfig `json:"features"`

	// Model contains collaborative model hyperparameters.
	Model Hyperparams `json:"model"`

	// Training contains training lifecycle parameters.
	Training TrainingConfig `json:"training"`

	// Cache contains recommendation cache parameters.
	Cache CacheConfig `json:"cache"`
}

// QuotaConfig is the per-strategy contribution for a single response.
type QuotaConfig struct {
	// Content is the number of content-similarity results. Default: 4.
	Content int `json:"content"`

	// Collaborative is the number of collaborative results. Default: 3.
	Collaborative int `json:"collaborative"`

	// Random is the number of exploration results. Default: 3.
	Random int `json:"random"`
}

// SignalWeights holds the training weight of each signal type.
type SignalWeights struct {
	// ViewBase is added to every view tuple. Default: 1.0.
	ViewBase float64 `json:"view_base"`

	// ViewDivisor scales the raw view count. Default: 10.
	ViewDivisor float64 `json:"view_divisor"`

	// ViewCap caps the scaled view count before the base is added. Default: 2.0.
	ViewCap float64 `json:"view_cap"`

	// Wishlist is the weight of a wishlist add. Default: 3.0.
	Wishlist float64 `json:"wishlist"`

	// Like is the weight of a right swipe. Default: 2.5.
	Like float64 `json:"like"`

	// Cart is the weight of a cart swipe. Default: 4.0.
	Cart float64 `json:"cart"`

	// Dislike is the weight of a left swipe. It is a weak positive weight,
	// not an exclusion. Default: 0.1.
	Dislike float64 `json:"dislike"`
}

// PriceBucket maps prices strictly below UpperBound to Label.
type PriceBucket struct {
	UpperBound float64 `json:"upper_bound"`
	Label      string  `json:"label"`
}

// FeatureConfig holds thresholds used by the feature builder.
type FeatureConfig struct {
	// PriceBuckets must be sorted by ascending UpperBound.
	// Default: <300 ultra_budget, <800 budget, <1500 mid_range, <3000 premium.
	PriceBuckets []PriceBucket `json:"price_buckets"`

	// PriceOverflowLabel is used for prices above every bucket. Default: luxury.
	PriceOverflowLabel string `json:"price_overflow_label"`

	// ActivityHigh is the total-view count above which a user is "high". Default: 50.
	ActivityHigh int `json:"activity_high"`

	// ActivityMedium is the total-view count above which a user is "medium". Default: 10.
	ActivityMedium int `json:"activity_medium"`

	// PositiveRatio is the like share above which a user is "positive". Default: 0.6.
	PositiveRatio float64 `json:"positive_ratio"`

	// NegativeRatio is the like share below which a user is "negative". Default: 0.4.
	NegativeRatio float64 `json:"negative_ratio"`
}

// Hyperparams configures the collaborative model. Training is reproducible
// for a fixed Seed.
type Hyperparams struct {
	// Factors is the latent dimensionality. Default: 10.
	Factors int `json:"factors"`

	// LearningRate is the SGD step size. Default: 0.05.
	LearningRate float64 `json:"learning_rate"`

	// ItemAlpha is the L2 penalty on item feature parameters. Default: 1e-6.
	ItemAlpha float64 `json:"item_alpha"`

	// UserAlpha is the L2 penalty on user feature parameters. Default: 1e-6.
	UserAlpha float64 `json:"user_alpha"`

	// Epochs is the number of passes over the interactions. Default: 30.
	Epochs int `json:"epochs"`

	// MaxSampled bounds negative samples drawn per positive. Default: 10.
	MaxSampled int `json:"max_sampled"`

	// Seed seeds parameter initialization and sampling. Default: 42.
	Seed int64 `json:"seed"`

	// Threads bounds prediction parallelism. Default: 2.
	Threads int `json:"threads"`
}

// TrainingConfig contains training lifecycle parameters.
type TrainingConfig struct {
	// MinUsers is the minimum number of active users to train. Default: 2.
	MinUsers int `json:"min_users"`

	// MinItems is the minimum number of active items to train. Default: 2.
	MinItems int `json:"min_items"`

	// RetrainThreshold is the number of swipes that schedules a retrain. Default: 100.
	RetrainThreshold int64 `json:"retrain_threshold"`

	// Timeout bounds a background retrain. Default: 30m.
	Timeout time.Duration `json:"timeout"`

	// TrainOnColdStart trains synchronously when a request finds no model.
	// Default: true.
	TrainOnColdStart bool `json:"train_on_cold_start"`

	// ModelVersion is the version tag of newly trained state. Default: 2.0.0.
	ModelVersion string `json:"model_version"`
}

// CacheConfig contains recommendation cache parameters.
type CacheConfig struct {
	// TTL is how long a cached list is served. Default: 1h.
	TTL time.Duration `json:"ttl"`

	// KeyPrefix prefixes cache keys. Default: recommendations.
	KeyPrefix string `json:"key_prefix"`
}

// DefaultPriceBuckets returns the standard marketplace price brackets.
func DefaultPriceBuckets() []PriceBucket {
	return []PriceBucket{
		{UpperBound: 300, Label: "ultra_budget"},
		{UpperBound: 800, Label: "budget"},
		{UpperBound: 1500, Label: "mid_range"},
		{UpperBound: 3000, Label: "premium"},
	}
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Quota: QuotaConfig{
			Content:       4,
			Collaborative: 3,
			Random:        3,
		},
		DefaultCount: 10,
		MaxCount:     100,
		Signals: SignalWeights{
			ViewBase:    1.0,
			ViewDivisor: 10.0,
			ViewCap:     2.0,
			Wishlist:    3.0,
			Like:        2.5,
			Cart:        4.0,
			Dislike:     0.1,
		},
		Features: FeatureConfig{
			PriceBuckets:       DefaultPriceBuckets(),
			PriceOverflowLabel: "luxury",
			ActivityHigh:       50,
			ActivityMedium:     10,
			PositiveRatio:      0.6,
			NegativeRatio:      0.4,
		},
		Model: Hyperparams{
			Factors:      10,
			LearningRate: 0.05,
			ItemAlpha:    1e-6,
			UserAlpha:    1e-6,
			Epochs:       30,
			MaxSampled:   10,
			Seed:         42,
			Threads:      2,
		},
		Training: TrainingConfig{
			MinUsers:         2,
			MinItems:         2,
			RetrainThreshold: 100,
			Timeout:          30 * time.Minute,
			TrainOnColdStart: true,
			ModelVersion:     DefaultModelVersion,
		},
		Cache: CacheConfig{
			TTL:       time.Hour,
			KeyPrefix: "recommendations",
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Quota.Content < 0 || c.Quota.Collaborative < 0 || c.Quota.Random < 0 {
		return fmt.Errorf("quota values must be non-negative, got %+v", c.Quota)
	}
	if c.DefaultCount < 1 {
		return fmt.Errorf("default_count must be positive, got %d", c.DefaultCount)
	}
	if c.MaxCount < c.DefaultCount {
		return fmt.Errorf("max_count must be >= default_count, got %d < %d", c.MaxCount, c.DefaultCount)
	}

	if c.Signals.ViewDivisor <= 0 {
		return fmt.Errorf("signals.view_divisor must be positive, got %f", c.Signals.ViewDivisor)
	}
	if c.Signals.Dislike < 0 {
		return fmt.Errorf("signals.dislike must be non-negative, got %f", c.Signals.Dislike)
	}

	for i := 1; i < len(c.Features.PriceBuckets); i++ {
		if c.Features.PriceBuckets[i].UpperBound <= c.Features.PriceBuckets[i-1].UpperBound {
			return fmt.Errorf("features.price_buckets must be ascending, got %v after %v",
				c.Features.PriceBuckets[i].UpperBound, c.Features.PriceBuckets[i-1].UpperBound)
		}
	}
	if c.Features.PriceOverflowLabel == "" {
		return fmt.Errorf("features.price_overflow_label must not be empty")
	}
	if c.Features.ActivityMedium > c.Features.ActivityHigh {
		return fmt.Errorf("features.activity_medium must be <= activity_high, got %d > %d",
			c.Features.ActivityMedium, c.Features.ActivityHigh)
	}
	if c.Features.NegativeRatio > c.Features.PositiveRatio {
		return fmt.Errorf("features.negative_ratio must be <= positive_ratio, got %f > %f",
			c.Features.NegativeRatio, c.Features.PositiveRatio)
	}

	if c.Model.Factors < 1 {
		return fmt.Errorf("model.factors must be positive, got %d", c.Model.Factors)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive, got %f", c.Model.LearningRate)
	}
	if c.Model.Epochs < 1 {
		return fmt.Errorf("model.epochs must be positive, got %d", c.Model.Epochs)
	}
	if c.Model.MaxSampled < 1 {
		return fmt.Errorf("model.max_sampled must be positive, got %d", c.Model.MaxSampled)
	}
	if c.Model.ItemAlpha < 0 || c.Model.UserAlpha < 0 {
		return fmt.Errorf("model alphas must be non-negative, got item=%g user=%g", c.Model.ItemAlpha, c.Model.UserAlpha)
	}

	if c.Training.MinUsers < 1 || c.Training.MinItems < 1 {
		return fmt.Errorf("training minimums must be positive, got users=%d items=%d",
			c.Training.MinUsers, c.Training.MinItems)
	}
	if c.Training.RetrainThreshold < 1 {
		return fmt.Errorf("training.retrain_threshold must be positive, got %d", c.Training.RetrainThreshold)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Features.PriceBuckets = append([]PriceBucket(nil), c.Features.PriceBuckets...)
	return &clone
}
