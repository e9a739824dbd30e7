// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeledger",
		Subsystem: "ledger",
		Name:      "operations",
		Help:      "Number of ledger operations by kind and result",
	}, []string{"op", "status"})
	mRescueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stakeledger",
		Subsystem: "ledger",
		Name:      "rescue_total",
		Help:      "Number of admin rescues",
	})
	mRescueAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeledger",
		Subsystem: "ledger",
		Name:      "rescue_amount",
		Help:      "Amount moved out of pool vaults by admin rescues",
	}, []string{"token"})
	mCommitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stakeledger",
		Subsystem: "ledger",
		Name:      "commit_duration",
		Help:      "Commit duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)
