// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mMapCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "registry",
		Name:      "conversion_map_created",
		Help:      "Number of times the conversion map was created",
	})
	mPairingsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "registry",
		Name:      "pairings_registered",
		Help:      "Number of coin to asset pairings registered",
	})
	mPairingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "registry",
		Name:      "pairing_conflicts",
		Help:      "Number of pairing registrations rejected due to a conflicting entry",
	})
	mMapSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "meridian",
		Subsystem: "registry",
		Name:      "conversion_map_size",
		Help:      "Number of coin types in the conversion map",
	})
)
