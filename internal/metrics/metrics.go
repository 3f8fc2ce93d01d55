package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Packet scan metrics
	packetsScannedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_packets_scanned_total",
		Help: "Total packets examined by the filter stage",
	}, []string{"stream_id"})

	packetsMatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_packets_matched_total",
		Help: "Total packets that passed the active predicate",
	}, []string{"stream_id"})

	// Grouping metrics
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_runs_total",
		Help: "Total consecutive runs opened",
	}, []string{"stream_id"})

	keyframeGroupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_keyframe_groups_total",
		Help: "Total keyframe-anchored groups yielded",
	}, []string{"stream_id"})

	boundariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_group_boundaries_total",
		Help: "Total group boundaries recorded by the streaming grouper",
	}, []string{"stream_id"})

	// Decode metrics
	framesDecodedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_frames_decoded_total",
		Help: "Total frames emitted by the decode engine",
	}, []string{"stream_id"})

	framesFlushedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_frames_flushed_total",
		Help: "Total frames drained by decoder flushes",
	}, []string{"stream_id"})

	decodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_decode_errors_total",
		Help: "Total per-packet decode failures that were swallowed",
	}, []string{"stream_id"})

	seekErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_seek_errors_total",
		Help: "Total seek failures degraded to partial group results",
	}, []string{"stream_id"})
)

// IncrementPacketsScanned increments the scanned packet counter.
func IncrementPacketsScanned(streamID string) {
	packetsScannedTotal.WithLabelValues(streamID).Inc()
}

// IncrementPacketsMatched increments the matched packet counter.
func IncrementPacketsMatched(streamID string) {
	packetsMatchedTotal.WithLabelValues(streamID).Inc()
}

// IncrementRuns increments the run counter.
func IncrementRuns(streamID string) {
	runsTotal.WithLabelValues(streamID).Inc()
}

// IncrementKeyframeGroups increments the keyframe group counter.
func IncrementKeyframeGroups(streamID string) {
	keyframeGroupsTotal.WithLabelValues(streamID).Inc()
}

// IncrementBoundaries increments the boundary counter.
func IncrementBoundaries(streamID string) {
	boundariesTotal.WithLabelValues(streamID).Inc()
}

// AddFramesDecoded adds to the decoded frame counter.
func AddFramesDecoded(streamID string, n int) {
	framesDecodedTotal.WithLabelValues(streamID).Add(float64(n))
}

// AddFramesFlushed adds to the flushed frame counter.
func AddFramesFlushed(streamID string, n int) {
	framesFlushedTotal.WithLabelValues(streamID).Add(float64(n))
}

// IncrementDecodeErrors increments the swallowed decode failure counter.
func IncrementDecodeErrors(streamID string) {
	decodeErrorsTotal.WithLabelValues(streamID).Inc()
}

// IncrementSeekErrors increments the seek failure counter.
func IncrementSeekErrors(streamID string) {
	seekErrorsTotal.WithLabelValues(streamID).Inc()
}
