// Package analysis provides post-run tools for observable time series.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled observable
//   - [DominantFrequency]: strongest oscillation frequency, e.g. the
//     trap frequency recovered from a centroid trace
//   - [LinearFit]: least-squares slope and intercept, e.g. the drift
//     velocity of a free packet
package analysis
